package replays

import (
	"context"

	"golang.org/x/sync/errgroup"

	"gravbot/internal/logging"
	"gravbot/internal/services/parse"
)

const defaultConcurrency = 4

// Item is the outcome of one batch input.
type Item struct {
	Input string
	// UUID is the normalised identifier; empty when the input was invalid.
	UUID string
	// Err is set for invalid inputs, which are never submitted.
	Err    error
	Result parse.Result
}

// Tally summarises a batch. Every input counts as processed; each lands in
// exactly one of Inserted, Duplicates, Invalid or Errors.
type Tally struct {
	Processed  int
	Inserted   int
	Duplicates int
	Invalid    int
	Errors     int
	Items      []Item
}

// SubmitAll normalises every input with ParseInput and submits the valid
// ones with at most concurrency requests in flight. Items are reported in
// input order. A cancelled context stops new submissions; the remaining
// inputs are reported as transport errors by the parse client.
func (r *Recorder) SubmitAll(ctx context.Context, inputs []string, concurrency int) Tally {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	items := make([]Item, len(inputs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for i, input := range inputs {
		items[i].Input = input
		id, err := ParseInput(input)
		if err != nil {
			items[i].Err = err
			continue
		}
		items[i].UUID = id
		group.Go(func() error {
			items[i].Result = r.Submit(groupCtx, id)
			return nil
		})
	}
	_ = group.Wait()

	tally := Tally{Processed: len(items), Items: items}
	for _, item := range items {
		switch {
		case item.Err != nil:
			tally.Invalid++
		case item.Result.Outcome == parse.OutcomeInserted:
			tally.Inserted++
		case item.Result.Outcome == parse.OutcomeDuplicate:
			tally.Duplicates++
		default:
			tally.Errors++
		}
	}

	logging.WithContext(ctx, r.logger).Info("batch submission complete",
		logging.String(logging.FieldEventType, "batch_submitted"),
		logging.Int("processed", tally.Processed),
		logging.Int("inserted", tally.Inserted),
		logging.Int("duplicates", tally.Duplicates),
		logging.Int("invalid", tally.Invalid),
		logging.Int("errors", tally.Errors),
	)
	return tally
}
