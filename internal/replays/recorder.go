package replays

import (
	"context"
	"errors"
	"log/slog"

	"gravbot/internal/logging"
	"gravbot/internal/services/parse"
)

// Submitter delivers one identifier to the parse endpoint.
type Submitter interface {
	Submit(ctx context.Context, uuid string) parse.Result
}

// Appender writes one identifier to the local fallback store.
type Appender interface {
	Append(uuid string) error
}

// ResultHandler observes submission results that RecordReplay would
// otherwise discard.
type ResultHandler func(ctx context.Context, result parse.Result)

// Recorder routes identifiers to the parse client or the fallback store.
type Recorder struct {
	submitter Submitter
	store     Appender
	onResult  ResultHandler
	logger    *slog.Logger
}

// Option customises a Recorder.
type Option func(*Recorder)

// WithResultHandler registers a callback invoked with every submission
// result, including the ones RecordReplay discards.
func WithResultHandler(handler ResultHandler) Option {
	return func(r *Recorder) {
		r.onResult = handler
	}
}

// WithLogger sets the recorder logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logging.NewComponentLogger(logger, "replays")
	}
}

// NewRecorder builds a Recorder. store may be nil when only submissions are
// needed; RecordReplay with onlyLog then fails.
func NewRecorder(submitter Submitter, store Appender, opts ...Option) (*Recorder, error) {
	if submitter == nil {
		return nil, errors.New("replays: submitter is required")
	}
	r := &Recorder{
		submitter: submitter,
		store:     store,
		logger:    logging.NewComponentLogger(nil, "replays"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RecordReplay appends uuid to the fallback store when onlyLog is set and
// submits it otherwise. A submission result is discarded (after the result
// handler sees it); the only error returned is the fallback store's.
func (r *Recorder) RecordReplay(ctx context.Context, uuid string, onlyLog bool) error {
	if onlyLog {
		if r.store == nil {
			return errors.New("replays: fallback store is not configured")
		}
		return r.store.Append(uuid)
	}
	r.Submit(ctx, uuid)
	return nil
}

// Submit sends uuid to the parse endpoint and returns the full result.
func (r *Recorder) Submit(ctx context.Context, uuid string) parse.Result {
	result := r.submitter.Submit(ctx, uuid)
	if r.onResult != nil {
		r.onResult(ctx, result)
	}
	return result
}
