package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gravbot/internal/replays"
	"gravbot/internal/services/parse"
)

type batchItemOutput struct {
	Input   string          `json:"input"`
	UUID    string          `json:"uuid,omitempty"`
	Status  string          `json:"status"`
	Code    int             `json:"code,omitempty"`
	Error   string          `json:"error,omitempty"`
	Summary json.RawMessage `json:"summary,omitempty"`
}

type batchOutput struct {
	Processed  int               `json:"processed"`
	Inserted   int               `json:"inserted"`
	Duplicates int               `json:"duplicates"`
	Invalid    int               `json:"invalid"`
	Errors     int               `json:"errors"`
	Items      []batchItemOutput `json:"items"`
}

func toBatchOutput(tally replays.Tally) batchOutput {
	out := batchOutput{
		Processed:  tally.Processed,
		Inserted:   tally.Inserted,
		Duplicates: tally.Duplicates,
		Invalid:    tally.Invalid,
		Errors:     tally.Errors,
		Items:      make([]batchItemOutput, 0, len(tally.Items)),
	}
	for _, item := range tally.Items {
		entry := batchItemOutput{Input: item.Input, UUID: item.UUID}
		if item.Err != nil {
			entry.Status = "invalid"
			entry.Error = item.Err.Error()
		} else {
			entry.Status = item.Result.Outcome.String()
			entry.Code = item.Result.StatusCode
			entry.Error = item.Result.Message
			entry.Summary = item.Result.Summary
		}
		out.Items = append(out.Items, entry)
	}
	return out
}

// renderTally prints a batch result and returns an error when any input
// failed so scripts see a non-zero exit status.
func renderTally(cmd *cobra.Command, ctx *commandContext, tally replays.Tally) error {
	out := toBatchOutput(tally)
	if ctx.jsonOutput() {
		if err := writeJSON(cmd, out); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(out.Items))
		for _, item := range out.Items {
			rows = append(rows, []string{
				item.Input,
				item.UUID,
				outcomeLabel(item.Status),
				itemDetail(item),
			})
		}
		w := cmd.OutOrStdout()
		if len(rows) > 0 {
			fmt.Fprintln(w, renderTable(w, []string{"Input", "UUID", "Outcome", "Detail"}, rows, nil))
		}
		p := newPrinter()
		fmt.Fprintln(w, p.Sprintf("Processed %d: %d inserted, %d duplicate, %d invalid, %d failed",
			out.Processed, out.Inserted, out.Duplicates, out.Invalid, out.Errors))
	}
	if failed := out.Invalid + out.Errors; failed > 0 {
		return fmt.Errorf("%d of %d replays were not recorded", failed, out.Processed)
	}
	return nil
}

func outcomeLabel(status string) string {
	return cases.Title(language.English).String(status)
}

func itemDetail(item batchItemOutput) string {
	switch {
	case item.Code != 0:
		return strings.TrimSpace(strconv.Itoa(item.Code) + " " + item.Error)
	case item.Error != "":
		return item.Error
	case len(item.Summary) > 0:
		return compactJSON(item.Summary)
	default:
		return ""
	}
}

func resultDetail(result parse.Result) string {
	return itemDetail(batchItemOutput{
		Code:    result.StatusCode,
		Error:   result.Message,
		Summary: result.Summary,
	})
}

func compactJSON(raw json.RawMessage) string {
	const limit = 60
	text := strings.Join(strings.Fields(string(raw)), " ")
	if len(text) > limit {
		return text[:limit-3] + "..."
	}
	return text
}
