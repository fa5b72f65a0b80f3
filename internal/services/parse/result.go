package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"gravbot/internal/services"
)

// Outcome classifies a submission attempt.
type Outcome int

const (
	OutcomeError Outcome = iota
	OutcomeInserted
	OutcomeDuplicate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return "error"
	}
}

// MarshalText lets Outcome appear as its label in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is the outcome of one submission attempt.
type Result struct {
	UUID    string
	Outcome Outcome
	// Summary is the server's optional summary for inserted and duplicate
	// results. It is nil when the field was absent, null or unparseable.
	Summary json.RawMessage
	// Message holds the response body or transport error for error results.
	Message string
	// StatusCode is the HTTP status for error results that received a
	// response. Zero means the request never got one.
	StatusCode int
}

// OK reports whether the identifier is now known to the server.
func (r Result) OK() bool {
	return r.Outcome == OutcomeInserted || r.Outcome == OutcomeDuplicate
}

// Err returns nil for inserted and duplicate results. Error results wrap
// services.ErrRemoteRejection when a status code was received and
// services.ErrTransportFailure otherwise.
func (r Result) Err() error {
	if r.Outcome != OutcomeError {
		return nil
	}
	message := strings.TrimSpace(r.Message)
	if r.StatusCode != 0 {
		return services.Wrap(services.ErrRemoteRejection, "parse", "submit", fmt.Sprintf("status %d: %s", r.StatusCode, message), nil)
	}
	return services.Wrap(services.ErrTransportFailure, "parse", "submit", message, nil)
}

type resultJSON struct {
	UUID       string          `json:"uuid"`
	OK         bool            `json:"ok"`
	Status     Outcome         `json:"status"`
	Summary    json.RawMessage `json:"summary,omitempty"`
	Error      string          `json:"error,omitempty"`
	StatusCode int             `json:"code,omitempty"`
}

// MarshalJSON renders the result in the same shape the bot reports it:
// ok, status and either summary or error/code.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{UUID: r.UUID, OK: r.Outcome == OutcomeInserted, Status: r.Outcome}
	if r.Outcome == OutcomeError {
		out.Error = r.Message
		out.StatusCode = r.StatusCode
	} else {
		out.Summary = r.Summary
	}
	return json.Marshal(out)
}
