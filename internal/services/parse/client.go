package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gravbot/internal/logging"
	"gravbot/internal/metrics"
	"gravbot/internal/services"
)

const (
	defaultOrigin      = "grav bot"
	defaultHTTPTimeout = 45 * time.Second
)

// Config describes the parse client configuration.
type Config struct {
	Endpoint   string
	Origin     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// Client posts replay identifiers to the parse endpoint.
type Client struct {
	endpoint string
	origin   string
	http     *http.Client
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("parse: endpoint is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse: parse endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("parse: endpoint must be http or https, got %q", endpoint)
	}
	origin := strings.TrimSpace(cfg.Origin)
	if origin == "" {
		origin = defaultOrigin
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint: endpoint,
		origin:   origin,
		http:     client,
		logger:   logging.NewComponentLogger(cfg.Logger, "parse"),
		metrics:  cfg.Metrics,
	}, nil
}

type submitRequest struct {
	Input  string `json:"input"`
	Origin string `json:"origin"`
}

type submitResponse struct {
	Summary json.RawMessage `json:"summary"`
}

// Submit posts uuid to the parse endpoint once and classifies the response.
// It never returns a Go error; failures are reported as OutcomeError.
func (c *Client) Submit(ctx context.Context, uuid string) Result {
	uuid = strings.TrimSpace(uuid)
	if c == nil {
		return Result{UUID: uuid, Outcome: OutcomeError, Message: "parse client is nil"}
	}
	started := time.Now()
	result := c.submit(ctx, uuid)
	c.metrics.ObserveSubmission(result.Outcome.String(), time.Since(started))
	c.logResult(ctx, result)
	return result
}

func (c *Client) submit(ctx context.Context, uuid string) Result {
	payload, err := json.Marshal(submitRequest{Input: uuid, Origin: c.origin})
	if err != nil {
		return Result{UUID: uuid, Outcome: OutcomeError, Message: fmt.Sprintf("encode request: %v", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{UUID: uuid, Outcome: OutcomeError, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{UUID: uuid, Outcome: OutcomeError, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return Result{UUID: uuid, Outcome: OutcomeInserted, Summary: extractSummary(body)}
	case http.StatusConflict:
		return Result{UUID: uuid, Outcome: OutcomeDuplicate, Summary: extractSummary(body)}
	}
	message := string(body)
	if readErr != nil && len(body) == 0 {
		message = readErr.Error()
	}
	return Result{UUID: uuid, Outcome: OutcomeError, Message: message, StatusCode: resp.StatusCode}
}

// extractSummary returns the optional summary field of a success body. A body
// that is not a JSON object yields nil; the status code alone decides the
// outcome.
func extractSummary(body []byte) json.RawMessage {
	var decoded submitResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil
	}
	summary := bytes.TrimSpace(decoded.Summary)
	if len(summary) == 0 || bytes.Equal(summary, []byte("null")) {
		return nil
	}
	return append(json.RawMessage(nil), summary...)
}

func (c *Client) logResult(ctx context.Context, result Result) {
	logger := logging.WithContext(ctx, c.logger)
	switch result.Outcome {
	case OutcomeInserted:
		logger.Info("replay inserted",
			logging.String(logging.FieldEventType, "replay_inserted"),
			logging.String(logging.FieldReplayUUID, result.UUID),
			logging.RawJSON("summary", result.Summary),
		)
	case OutcomeDuplicate:
		logger.Info("replay already recorded",
			logging.String(logging.FieldEventType, "replay_duplicate"),
			logging.String(logging.FieldReplayUUID, result.UUID),
			logging.RawJSON("summary", result.Summary),
		)
	default:
		attrs := []logging.Attr{
			logging.String(logging.FieldReplayUUID, result.UUID),
			logging.String(logging.FieldErrorKind, services.Kind(result.Err())),
			logging.String("detail", strings.TrimSpace(result.Message)),
		}
		if result.StatusCode != 0 {
			attrs = append(attrs, logging.Int("status_code", result.StatusCode))
			attrs = append(attrs, logging.String(logging.FieldErrorHint, "the parse service rejected the replay; check the identifier"))
		} else {
			attrs = append(attrs, logging.String(logging.FieldErrorHint, "check network connectivity to the parse endpoint"))
		}
		logging.ErrorWithContext(logger, "replay upload failed", "replay_upload_failed", attrs...)
	}
}
