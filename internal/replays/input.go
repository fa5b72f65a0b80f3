package replays

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"gravbot/internal/services"
)

// ErrInvalidInput marks an input that is neither a replay UUID nor a link
// carrying one.
var ErrInvalidInput = fmt.Errorf("%w: invalid replay input", services.ErrValidation)

// ParseInput normalises a user-supplied replay reference to a canonical
// lower-case UUID. It accepts a bare UUID or an http(s) link with a uuid
// query parameter. Replay links (replay=) cannot be resolved to a UUID
// without downloading the replay and are rejected.
func ParseInput(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidInput)
	}
	if id, err := parseUUID(input); err == nil {
		return id, nil
	}
	link, err := url.Parse(input)
	if err != nil || (link.Scheme != "http" && link.Scheme != "https") || link.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidInput, input)
	}
	query := link.Query()
	if raw := query.Get("uuid"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			return "", fmt.Errorf("%w: uuid parameter %q", ErrInvalidInput, raw)
		}
		return id, nil
	}
	if query.Has("replay") {
		return "", fmt.Errorf("%w: replay links are not supported, use the uuid link", ErrInvalidInput)
	}
	return "", fmt.Errorf("%w: link has no uuid parameter", ErrInvalidInput)
}

// parseUUID accepts only the 36-character hyphenated form.
func parseUUID(raw string) (string, error) {
	if len(raw) != 36 {
		return "", fmt.Errorf("uuid must be 36 characters")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
