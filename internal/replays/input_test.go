package replays

import (
	"errors"
	"testing"

	"gravbot/internal/services"
)

func TestParseInputAccepts(t *testing.T) {
	const want = "3f0c2a9e-5d1b-4c8e-9a7f-2b6d1e4c8a01"
	cases := map[string]string{
		"bare":       want,
		"upper case": "3F0C2A9E-5D1B-4C8E-9A7F-2B6D1E4C8A01",
		"padded":     "  " + want + "\n",
		"uuid link":  "https://tagpro.koalabeast.com/game?uuid=" + want,
		"extra args": "https://tagpro.koalabeast.com/replays?foo=1&uuid=" + want,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseInput(input)
			if err != nil {
				t.Fatalf("ParseInput returned error: %v", err)
			}
			if got != want {
				t.Fatalf("got %q, want %q", got, want)
			}
		})
	}
}

func TestParseInputRejects(t *testing.T) {
	cases := map[string]string{
		"empty":        "   ",
		"garbage":      "not-a-uuid",
		"compact uuid": "3f0c2a9e5d1b4c8e9a7f2b6d1e4c8a01",
		"replay link":  "https://tagpro.koalabeast.com/game?replay=abc",
		"bad param":    "https://tagpro.koalabeast.com/game?uuid=nope",
		"no param":     "https://tagpro.koalabeast.com/game",
		"json":         `{"uuid":"3f0c2a9e-5d1b-4c8e-9a7f-2b6d1e4c8a01"}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseInput(input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation marker, got %v", err)
			}
		})
	}
}
