package shared

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	t.Run("returns valid UUID", func(t *testing.T) {
		id := GenerateID()
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected valid UUID, got %s: %v", id, err)
		}
	})

	t.Run("returns unique IDs", func(t *testing.T) {
		a := GenerateID()
		b := GenerateID()
		if a == b {
			t.Error("expected unique IDs")
		}
	})
}

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(state) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(state))
	}

	other, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if state == other {
		t.Error("expected unique state tokens")
	}
}

func TestFormatDuration(t *testing.T) {
	t.Run("zero", func(t *testing.T) {
		if got := FormatDuration(0); got != "00:00" {
			t.Errorf("expected 00:00, got %s", got)
		}
	})

	t.Run("sub-minute", func(t *testing.T) {
		if got := FormatDuration(42000); got != "00:42" {
			t.Errorf("expected 00:42, got %s", got)
		}
	})

	t.Run("rounds down partial seconds", func(t *testing.T) {
		if got := FormatDuration(42999); got != "00:42" {
			t.Errorf("expected 00:42, got %s", got)
		}
	})

	t.Run("minutes and seconds", func(t *testing.T) {
		if got := FormatDuration(201000); got != "03:21" {
			t.Errorf("expected 03:21, got %s", got)
		}
	})

	t.Run("does not wrap at the hour", func(t *testing.T) {
		if got := FormatDuration(3600000); got != "60:00" {
			t.Errorf("expected 60:00, got %s", got)
		}
	})
}

func TestFormatPlayedAt(t *testing.T) {
	t.Run("truncates RFC3339 to date", func(t *testing.T) {
		if got := FormatPlayedAt("2024-03-01T18:04:05.123Z"); got != "2024-03-01" {
			t.Errorf("expected 2024-03-01, got %s", got)
		}
	})

	t.Run("handles offsets", func(t *testing.T) {
		if got := FormatPlayedAt("2024-03-01T23:30:00+05:00"); got != "2024-03-01" {
			t.Errorf("expected 2024-03-01, got %s", got)
		}
	})

	t.Run("returns unparseable input unchanged", func(t *testing.T) {
		if got := FormatPlayedAt("not a timestamp"); got != "not a timestamp" {
			t.Errorf("expected input unchanged, got %s", got)
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	t.Run("pretty", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(out), "\n") {
			t.Error("expected indented output")
		}
	})

	t.Run("compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Contains(string(out), "\n") {
			t.Error("expected compact output")
		}
	})
}
