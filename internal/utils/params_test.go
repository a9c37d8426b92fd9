package utils

import (
	"errors"
	"testing"
)

func TestAtoiDefault(t *testing.T) {
	if got := AtoiDefault("42", 0); got != 42 {
		t.Fatalf("AtoiDefault(42) = %d", got)
	}
	if got := AtoiDefault("", 10); got != 10 {
		t.Fatalf("AtoiDefault(empty) = %d", got)
	}
	if got := AtoiDefault("x", 5); got != 5 {
		t.Fatalf("AtoiDefault(x) = %d", got)
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("7"); err != nil || id != 7 {
		t.Fatalf("ParseID(7) = %d, %v", id, err)
	}
	for _, s := range []string{"", "0", "-3", "abc", "1.5"} {
		if _, err := ParseID(s); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("ParseID(%q): expected ErrInvalidID, got %v", s, err)
		}
	}
}
