package database

import (
	"context"
	"testing"
)

func TestConnect_Validation(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}

	if _, err := Connect(context.Background(), "invalid-dsn"); err == nil {
		t.Fatalf("expected error for invalid dsn")
	}
}

func TestNewChangeListener(t *testing.T) {
	l := NewChangeListener(nil, "directory_changes")
	if l.Changes() == nil {
		t.Fatalf("expected changes channel")
	}
	if cap(l.changes) != changeBuffer {
		t.Fatalf("expected buffered channel of %d, got %d", changeBuffer, cap(l.changes))
	}
}
