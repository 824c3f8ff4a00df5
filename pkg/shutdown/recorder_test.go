package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecorderCountsInvocations(t *testing.T) {
	rec := NewRecorder()

	if rec.Count() != 0 {
		t.Errorf("Count() = %d, want 0", rec.Count())
	}

	for i := 0; i < 3; i++ {
		if err := rec.Invoke(context.Background()); err != nil {
			t.Fatalf("Invoke() error = %v", err)
		}
	}

	if rec.Count() != 3 {
		t.Errorf("Count() = %d, want 3", rec.Count())
	}
	if len(rec.Calls()) != 3 {
		t.Errorf("len(Calls()) = %d, want 3", len(rec.Calls()))
	}
}

func TestRecorderErr(t *testing.T) {
	rec := NewRecorder()
	boom := errors.New("helper failed")
	rec.SetErr(boom)

	if err := rec.Invoke(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Invoke() error = %v, want %v", err, boom)
	}
	if rec.Count() != 1 {
		t.Errorf("Count() = %d, want 1 (failed invocations still count)", rec.Count())
	}
}

func TestRecorderCallTimesAreCopies(t *testing.T) {
	rec := NewRecorder()
	if err := rec.Invoke(context.Background()); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	calls := rec.Calls()
	calls[0] = calls[0].Add(-time.Hour)

	if got := rec.Calls()[0]; got.Equal(calls[0]) {
		t.Error("Calls() returned a shared slice")
	}
}
