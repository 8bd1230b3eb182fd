package utils

import (
	"errors"
	"testing"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: 0, Logger: NewLogger()}

	calls := 0
	err := r.Do("flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: 0, Logger: NewLogger()}

	wantErr := errors.New("down")
	calls := 0
	err := r.Do("doomed", func() error {
		calls++
		return wantErr
	})

	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error should wrap the last failure, got %v", err)
	}
}

func TestRetryZeroAttemptsRunsOnce(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 0, BaseDelay: 0, Logger: NewLogger()}

	calls := 0
	_ = r.Do("once", func() error {
		calls++
		return errors.New("nope")
	})
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}
