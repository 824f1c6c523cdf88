package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func testConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     50 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxRetries != 3 {
		t.Errorf("expected MaxRetries=3, got %d", cfg.MaxRetries)
	}
	if cfg.InitialDelay != 100*time.Millisecond {
		t.Errorf("expected InitialDelay=100ms, got %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 5*time.Second {
		t.Errorf("expected MaxDelay=5s, got %v", cfg.MaxDelay)
	}
	if cfg.Multiplier != 2.0 {
		t.Errorf("expected Multiplier=2.0, got %f", cfg.Multiplier)
	}
}

func TestDo_Success(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), testConfig(), func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), testConfig(), func() error {
		callCount++
		if callCount < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error after retries, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestDo_MaxRetriesExhausted(t *testing.T) {
	callCount := 0
	wantErr := errors.New("connection refused")
	err := Do(context.Background(), testConfig(), func() error {
		callCount++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("expected last error to be returned, got %v", err)
	}
	if callCount != 4 {
		t.Errorf("expected 4 calls (1 initial + 3 retries), got %d", callCount)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	callCount := 0
	err := Do(ctx, testConfig(), func() error {
		callCount++
		cancel()
		return errors.New("connection refused")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", callCount)
	}
}

func TestDo_NilConfigUsesDefaults(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), nil, func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestDoWithResult_Success(t *testing.T) {
	result, err := DoWithResult(context.Background(), testConfig(), func() (int, error) {
		return 42, nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %d", result)
	}
}

func TestDoWithResult_SuccessAfterRetries(t *testing.T) {
	callCount := 0
	result, err := DoWithResult(context.Background(), testConfig(), func() (string, error) {
		callCount++
		if callCount < 2 {
			return "", errors.New("i/o timeout")
		}
		return "connected", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "connected" {
		t.Errorf("expected result after retry, got %q", result)
	}
	if callCount != 2 {
		t.Errorf("expected 2 calls, got %d", callCount)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "nil error", err: nil, retryable: false},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:5432: connection refused"), retryable: true},
		{name: "connection reset", err: errors.New("read: connection reset by peer"), retryable: true},
		{name: "io timeout", err: errors.New("read tcp: i/o timeout"), retryable: true},
		{name: "postgres starting up", err: errors.New("FATAL: the database system is starting up"), retryable: true},
		{name: "too many clients", err: errors.New("FATAL: sorry, too many clients already"), retryable: true},
		{name: "mysql invalid connection", err: errors.New("invalid connection"), retryable: true},
		{name: "deadlock", err: errors.New("deadlock detected"), retryable: true},
		{name: "auth failure", err: errors.New("password authentication failed for user"), retryable: false},
		{name: "bad sql", err: errors.New("syntax error at or near SELCT"), retryable: false},
		{name: "missing relation", err: errors.New("relation \"users\" does not exist"), retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

type explicitRetryable struct{ retryable bool }

func (e explicitRetryable) Error() string     { return "explicit" }
func (e explicitRetryable) IsRetryable() bool { return e.retryable }

func TestIsRetryable_ExplicitInterface(t *testing.T) {
	if !IsRetryable(explicitRetryable{retryable: true}) {
		t.Error("expected explicit retryable error to be retryable")
	}
	if IsRetryable(explicitRetryable{retryable: false}) {
		t.Error("expected explicit non-retryable error to be permanent")
	}
}

func TestDoIfRetryable_PermanentErrorReturnsImmediately(t *testing.T) {
	callCount := 0
	wantErr := errors.New("password authentication failed")
	err := DoIfRetryable(context.Background(), testConfig(), func() error {
		callCount++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("expected permanent error to be returned, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected no retries for a permanent error, got %d calls", callCount)
	}
}

func TestDoIfRetryable_TransientErrorRetries(t *testing.T) {
	callCount := 0
	err := DoIfRetryable(context.Background(), testConfig(), func() error {
		callCount++
		if callCount < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected success after retries, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestDoIfRetryable_SameErrorTypeEscalates(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 10
	cfg.MaxSameErrorType = 3

	callCount := 0
	err := DoIfRetryable(context.Background(), cfg, func() error {
		callCount++
		return errors.New("dial tcp: connection refused")
	})

	if err == nil {
		t.Fatal("expected escalated error")
	}
	if !strings.Contains(err.Error(), "repeated error") {
		t.Errorf("expected escalation message, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected escalation after 3 same-type errors, got %d calls", callCount)
	}
}

func TestApplyJitter(t *testing.T) {
	base := 100 * time.Millisecond

	if got := applyJitter(base, 0); got != base {
		t.Errorf("expected no jitter with factor 0, got %v", got)
	}

	for i := 0; i < 20; i++ {
		got := applyJitter(base, 0.1)
		if got < 90*time.Millisecond || got > 110*time.Millisecond {
			t.Errorf("jittered delay %v outside +/-10%% band", got)
		}
	}
}
