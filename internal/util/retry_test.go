package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetryErr(t *testing.T) {
	t.Parallel()

	t.Run("succeeds after failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := RetryErr(3, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if calls != 3 {
			t.Fatalf("calls: got %d, want 3", calls)
		}
	})

	t.Run("returns last error when exhausted", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("persistent")
		calls := 0
		err := RetryErr(2, func() error {
			calls++
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected %v, got %v", wantErr, err)
		}
		if calls != 2 {
			t.Fatalf("calls: got %d, want 2", calls)
		}
	})

	t.Run("zero tries defaults to one", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_ = RetryErr(0, func() error {
			calls++
			return errors.New("fail")
		})
		if calls != 1 {
			t.Fatalf("calls: got %d, want 1", calls)
		}
	})
}

func TestRetryWithContext(t *testing.T) {
	t.Parallel()

	t.Run("returns result on success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		result, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (string, error) {
			calls++
			if calls < 2 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result != "ok" {
			t.Fatalf("result: got %q, want %q", result, "ok")
		}
	})

	t.Run("does not retry cancellation", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := RetryWithContext(context.Background(), 5, func(ctx context.Context) (int, error) {
			calls++
			return 0, context.Canceled
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if calls != 1 {
			t.Fatalf("calls: got %d, want 1", calls)
		}
	})

	t.Run("stops when context is done", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		_, err := RetryWithContext(ctx, 5, func(ctx context.Context) (int, error) {
			calls++
			return 0, errors.New("fail")
		})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if calls != 0 {
			t.Fatalf("calls: got %d, want 0", calls)
		}
	})
}
