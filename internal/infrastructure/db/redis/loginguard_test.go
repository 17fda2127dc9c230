package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func testGuard(t *testing.T, window time.Duration, maxFailures int) (*LoginGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginGuard(client, window, maxFailures), mr
}

func TestLoginGuard_Threshold(t *testing.T) {
	guard, _ := testGuard(t, time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := guard.RecordFailure(ctx, "a@x.com"); err != nil {
			t.Fatalf("RecordFailure failed: %v", err)
		}
	}
	blocked, err := guard.TooManyAttempts(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("TooManyAttempts failed: %v", err)
	}
	if blocked {
		t.Fatalf("blocked below the threshold")
	}

	if err := guard.RecordFailure(ctx, "a@x.com"); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	blocked, err = guard.TooManyAttempts(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("TooManyAttempts failed: %v", err)
	}
	if !blocked {
		t.Fatalf("not blocked at the threshold")
	}

	// Other accounts are unaffected.
	blocked, err = guard.TooManyAttempts(ctx, "b@x.com")
	if err != nil {
		t.Fatalf("TooManyAttempts failed: %v", err)
	}
	if blocked {
		t.Fatalf("unrelated account blocked")
	}
}

func TestLoginGuard_Reset(t *testing.T) {
	guard, _ := testGuard(t, time.Minute, 1)
	ctx := context.Background()

	if err := guard.RecordFailure(ctx, "a@x.com"); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	blocked, err := guard.TooManyAttempts(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("TooManyAttempts failed: %v", err)
	}
	if !blocked {
		t.Fatalf("expected account to be blocked")
	}

	if err := guard.Reset(ctx, "a@x.com"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	blocked, err = guard.TooManyAttempts(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("TooManyAttempts failed: %v", err)
	}
	if blocked {
		t.Fatalf("account still blocked after reset")
	}
}

func TestLoginGuard_WindowExpiry(t *testing.T) {
	guard, mr := testGuard(t, time.Minute, 1)
	ctx := context.Background()

	if err := guard.RecordFailure(ctx, "a@x.com"); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	blocked, err := guard.TooManyAttempts(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("TooManyAttempts failed: %v", err)
	}
	if blocked {
		t.Fatalf("counter survived past the window")
	}
}

func TestLoginGuard_Defaults(t *testing.T) {
	guard, _ := testGuard(t, 0, 0)
	if guard.window != defaultWindow {
		t.Fatalf("expected default window, got %v", guard.window)
	}
	if guard.maxFailures != defaultMaxFailures {
		t.Fatalf("expected default max failures, got %d", guard.maxFailures)
	}
}
