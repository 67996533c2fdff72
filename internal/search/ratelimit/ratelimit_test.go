package ratelimit_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alex-user-go/travelsearch/internal/search/ratelimit"
)

func TestLimiter_Take(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		calls         int
		wantAllowed   int
		wantRemaining int
	}{
		{name: "under the limit", limit: 5, calls: 3, wantAllowed: 3, wantRemaining: 2},
		{name: "exactly the limit", limit: 3, calls: 3, wantAllowed: 3, wantRemaining: 0},
		{name: "over the limit", limit: 3, calls: 7, wantAllowed: 3, wantRemaining: 0},
		{name: "zero limit", limit: 0, calls: 2, wantAllowed: 0, wantRemaining: 0},
		{name: "negative limit", limit: -4, calls: 2, wantAllowed: 0, wantRemaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ratelimit.New(tt.limit, time.Minute)
			defer l.Close()

			allowed := 0
			var last ratelimit.Decision
			for range tt.calls {
				last = l.Take("203.0.113.7")
				if last.Allowed {
					allowed++
				}
			}

			if allowed != tt.wantAllowed {
				t.Errorf("allowed %d calls, want %d", allowed, tt.wantAllowed)
			}
			if last.Remaining != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", last.Remaining, tt.wantRemaining)
			}
			if last.Limit != max(tt.limit, 0) {
				t.Errorf("limit = %d, want %d", last.Limit, max(tt.limit, 0))
			}
		})
	}
}

func TestLimiter_Take_FixedWindow(t *testing.T) {
	l := ratelimit.New(3, time.Minute)
	defer l.Close()

	start := time.Now()
	first := l.Take("10.0.0.1")
	for i := 0; i < 4; i++ {
		if d := l.Take("10.0.0.1"); !d.ResetAt.Equal(first.ResetAt) {
			t.Fatalf("call %d: reset moved within a window", i+1)
		}
	}

	if first.ResetAt.Before(start.Add(time.Minute)) || first.ResetAt.After(time.Now().Add(time.Minute)) {
		t.Errorf("reset at %v, want one window after the first request", first.ResetAt)
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := ratelimit.New(1, 50*time.Millisecond)
	defer l.Close()

	if !l.Allow("10.0.0.2") {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("10.0.0.2") {
		t.Fatal("second request in the same window should be rejected")
	}

	time.Sleep(60 * time.Millisecond)

	d := l.Take("10.0.0.2")
	if !d.Allowed || d.Remaining != 0 {
		t.Errorf("after expiry got %+v, want a fresh window", d)
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := ratelimit.New(1, time.Minute)
	defer l.Close()

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "::1", ""} {
		if !l.Allow(ip) {
			t.Errorf("%q: first request rejected", ip)
		}
		if l.Allow(ip) {
			t.Errorf("%q: second request allowed", ip)
		}
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l := ratelimit.New(100, time.Minute)
	defer l.Close()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for range 250 {
		wg.Go(func() {
			<-start
			if l.Allow("10.0.0.9") {
				allowed.Add(1)
			}
		})
	}
	close(start)
	wg.Wait()

	if got := allowed.Load(); got != 100 {
		t.Errorf("%d concurrent requests allowed, want 100", got)
	}
}
