package blog

import (
	"testing"
	"time"
)

// fail mirrors a failed admin login: check the limit, then record the attempt.
func fail(l *LoginLimiter, ip string) bool {
	if !l.Check(ip) {
		return false
	}
	l.Record(ip)
	return true
}

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewLoginLimiter(2, 200*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.10"

	if !fail(limiter, ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if !fail(limiter, ip) {
		t.Fatalf("expected second attempt to be allowed")
	}
	if fail(limiter, ip) {
		t.Fatalf("expected third attempt to be blocked")
	}
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewLoginLimiter(1, 150*time.Millisecond)
	defer limiter.Stop()
	ip := "203.0.113.20"

	if !fail(limiter, ip) {
		t.Fatalf("expected first attempt to be allowed")
	}
	if fail(limiter, ip) {
		t.Fatalf("expected second attempt to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !fail(limiter, ip) {
		t.Fatalf("expected attempt after window to be allowed")
	}
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	limiter := NewLoginLimiter(1, 200*time.Millisecond)
	defer limiter.Stop()

	if !fail(limiter, "203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !fail(limiter, "203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if fail(limiter, "203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestLoginLimiterCheckDoesNotRecord(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	defer limiter.Stop()
	ip := "203.0.113.40"

	for i := 0; i < 3; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("Check should not consume attempts (iteration %d)", i)
		}
	}
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatalf("expected ip to be blocked after a recorded failure")
	}
}

func TestLoginLimiterStopIsIdempotent(t *testing.T) {
	limiter := NewLoginLimiter(1, time.Minute)
	limiter.Stop()
	limiter.Stop()
}
