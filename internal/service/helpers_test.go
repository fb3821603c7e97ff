package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"campushire/internal/cache"
	"campushire/internal/otp"
	"campushire/internal/security"
)

const testSecret = "test-secret-key-that-is-at-least-32-chars"

// captureSender records the last code mailed to each address.
type captureSender struct {
	mu    sync.Mutex
	codes map[string]string
	sent  int
	err   error
}

func newCaptureSender() *captureSender {
	return &captureSender{codes: map[string]string{}}
}

func (c *captureSender) Send(_ context.Context, to, subject, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent++
	c.codes[to] = strings.TrimPrefix(subject, "CampusHire AI - Your OTP is ")
	return nil
}

func (c *captureSender) code(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codes[email]
}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestOTP(t *testing.T) (*otp.Service, *captureSender, *testClock) {
	t.Helper()
	clk := &testClock{t: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	sender := newCaptureSender()
	store := cache.NewMemoryStore().WithClock(clk.now)
	return otp.NewService(store, sender, "CampusHire AI").WithClock(clk.now), sender, clk
}

func newTestIssuer(audience string) *security.TokenIssuer {
	return security.NewTokenIssuer(testSecret, audience, 30*time.Minute)
}
