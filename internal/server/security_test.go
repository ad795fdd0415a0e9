package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(maxPerMinute int, ban time.Duration) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2023, 12, 1, 6, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(maxPerMinute, ban)
	rl.now = clock.Now
	return rl, clock
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	rl, _ := newTestLimiter(3, time.Minute)
	ip := "127.0.0.1"

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(ip), "Request %d should be allowed", i)
	}
	assert.False(t, rl.Allow(ip), "4th request should be blocked")
	assert.True(t, rl.IsBanned(ip))

	// other clients are unaffected
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_BanExpires(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(1, 30*time.Second)
	ip := "192.168.1.1"

	assert.True(t, rl.Allow(ip))
	assert.False(t, rl.Allow(ip))

	clock.Advance(31 * time.Second)
	assert.False(t, rl.IsBanned(ip))

	// minute window not over yet, so the counter is still full
	clock.Advance(30 * time.Second)
	assert.True(t, rl.Allow(ip))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	t.Parallel()

	rl, clock := newTestLimiter(5, time.Second)
	assert.True(t, rl.Allow("a"))

	clock.Advance(11 * time.Minute)
	assert.True(t, rl.Allow("b"))

	rl.mu.Lock()
	_, hasA := rl.requests["a"]
	_, hasB := rl.requests["b"]
	rl.mu.Unlock()
	assert.False(t, hasA)
	assert.True(t, hasB)
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"allow all", []string{"*"}, "https://evil.example", true},
		{"listed", []string{"https://aoch.wisv.ch"}, "https://AOCH.wisv.ch", true},
		{"not listed", []string{"https://aoch.wisv.ch"}, "https://evil.example", false},
		{"no origin header", []string{"https://aoch.wisv.ch"}, "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, NewOriginChecker(tt.allowed).Check(req))
		})
	}
}

func TestClientIPResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		trusted   []string
		remote    string
		forwarded string
		realIP    string
		want      string
	}{
		{"remote addr", nil, "1.2.3.4:5678", "", "", "1.2.3.4"},
		{"untrusted peer ignores forwarded", nil, "1.2.3.4:5678", "9.9.9.9", "5.6.7.8", "1.2.3.4"},
		{"trusted peer uses forwarded", []string{"10.0.0.1"}, "10.0.0.1:80", "9.9.9.9", "", "9.9.9.9"},
		{"trusted chain skips proxies", []string{"10.0.0.0/8"}, "10.0.0.1:80", "7.7.7.7, 9.9.9.9, 10.0.0.2", "", "9.9.9.9"},
		{"spoofed leftmost ignored", []string{"10.0.0.1"}, "10.0.0.1:80", "6.6.6.6, 9.9.9.9", "", "9.9.9.9"},
		{"trusted peer uses real ip", []string{"10.0.0.1"}, "10.0.0.1:80", "", "5.6.7.8", "5.6.7.8"},
		{"trusted peer without headers", []string{"10.0.0.1"}, "10.0.0.1:80", "", "", "10.0.0.1"},
		{"invalid entry ignored", []string{"not-an-ip"}, "1.2.3.4:5678", "9.9.9.9", "", "1.2.3.4"},
		{"ipv6 proxy", []string{"::1"}, "[::1]:80", "9.9.9.9", "", "9.9.9.9"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			assert.Equal(t, tt.want, NewClientIPResolver(tt.trusted).ClientIP(req))
		})
	}
}
