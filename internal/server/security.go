package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/palemoky/aoch-leaderboard/internal/logger"
)

// RateLimiter 速率限制器：每次渲染都会请求上游数据源，按 IP 限制
type RateLimiter struct {
	requests map[string]*clientRate
	mu       sync.Mutex

	maxPerMinute    int
	banDuration     time.Duration
	cleanupInterval time.Duration
	lastCleanup     time.Time
	now             func() time.Time
}

// clientRate 客户端速率记录
type clientRate struct {
	minuteCount int
	lastMinute  time.Time
	bannedUntil time.Time
}

// NewRateLimiter 创建速率限制器
func NewRateLimiter(maxPerMinute int, banDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		requests:        make(map[string]*clientRate),
		maxPerMinute:    maxPerMinute,
		banDuration:     banDuration,
		cleanupInterval: 5 * time.Minute,
		now:             time.Now,
	}
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanupLocked(now)

	rate, exists := rl.requests[key]
	if !exists {
		rl.requests[key] = &clientRate{minuteCount: 1, lastMinute: now}
		return true
	}

	if now.Before(rate.bannedUntil) {
		return false
	}

	if now.Sub(rate.lastMinute) >= time.Minute {
		rate.minuteCount = 0
		rate.lastMinute = now
	}

	rate.minuteCount++
	if rate.minuteCount > rl.maxPerMinute {
		rate.bannedUntil = now.Add(rl.banDuration)
		logger.LogInfo("%s rate limited for %v", key, rl.banDuration)
		return false
	}
	return true
}

// IsBanned 检查是否被封禁
func (rl *RateLimiter) IsBanned(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rate, exists := rl.requests[key]
	return exists && rl.now().Before(rate.bannedUntil)
}

// cleanupLocked 清理 10 分钟内无请求的记录
func (rl *RateLimiter) cleanupLocked(now time.Time) {
	if now.Sub(rl.lastCleanup) < rl.cleanupInterval {
		return
	}
	rl.lastCleanup = now
	for key, rate := range rl.requests {
		if now.Sub(rate.lastMinute) > 10*time.Minute && now.After(rate.bannedUntil) {
			delete(rl.requests, key)
		}
	}
}

// --- 来源验证 ---

// OriginChecker 来源验证器
type OriginChecker struct {
	allowedOrigins map[string]bool
	allowAll       bool
}

// NewOriginChecker 创建来源验证器
func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{
		allowedOrigins: make(map[string]bool),
	}

	for _, origin := range origins {
		if origin == "*" {
			oc.allowAll = true
			return oc
		}
		oc.allowedOrigins[strings.ToLower(origin)] = true
	}

	return oc
}

// Check 检查来源是否允许
func (oc *OriginChecker) Check(r *http.Request) bool {
	if oc.allowAll {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		// 没有 Origin 头，可能是同源请求或本地客户端
		return true
	}

	return oc.allowedOrigins[strings.ToLower(origin)]
}

// --- 客户端 IP ---

// ClientIPResolver 解析客户端 IP；只有来自可信代理的请求才采用转发头
type ClientIPResolver struct {
	trusted []*net.IPNet
}

// NewClientIPResolver 创建解析器，proxies 为 IP 或 CIDR，无效项记录日志后忽略
func NewClientIPResolver(proxies []string) *ClientIPResolver {
	res := &ClientIPResolver{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if !strings.Contains(p, "/") {
			if ip := net.ParseIP(p); ip != nil {
				bits := 8 * len(ip.To16())
				if ip.To4() != nil {
					ip, bits = ip.To4(), 32
				}
				res.trusted = append(res.trusted, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
				continue
			}
		}
		_, network, err := net.ParseCIDR(p)
		if err != nil {
			logger.LogError("ignoring trusted proxy %q: not an IP or CIDR", p)
			continue
		}
		res.trusted = append(res.trusted, network)
	}
	return res
}

func (res *ClientIPResolver) isTrusted(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	for _, network := range res.trusted {
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}

// ClientIP 获取客户端 IP。对端不是可信代理时直接使用 RemoteAddr；
// 否则从 X-Forwarded-For 右侧起跳过可信代理，取第一个不可信地址
func (res *ClientIPResolver) ClientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !res.isTrusted(peer) {
		return peer
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if i == 0 || !res.isTrusted(hop) {
				return hop
			}
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return peer
}
