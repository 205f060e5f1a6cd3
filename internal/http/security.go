package http

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync/atomic"
)

// securityMetrics tracks request and security counters exposed on /metrics.
type securityMetrics struct {
	totalRequests      int64
	rateLimitHits      int64
	suspiciousRequests int64
}

func (m *securityMetrics) addRequest() {
	atomic.AddInt64(&m.totalRequests, 1)
}

// snapshot returns the current counter values.
func (m *securityMetrics) snapshot() (total, rateLimited, suspicious int64) {
	return atomic.LoadInt64(&m.totalRequests),
		atomic.LoadInt64(&m.rateLimitHits),
		atomic.LoadInt64(&m.suspiciousRequests)
}

// proxyNetworks are the loopback and private ranges whose forwarding headers
// are believed.
var proxyNetworks = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fc00::/7"),
}

func isProxyAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range proxyNetworks {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// extractClientIP returns the address the rate limiter keys on.
//
// Forwarding headers are read only when the peer is a proxy. X-Forwarded-For
// is walked from the right, skipping proxy hops, so the result is the last
// address appended by infrastructure we trust. Entries left of it are client
// supplied and ignored.
func extractClientIP(r *http.Request) string {
	peer := r.RemoteAddr
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	peerAddr, err := netip.ParseAddr(peer)
	if err != nil || !isProxyAddr(peerAddr) {
		return peer
	}

	if hops := forwardedHops(r.Header); len(hops) > 0 {
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(hops[i])
			if err != nil {
				// A malformed hop ends the trusted chain.
				return peer
			}
			if !isProxyAddr(addr) {
				return addr.Unmap().String()
			}
		}
		return peer
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return realIP.Unmap().String()
	}
	return peer
}

// forwardedHops flattens every X-Forwarded-For header into one hop list.
func forwardedHops(h http.Header) []string {
	var hops []string
	for _, v := range h.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(v, ",") {
			if hop = strings.TrimSpace(hop); hop != "" {
				hops = append(hops, hop)
			}
		}
	}
	return hops
}

var (
	attackMarkers = []string{
		"../", "..\\", ".env", "wp-admin", "phpmyadmin",
		"admin.php", "config.php", ".git", ".ssh",
		"eval(", "javascript:", "<script", "union select",
		"etc/passwd", "cmd.exe",
	}
	scannerAgents = []string{
		"sqlmap", "nmap", "nikto", "gobuster", "dirb", "masscan", "zgrab",
	}
	debugMethods = map[string]bool{
		"TRACE": true, "TRACK": true, "DEBUG": true, "CONNECT": true,
	}
)

const (
	maxURLLength     = 2048
	maxForwardedHops = 6
)

// detectSuspiciousRequest flags scanner traffic. Flagged requests are
// counted and logged by the caller, never rejected.
func detectSuspiciousRequest(r *http.Request, metrics *securityMetrics) bool {
	flagged := debugMethods[r.Method] ||
		containsAny(strings.ToLower(r.URL.Path), attackMarkers) ||
		containsAny(strings.ToLower(r.URL.RawQuery), attackMarkers) ||
		containsAny(strings.ToLower(r.Header.Get("User-Agent")), scannerAgents) ||
		len(r.URL.String()) > maxURLLength ||
		len(forwardedHops(r.Header)) > maxForwardedHops

	if flagged && metrics != nil {
		atomic.AddInt64(&metrics.suspiciousRequests, 1)
	}
	return flagged
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
