// Package clientip resolves the real client address behind common proxy
// setups. The header order mirrors the deployment behind Cloudflare: the
// CDN header wins, then reverse-proxy headers, then the socket address.
//
// None of the headers are authenticated, so a client talking directly to
// the service can spoof any of them. Operators must pair this with a
// trusted reverse proxy that strips inbound copies of these headers.
package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Unknown is returned when no address can be resolved at all.
const Unknown = "0.0.0.0"

// headerOrder is the fixed trust ranking of proxy headers.
var headerOrder = []string{
	"CF-Connecting-IP",
	"X-Real-IP",
	"X-Forwarded-For",
	"Client-IP",
}

// FromRequest derives the client identity for the request. Header values
// must parse as public IP addresses to be accepted; the raw connection
// address is the fallback and is accepted even when private, since direct
// LAN access is a legitimate last resort.
func FromRequest(r *http.Request) string {
	for _, name := range headerOrder {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}
		// Forwarded-for chains list the original client first.
		if i := strings.IndexByte(value, ','); i >= 0 {
			value = value[:i]
		}
		if ip := parseAddr(value); plausibleClientIP(ip) {
			return ip.String()
		}
	}

	if ip := parseAddr(r.RemoteAddr); ip.IsValid() {
		return ip.String()
	}
	return Unknown
}

// parseAddr extracts an IP address from the formats seen in proxy headers
// and socket addresses: surrounding whitespace, a port suffix, quoted
// values and bracketed IPv6 literals.
func parseAddr(s string) netip.Addr {
	s = strings.TrimSpace(s)
	if s == "" {
		return netip.Addr{}
	}

	s = strings.Trim(s, `"'`)

	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}

	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		s = s[1 : len(s)-1]
	}

	ip, _ := netip.ParseAddr(s)
	if ip.Is4In6() {
		ip = ip.Unmap()
	}
	return ip
}

// plausibleClientIP reports whether the address could belong to a real
// client on the public internet.
func plausibleClientIP(ip netip.Addr) bool {
	if !ip.IsValid() {
		return false
	}
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() || ip.IsUnspecified() || ip.IsPrivate() {
		return false
	}
	return !reserved(ip)
}

var (
	reservedV4 = mustPrefixes(
		"0.0.0.0/8",
		"100.64.0.0/10",
		"192.0.0.0/24",
		"192.0.2.0/24",
		"198.18.0.0/15",
		"198.51.100.0/24",
		"203.0.113.0/24",
		"240.0.0.0/4",
	)

	reservedV6 = mustPrefixes(
		"64:ff9b::/96",
		"100::/64",
		"2001:db8::/32",
		"2001:2::/48",
	)
)

func reserved(ip netip.Addr) bool {
	prefixes := reservedV6
	if ip.Is4() {
		prefixes = reservedV4
	}
	for _, p := range prefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

func mustPrefixes(cidrs ...string) []netip.Prefix {
	out := make([]netip.Prefix, len(cidrs))
	for i, c := range cidrs {
		out[i] = netip.MustParsePrefix(c)
	}
	return out
}
