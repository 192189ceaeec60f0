// Package security guards outbound HTTP requests made by the service.
//
// GuardedTransport refuses to dial loopback, private, link-local and other
// non-routable addresses, so a misconfigured provider URL (or a redirect
// from one) cannot reach the instance metadata service or the VPC.
package security

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"time"
)

// dnsTimeout bounds hostname resolution before a dial.
const dnsTimeout = 500 * time.Millisecond

var (
	// ErrBlocked is returned when a request targets a blocked address.
	ErrBlocked = errors.New("egress: request to blocked IP range")

	// ErrDNSTimeout is returned when resolution exceeds dnsTimeout.
	ErrDNSTimeout = errors.New("egress: DNS resolution timeout")

	// ErrDNSFailed is returned when resolution fails or yields nothing.
	ErrDNSFailed = errors.New("egress: DNS resolution failed")

	// ErrTooManyRedirects is returned when the redirect limit is exceeded.
	ErrTooManyRedirects = errors.New("egress: too many redirects")
)

// BlockedCIDRs lists the ranges outbound requests may never reach.
var BlockedCIDRs = []string{
	"0.0.0.0/8",
	"10.0.0.0/8",
	"100.64.0.0/10",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.0.0.0/24",
	"192.168.0.0/16",
	"198.18.0.0/15",
	"224.0.0.0/4",
	"240.0.0.0/4",
	"::/128",
	"::1/128",
	"fc00::/7",
	"fe80::/10",
	"ff00::/8",
}

var blockedPrefixes = mustParsePrefixes(BlockedCIDRs)

func mustParsePrefixes(cidrs []string) []netip.Prefix {
	out := make([]netip.Prefix, len(cidrs))
	for i, c := range cidrs {
		out[i] = netip.MustParsePrefix(c)
	}
	return out
}

// IsBlocked reports whether ip falls in any of BlockedCIDRs. IPv4-mapped
// IPv6 addresses are checked as IPv4.
func IsBlocked(ip net.IP) bool {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return true
	}
	addr = addr.Unmap()
	for _, p := range blockedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// IsPublic reports whether s is a parseable, publicly routable IP address.
func IsPublic(s string) bool {
	ip := net.ParseIP(s)
	return ip != nil && !IsBlocked(ip)
}

// Resolver abstracts DNS resolution for tests.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// GuardedTransport is an http.RoundTripper whose dialer validates every
// resolved address against BlockedCIDRs before connecting.
type GuardedTransport struct {
	Base *http.Transport

	// Resolver is used for lookups; nil means net.DefaultResolver.
	Resolver Resolver
}

// NewGuardedTransport wraps base, or a clone of http.DefaultTransport when
// base is nil, and installs the guarded dialer on it.
func NewGuardedTransport(base *http.Transport) *GuardedTransport {
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}
	// Proxies would move the dial to an address we never see.
	base.Proxy = nil
	gt := &GuardedTransport{Base: base}
	base.DialContext = gt.dialContext
	return gt
}

// RoundTrip implements http.RoundTripper.
func (gt *GuardedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return gt.Base.RoundTrip(req)
}

func (gt *GuardedTransport) dialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("egress: invalid address %q: %w", addr, err)
	}

	ips, err := resolveAllowed(ctx, gt.resolver(), host)
	if err != nil {
		return nil, err
	}

	var d net.Dialer
	return d.DialContext(ctx, network, net.JoinHostPort(ips[0].String(), port))
}

func (gt *GuardedTransport) resolver() Resolver {
	if gt.Resolver != nil {
		return gt.Resolver
	}
	return net.DefaultResolver
}

// resolveAllowed returns the addresses for host, failing if any of them is
// blocked. A host that mixes public and private records is rejected whole.
func resolveAllowed(ctx context.Context, r Resolver, host string) ([]net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if IsBlocked(ip) {
			return nil, fmt.Errorf("%w: %s", ErrBlocked, ip)
		}
		return []net.IP{ip}, nil
	}

	dnsCtx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()

	addrs, err := r.LookupIPAddr(dnsCtx, host)
	if err != nil {
		if dnsCtx.Err() != nil {
			return nil, fmt.Errorf("%w: host %q", ErrDNSTimeout, host)
		}
		return nil, fmt.Errorf("%w: host %q: %v", ErrDNSFailed, host, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: host %q resolved to no addresses", ErrDNSFailed, host)
	}

	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		if IsBlocked(a.IP) {
			return nil, fmt.Errorf("%w: %s (resolved from %s)", ErrBlocked, a.IP, host)
		}
		ips = append(ips, a.IP)
	}
	return ips, nil
}

// CheckRedirect returns an http.Client CheckRedirect func that caps the
// number of redirects and rejects redirect targets in blocked ranges.
// A nil resolver means net.DefaultResolver.
func CheckRedirect(maxRedirects int, resolver Resolver) func(req *http.Request, via []*http.Request) error {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("%w: limit is %d", ErrTooManyRedirects, maxRedirects)
		}
		host := req.URL.Hostname()
		if host == "" {
			return fmt.Errorf("%w: redirect URL has no host", ErrBlocked)
		}
		_, err := resolveAllowed(req.Context(), resolver, host)
		return err
	}
}

// NewGuardedClient returns an http.Client using a GuardedTransport and the
// matching redirect policy.
func NewGuardedClient(timeout time.Duration, maxRedirects int) *http.Client {
	return &http.Client{
		Transport:     NewGuardedTransport(nil),
		CheckRedirect: CheckRedirect(maxRedirects, nil),
		Timeout:       timeout,
	}
}
