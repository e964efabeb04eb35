package middleware

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedSubnet is a CIDR allow-list of one prefix. The zero value trusts
// nobody.
type TrustedSubnet struct {
	prefix netip.Prefix
}

func ParseTrustedSubnet(cidr string) (TrustedSubnet, error) {
	cidr = strings.TrimSpace(cidr)
	if cidr == "" {
		return TrustedSubnet{}, nil
	}

	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return TrustedSubnet{}, fmt.Errorf("trusted subnet %q: %w", cidr, err)
	}

	return TrustedSubnet{prefix: p.Masked()}, nil
}

func (s TrustedSubnet) Contains(ip string) bool {
	if !s.prefix.IsValid() {
		return false
	}

	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return false
	}

	return s.prefix.Contains(addr.Unmap())
}

func (s TrustedSubnet) String() string {
	if !s.prefix.IsValid() {
		return ""
	}
	return s.prefix.String()
}

// WithSubnet only lets requests through whose X-Real-IP header belongs to
// the subnet.
func WithSubnet(subnet TrustedSubnet) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !subnet.Contains(r.Header.Get("X-Real-IP")) {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
