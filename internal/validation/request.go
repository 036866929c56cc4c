package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// RFC 1035 labels, lowercase only. Domains are stored lowercased so the
// caller lowercases before validating.
var domainLabelRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// ValidateDomainName validates a fully qualified domain name.
func ValidateDomainName(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain is required")
	}
	if len(domain) > 253 {
		return fmt.Errorf("domain must be at most 253 characters")
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return fmt.Errorf("domain must contain at least two labels")
	}
	for _, label := range labels {
		if !domainLabelRegex.MatchString(label) {
			return fmt.Errorf("domain contains an invalid label %q", label)
		}
	}

	return nil
}

// ValidateIPAddress validates an IPv4 address in dotted-quad form.
func ValidateIPAddress(ip string) error {
	if ip == "" {
		return fmt.Errorf("ip address is required")
	}

	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return fmt.Errorf("ip address must be a valid IPv4 address")
	}

	return nil
}
