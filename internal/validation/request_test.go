package validation

import "testing"

func TestValidateDomainName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		domain string
		ok     bool
	}{
		{name: "valid subdomain", domain: "lib.university.ac.th", ok: true},
		{name: "valid with hyphen", domain: "student-portal.university.ac.th", ok: true},
		{name: "valid with digits", domain: "ns1.university.ac.th", ok: true},
		{name: "empty", domain: "", ok: false},
		{name: "single label", domain: "localhost", ok: false},
		{name: "uppercase", domain: "Lib.university.ac.th", ok: false},
		{name: "leading hyphen label", domain: "-lib.university.ac.th", ok: false},
		{name: "trailing hyphen label", domain: "lib-.university.ac.th", ok: false},
		{name: "empty label", domain: "lib..ac.th", ok: false},
		{name: "space", domain: "my site.ac.th", ok: false},
		{name: "underscore", domain: "my_site.ac.th", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDomainName(tc.domain)
			if tc.ok && err != nil {
				t.Fatalf("expected valid domain, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid domain, got nil error")
			}
		})
	}
}

func TestValidateIPAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
		ok   bool
	}{
		{name: "valid private", ip: "10.20.30.40", ok: true},
		{name: "valid public", ip: "203.0.113.9", ok: true},
		{name: "empty", ip: "", ok: false},
		{name: "octet out of range", ip: "256.1.1.1", ok: false},
		{name: "too few octets", ip: "10.0.1", ok: false},
		{name: "ipv6", ip: "2001:db8::1", ok: false},
		{name: "text", ip: "not-an-ip", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateIPAddress(tc.ip)
			if tc.ok && err != nil {
				t.Fatalf("expected valid ip, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid ip, got nil error")
			}
		})
	}
}
