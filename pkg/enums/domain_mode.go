package enums

import "fmt"

// DomainMode is the routing strategy by which a storefront is reached.
type DomainMode string

const (
	DomainModeSlug         DomainMode = "slug"
	DomainModeSubdomain    DomainMode = "subdomain"
	DomainModeCustomDomain DomainMode = "custom_domain"
)

var validDomainModes = []DomainMode{
	DomainModeSlug,
	DomainModeSubdomain,
	DomainModeCustomDomain,
}

// String implements fmt.Stringer.
func (d DomainMode) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DomainMode.
func (d DomainMode) IsValid() bool {
	for _, candidate := range validDomainModes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDomainMode converts raw input into a DomainMode.
func ParseDomainMode(value string) (DomainMode, error) {
	for _, candidate := range validDomainModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid domain mode %q", value)
}
