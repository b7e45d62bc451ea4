package enums

// SSLCertStatus reflects certificate provisioning for a custom domain.
type SSLCertStatus string

const (
	SSLCertStatusPending SSLCertStatus = "pending"
	SSLCertStatusActive  SSLCertStatus = "active"
	SSLCertStatusFailed  SSLCertStatus = "failed"
)

var validSSLCertStatuses = []SSLCertStatus{
	SSLCertStatusPending,
	SSLCertStatusActive,
	SSLCertStatusFailed,
}

// String implements fmt.Stringer.
func (s SSLCertStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s SSLCertStatus) IsValid() bool {
	for _, candidate := range validSSLCertStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
