package storefront

import (
	"strings"

	"github.com/vendemais/vendemais-backend/pkg/enums"
)

// Settings is the slice of store configuration the validator consumes.
type Settings struct {
	DomainMode           enums.DomainMode
	CustomDomain         *string
	CustomDomainVerified bool
	Subdomain            *string
	SubdomainEnabled     bool
	SSLCertStatus        enums.SSLCertStatus
}

// DomainStatus is the outcome of validating a store's routing configuration.
// Errors block rendering; warnings are advisory only.
type DomainStatus struct {
	CanRender bool                `json:"can_render"`
	Warnings  []string            `json:"warnings,omitempty"`
	Errors    []string            `json:"errors,omitempty"`
	SSLStatus enums.SSLCertStatus `json:"ssl_status,omitempty"`
}

// Messages shown to store owners when the storefront cannot render. These are
// configuration errors, so they name the missing prerequisite instead of
// surfacing a raw backend failure.
const (
	MsgCustomDomainNotConfigured = "Domínio personalizado não configurado"
	MsgCustomDomainNotVerified   = "Domínio personalizado não verificado"
	MsgSubdomainNotConfigured    = "Subdomínio não configurado"
	MsgSubdomainNotEnabled       = "Subdomínio não habilitado"
	MsgSSLPending                = "Certificado SSL pendente de emissão"
	MsgSSLFailed                 = "Falha na emissão do certificado SSL"
)

// Validate recomputes the renderability of a storefront from its current
// settings. Problems are accumulated, not short-circuited, so the owner sees
// every misconfiguration at once.
func Validate(settings Settings) DomainStatus {
	status := DomainStatus{CanRender: true}

	switch settings.DomainMode {
	case enums.DomainModeCustomDomain:
		status.SSLStatus = settings.SSLCertStatus
		if !hasValue(settings.CustomDomain) {
			status.Errors = append(status.Errors, MsgCustomDomainNotConfigured)
		}
		if !settings.CustomDomainVerified {
			status.Errors = append(status.Errors, MsgCustomDomainNotVerified)
		}
		// SSL problems never block rendering on their own.
		switch settings.SSLCertStatus {
		case enums.SSLCertStatusPending:
			status.Warnings = append(status.Warnings, MsgSSLPending)
		case enums.SSLCertStatusFailed:
			status.Warnings = append(status.Warnings, MsgSSLFailed)
		}

	case enums.DomainModeSubdomain:
		if !hasValue(settings.Subdomain) {
			status.Errors = append(status.Errors, MsgSubdomainNotConfigured)
		}
		if !settings.SubdomainEnabled {
			status.Errors = append(status.Errors, MsgSubdomainNotEnabled)
		}

	default:
		// slug mode (and anything unrecognized) always renders.
	}

	status.CanRender = len(status.Errors) == 0
	return status
}

func hasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
