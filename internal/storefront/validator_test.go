package storefront

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendemais/vendemais-backend/pkg/enums"
)

func strPtr(s string) *string { return &s }

func TestValidateSlugModeAlwaysRenders(t *testing.T) {
	t.Parallel()

	status := Validate(Settings{DomainMode: enums.DomainModeSlug})
	assert.True(t, status.CanRender)
	assert.Empty(t, status.Errors)
	assert.Empty(t, status.Warnings)
}

func TestValidateUnknownModeFallsBackToSlug(t *testing.T) {
	t.Parallel()

	status := Validate(Settings{DomainMode: enums.DomainMode("whatever")})
	assert.True(t, status.CanRender)
	assert.Empty(t, status.Errors)
}

func TestValidateCustomDomainMissing(t *testing.T) {
	t.Parallel()

	status := Validate(Settings{DomainMode: enums.DomainModeCustomDomain})
	assert.False(t, status.CanRender)
	require.NotEmpty(t, status.Errors)
	assert.Contains(t, status.Errors[0], "não configurado")
}

func TestValidateCustomDomainAccumulatesErrors(t *testing.T) {
	t.Parallel()

	// Unconfigured and unverified must both be reported in one pass.
	status := Validate(Settings{
		DomainMode:    enums.DomainModeCustomDomain,
		SSLCertStatus: enums.SSLCertStatusFailed,
	})
	assert.False(t, status.CanRender)
	assert.Equal(t, []string{MsgCustomDomainNotConfigured, MsgCustomDomainNotVerified}, status.Errors)
	assert.Equal(t, []string{MsgSSLFailed}, status.Warnings)
}

func TestValidateCustomDomainSSLIsAdvisoryOnly(t *testing.T) {
	t.Parallel()

	status := Validate(Settings{
		DomainMode:           enums.DomainModeCustomDomain,
		CustomDomain:         strPtr("loja.example.com.br"),
		CustomDomainVerified: true,
		SSLCertStatus:        enums.SSLCertStatusPending,
	})
	assert.True(t, status.CanRender)
	assert.Empty(t, status.Errors)
	assert.Equal(t, []string{MsgSSLPending}, status.Warnings)
	assert.Equal(t, enums.SSLCertStatusPending, status.SSLStatus)
}

func TestValidateCustomDomainVerified(t *testing.T) {
	t.Parallel()

	status := Validate(Settings{
		DomainMode:           enums.DomainModeCustomDomain,
		CustomDomain:         strPtr("minhaloja.com.br"),
		CustomDomainVerified: true,
		SSLCertStatus:        enums.SSLCertStatusActive,
	})
	assert.True(t, status.CanRender)
	assert.Empty(t, status.Errors)
	assert.Empty(t, status.Warnings)
}

func TestValidateSubdomainDisabled(t *testing.T) {
	t.Parallel()

	status := Validate(Settings{
		DomainMode:       enums.DomainModeSubdomain,
		Subdomain:        strPtr("shop"),
		SubdomainEnabled: false,
	})
	assert.False(t, status.CanRender)
	assert.Equal(t, []string{MsgSubdomainNotEnabled}, status.Errors)
}

func TestValidateSubdomainBlankCountsAsMissing(t *testing.T) {
	t.Parallel()

	status := Validate(Settings{
		DomainMode:       enums.DomainModeSubdomain,
		Subdomain:        strPtr("   "),
		SubdomainEnabled: true,
	})
	assert.False(t, status.CanRender)
	assert.Equal(t, []string{MsgSubdomainNotConfigured}, status.Errors)
}

func TestValidateSubdomainEnabled(t *testing.T) {
	t.Parallel()

	status := Validate(Settings{
		DomainMode:       enums.DomainModeSubdomain,
		Subdomain:        strPtr("shop"),
		SubdomainEnabled: true,
	})
	assert.True(t, status.CanRender)
	assert.Empty(t, status.Errors)
}
