package ssso

import "strings"

// OpenIDConfiguration is the discovery document served at
// /.well-known/openid-configuration.
type OpenIDConfiguration struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	UserInfoEndpoint                  string   `json:"userinfo_endpoint"`
	JWKSURI                           string   `json:"jwks_uri"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	SubjectTypesSupported             []string `json:"subject_types_supported"`
	IDTokenSigningAlgValuesSupported  []string `json:"id_token_signing_alg_values_supported"`
	ScopesSupported                   []string `json:"scopes_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	ClaimsSupported                   []string `json:"claims_supported"`
}

// NormalizeIssuer makes sure the issuer ends with exactly one slash, so
// endpoint paths can be appended to it.
func NormalizeIssuer(issuer string) string {
	return strings.TrimRight(issuer, "/") + "/"
}

// NewOpenIDConfiguration builds the discovery document for issuer.
func NewOpenIDConfiguration(issuer string) *OpenIDConfiguration {
	issuer = NormalizeIssuer(issuer)

	return &OpenIDConfiguration{
		Issuer:                            issuer,
		AuthorizationEndpoint:             issuer + "api/oidc/authorize",
		TokenEndpoint:                     issuer + "api/oidc/token",
		UserInfoEndpoint:                  issuer + "api/oidc/userinfo",
		JWKSURI:                           issuer + ".well-known/jwks.json",
		ResponseTypesSupported:            []string{"code"},
		SubjectTypesSupported:             []string{"public"},
		IDTokenSigningAlgValuesSupported:  []string{"RS256"},
		ScopesSupported:                   []string{"openid", "profile", "email"},
		TokenEndpointAuthMethodsSupported: []string{"client_secret_post"},
		GrantTypesSupported:               []string{"authorization_code"},
		ClaimsSupported:                   []string{"sub", "name", "email", "picture"},
	}
}
