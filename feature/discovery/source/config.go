package source

// Credential modes supported by the discovery source.
const (
	// CredentialClient exchanges a client id/secret for a bearer token.
	CredentialClient = "client_credentials"
	// CredentialStatic uses a pre-issued export token without expiry tracking.
	CredentialStatic = "static_token"
)

// Config holds configuration for the discovery source API.
type Config struct {
	// URL is the base URL of the discovery platform API.
	URL string `mapstructure:"url" default:""`
	// ClientID is the OAuth client id.
	ClientID string `mapstructure:"client_id" default:""`
	// ClientSecret is the OAuth client secret, or the pre-issued token in
	// static_token mode.
	ClientSecret string `mapstructure:"client_secret" default:""`
	// CredentialMode selects how credentials are presented
	// (client_credentials, static_token).
	CredentialMode string `mapstructure:"credential_mode" default:"client_credentials"`
	// OrgName is the organization to scope listing calls to. Optional; when
	// the organization cannot be resolved, listings proceed unscoped.
	OrgName string `mapstructure:"org_name" default:""`
	// PageSize is the number of assets requested per page.
	PageSize int `mapstructure:"page_size" default:"100"`
	// TimeoutSeconds bounds connection setup and response waits.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
