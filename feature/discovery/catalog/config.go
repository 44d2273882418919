package catalog

// MaxSourceLength is the longest source tag the catalog accepts on a
// discovery upload.
const MaxSourceLength = 30

// Config holds configuration for the service-management catalog API.
type Config struct {
	// URL is the base URL of the catalog API.
	URL string `mapstructure:"url" default:""`
	// Account is the customer account the sync writes into.
	Account string `mapstructure:"account" default:""`
	// Token is the API token for the account.
	Token string `mapstructure:"token" default:""`
	// AsyncTimeoutSeconds bounds how long one async batch result is polled.
	AsyncTimeoutSeconds int `mapstructure:"async_timeout_seconds" default:"300"`
	// AsyncPollSeconds is the delay between result polls.
	AsyncPollSeconds int `mapstructure:"async_poll_seconds" default:"5"`
	// TimeoutSeconds bounds connection setup and response waits.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
