package storage

// Config holds configuration for the object storage provider.
type Config struct {
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key for the storage service.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret key for the storage service.
	SecretKey string `mapstructure:"secret_key" default:""`
	// Bucket is the bucket where oversized sync summaries are archived.
	Bucket string `mapstructure:"bucket" default:"discovery-sync"`
	// Region is the storage region.
	Region string `mapstructure:"region" default:""`
	// UseSSL enables TLS towards the storage service.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// TimeoutSeconds bounds connection setup and response waits.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
