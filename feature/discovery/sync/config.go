package sync

import (
	"strings"
	"time"
)

// Config holds the engine's tuning knobs as they appear in the config file.
type Config struct {
	// AssetTypes is a comma-separated allow-list of source asset types.
	// Empty syncs every type.
	AssetTypes string `mapstructure:"asset_types" default:""`
	// GenerateLabels names CIs after their product and keeps the vendor
	// name as the label.
	GenerateLabels bool `mapstructure:"generate_labels" default:"false"`
	// NetworkedOnly drops assets without an IP address before mapping.
	NetworkedOnly bool `mapstructure:"networked_only" default:"false"`
	// ChunkSize bounds the per-batch submission size.
	ChunkSize int `mapstructure:"chunk_size" default:"100"`
	// LastSeenDays skips assets not seen within this many days. Zero
	// disables the cut-off.
	LastSeenDays int `mapstructure:"last_seen_days" default:"30"`
	// IgnoredUsers is a semicolon-separated list of account names that
	// never count as asset users.
	IgnoredUsers string `mapstructure:"ignored_users" default:"Administrator;Guest;DefaultAccount;WDAGUtilityAccount"`
}

// Options is the parsed, run-ready form of Config plus the values other
// sections contribute.
type Options struct {
	// AssetTypes is the requested type allow-list, resolved against the
	// source's vocabulary at run start.
	AssetTypes []string
	// Installation names this integration instance; it becomes the primary
	// source tag on uploads.
	Installation string
	GenerateLabels bool
	NetworkedOnly  bool
	ChunkSize      int
	LastSeenDays   int
	// AsyncTimeout bounds the wait for each batch's async result.
	AsyncTimeout time.Duration
	// IgnoredUsers is the parsed account ignore set.
	IgnoredUsers map[string]struct{}
}

// Options expands the config into run options. Installation and the async
// timeout come from the source and catalog sections respectively.
func (c Config) Options(installation string, asyncTimeout time.Duration) Options {
	var types []string
	for _, t := range strings.Split(c.AssetTypes, ",") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}

	chunk := c.ChunkSize
	if chunk <= 0 {
		chunk = 100
	}

	return Options{
		AssetTypes:     types,
		Installation:   installation,
		GenerateLabels: c.GenerateLabels,
		NetworkedOnly:  c.NetworkedOnly,
		ChunkSize:      chunk,
		LastSeenDays:   c.LastSeenDays,
		AsyncTimeout:   asyncTimeout,
		IgnoredUsers:   IgnoredUserSet(c.IgnoredUsers),
	}
}
