package capture

// Config holds configuration for render cycle capture.
type Config struct {
	// Enabled turns capture on. Off by default: the reconciler core
	// keeps no durable state, capture is strictly a debugging sink.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Prefix is the object name prefix capture records are written under.
	Prefix string `mapstructure:"prefix" default:"cycles"`
}
