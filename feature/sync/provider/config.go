package provider

import "time"

// Config describes one upstream provider feed.
type Config struct {
	// Name is the provider identity stored on every event.
	Name string `mapstructure:"name" default:"fever_first_provider"`
	// URL is the address of the XML feed.
	URL string `mapstructure:"url" default:""`
	// TimeoutSeconds bounds a single fetch attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}

// Timeout returns the per-attempt timeout, falling back to ten seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
