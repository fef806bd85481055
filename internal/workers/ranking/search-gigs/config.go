// internal/workers/ranking/search-gigs/config.go
package searchgigs

import (
	"fmt"
	"time"
)

type Config struct {
	Timeout time.Duration
	// MaxCandidates caps how many open gigs are fetched when the job supplies none.
	MaxCandidates int
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:       10 * time.Second,
		MaxCandidates: 500,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("max candidates must be positive")
	}
	return nil
}
