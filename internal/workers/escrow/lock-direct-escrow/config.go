// internal/workers/escrow/lock-direct-escrow/config.go
package lockdirectescrow

import (
	"fmt"
	"time"
)

type Config struct {
	// Timeout covers the gateway round trip plus the ledger write.
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{Timeout: 30 * time.Second}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
