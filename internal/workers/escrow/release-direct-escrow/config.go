// internal/workers/escrow/release-direct-escrow/config.go
package releasedirectescrow

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
