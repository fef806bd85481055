// internal/workers/wallet/request-withdrawal/config.go
package requestwithdrawal

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Timeout time.Duration
	// MinAmount is the smallest withdrawal accepted. Zero disables the floor.
	MinAmount decimal.Decimal
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:   15 * time.Second,
		MinAmount: decimal.Zero,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MinAmount.IsNegative() {
		return fmt.Errorf("min amount must not be negative")
	}
	return nil
}
