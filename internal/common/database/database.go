package database

import (
	"context"
	"fmt"
	"time"
)

// Checker is implemented by every backing service the worker manager reports
// on at /ready.
type Checker interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings every checker with a shared deadline and returns the failures by name.
func CheckAll(ctx context.Context, timeout time.Duration, checkers ...Checker) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	failures := make(map[string]string)
	for _, c := range checkers {
		if c == nil {
			continue
		}
		if err := c.Ping(ctx); err != nil {
			failures[c.Name()] = fmt.Sprintf("%v", err)
		}
	}
	return failures
}
