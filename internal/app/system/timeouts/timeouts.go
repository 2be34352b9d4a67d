// Package timeouts holds the per-operation deadlines handlers put on their
// database work.
//
//   - Ping: health checks
//   - Read: single lookups and list views
//   - Write: single-row ledger and catalog writes (including resolver retries)
//   - Reorder: batch reorders, which run as one transaction
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults, used until Configure or ConfigureFromEnv changes them.
const (
	DefaultPing    = 2 * time.Second
	DefaultRead    = 5 * time.Second
	DefaultWrite   = 10 * time.Second
	DefaultReorder = 30 * time.Second
)

// Config holds timeout values. Zero fields are ignored by Configure.
type Config struct {
	Ping    time.Duration
	Read    time.Duration
	Write   time.Duration
	Reorder time.Duration
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Config {
	return Config{
		Ping:    DefaultPing,
		Read:    DefaultRead,
		Write:   DefaultWrite,
		Reorder: DefaultReorder,
	}
}

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(current)
}

// Ping is the deadline for connectivity checks.
func Ping() time.Duration { return get(func(c Config) time.Duration { return c.Ping }) }

// Read is the deadline for lookups and list views.
func Read() time.Duration { return get(func(c Config) time.Duration { return c.Read }) }

// Write is the deadline for single-row writes.
func Write() time.Duration { return get(func(c Config) time.Duration { return c.Write }) }

// Reorder is the deadline for a whole reorder batch.
func Reorder() time.Duration { return get(func(c Config) time.Duration { return c.Reorder }) }

// Configure overrides the non-zero fields of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set(&current.Ping, cfg.Ping)
	set(&current.Read, cfg.Read)
	set(&current.Write, cfg.Write)
	set(&current.Reorder, cfg.Reorder)
}

func set(dst *time.Duration, v time.Duration) bool {
	if v <= 0 {
		return false
	}
	*dst = v
	return true
}

// Reset restores the defaults. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

// Current returns a snapshot of the active values.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// ConfigureFromEnv reads LESSONHUB_TIMEOUT_PING, _READ, _WRITE and _REORDER
// (Go duration strings such as "750ms" or "1m"). Unset, unparsable and
// non-positive values are skipped. It returns how many values were applied.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()

	vars := []struct {
		name string
		dst  *time.Duration
	}{
		{"LESSONHUB_TIMEOUT_PING", &current.Ping},
		{"LESSONHUB_TIMEOUT_READ", &current.Read},
		{"LESSONHUB_TIMEOUT_WRITE", &current.Write},
		{"LESSONHUB_TIMEOUT_REORDER", &current.Reorder},
	}

	n := 0
	for _, v := range vars {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			continue
		}
		if set(v.dst, d) {
			n++
		}
	}
	return n
}

// WithTimeout is context.WithTimeout whose cancel logs a warning when the
// deadline was what ended the operation.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if log != nil && ctx.Err() == context.DeadlineExceeded {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
