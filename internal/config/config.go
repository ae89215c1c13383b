// Package config holds the run configuration of fancyhash and loads it from
// defaults, an optional config file and FANCYHASH_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"fancyhash/internal/algo"
	"fancyhash/internal/checksumline"
)

// EnvPrefix prefixes the environment variables that fill unset flags.
const EnvPrefix = "FANCYHASH"

// DefaultComputeAlgorithm is used in compute mode when no algorithm is
// given. Check mode guesses from the digest length instead.
const DefaultComputeAlgorithm = "md5"

// Summary formats.
const (
	SummaryText = "text"
	SummaryJSON = "json"
)

// Config is the resolved configuration of one run.
type Config struct {
	Algorithm       string
	Verbosity       int
	RefreshInterval float64 // seconds
	Format          string
	Tag             bool
	Glob            bool
	Warn            bool
	Strict          bool
	IgnoreMissing   bool
	Status          bool
	Summary         string
	LogLevel        string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Verbosity:       2,
		RefreshInterval: 0.25,
		Format:          checksumline.ListFormat,
		Glob:            true,
		Summary:         SummaryText,
	}
}

// Validate checks the values that flags and config files cannot constrain
// by type.
func (c Config) Validate() error {
	const errCtx = "invalid configuration"

	if c.Algorithm != "" {
		if _, ok := algo.Lookup(c.Algorithm); !ok {
			return fmt.Errorf("%s: unsupported algorithm %q", errCtx, c.Algorithm)
		}
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("%s: refresh interval must not be negative", errCtx)
	}
	if c.Format == "" && !c.Tag {
		return fmt.Errorf("%s: empty output format", errCtx)
	}
	switch c.Summary {
	case SummaryText, SummaryJSON:
	default:
		return fmt.Errorf("%s: unknown summary format %q", errCtx, c.Summary)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}
	return nil
}

// Interval is the progress refresh interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.RefreshInterval * float64(time.Second))
}

// AlgorithmID resolves the configured algorithm. In compute mode an empty
// setting selects DefaultComputeAlgorithm; in check mode it yields
// algo.Unknown so the digest length decides.
func (c Config) AlgorithmID(check bool) (algo.ID, error) {
	name := c.Algorithm
	if name == "" {
		if check {
			return algo.Unknown, nil
		}
		name = DefaultComputeAlgorithm
	}
	id, ok := algo.Lookup(name)
	if !ok {
		return algo.Unknown, fmt.Errorf("unsupported algorithm %q", name)
	}
	return id, nil
}

// OutputFormat is the compute-mode line template.
func (c Config) OutputFormat() string {
	if c.Tag {
		return checksumline.TagFormat
	}
	return c.Format
}
