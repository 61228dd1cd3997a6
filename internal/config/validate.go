package config

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/types"
)

// Validate checks all values and returns the aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Log.validate(),
		c.Document.validate(),
	)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (d *DocumentConfig) validate() error {
	if _, err := types.ParseVersion(d.FormatVersion); err != nil {
		return fmt.Errorf("document.format_version: %w", err)
	}
	return nil
}

// Version returns the parsed format version. Validate must have succeeded.
func (d *DocumentConfig) Version() types.Version {
	return types.MustParseVersion(d.FormatVersion)
}
