package config

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate ensures the configuration is usable. Rule problems are reported
// before any scan begins so a malformed mapping never reaches the filesystem.
func (c *Config) Validate() error {
	for i := range c.Rules {
		if err := c.Rules[i].Validate(); err != nil {
			return fmt.Errorf("rules[%d] (%s): %w", i, displayName(c.Rules[i].Name), err)
		}
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if c.Watch.SettleMillis < 0 {
		return errors.New("watch.settle_ms must not be negative")
	}
	return nil
}

// Validate checks one category rule: a non-empty name and at least one
// extension, each beginning with a dot.
func (r Rule) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Extensions, validation.Required, validation.Each(validation.By(validExtension))),
	)
}

// Validate checks log output settings.
func (l Logging) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Format, validation.Required, validation.In("console", "json")),
		validation.Field(&l.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
	)
}

func validExtension(value interface{}) error {
	ext, _ := value.(string)
	if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
		return errors.New("must begin with '.' followed by the extension")
	}
	if strings.ContainsAny(ext, `/\`) {
		return errors.New("must not contain path separators")
	}
	return nil
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "<unnamed>"
	}
	return name
}
