package config

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate checks field-level rules after defaults have been applied.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Site,
		validation.Field(&c.Site.Title, validation.Required),
		validation.Field(&c.Site.BaseURL, is.URL),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&c.Content,
		validation.Field(&c.Content.Dir, validation.Required),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Output,
		validation.Field(&c.Output.Dir, validation.Required),
	)
}
