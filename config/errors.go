package config

import "errors"

var (
	// ErrMissingProvider indicates providers.question or providers.answer is absent.
	ErrMissingProvider = errors.New("missing provider section")

	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)
