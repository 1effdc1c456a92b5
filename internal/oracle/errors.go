package oracle

import "errors"

var (
	// ErrUnknownProvider indicates the configured provider is not supported.
	ErrUnknownProvider = errors.New("unknown oracle provider")
	// ErrMissingAPIKey indicates a hosted provider was configured without credentials.
	ErrMissingAPIKey = errors.New("oracle api key required")
)
