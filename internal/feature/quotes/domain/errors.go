// Package domain defines domain-level errors for the quotes feature.
package domain

import "errors"

var (
	// ErrMalformedResponse indicates that an upstream CSV document lacks the
	// date column or the expected close column in its header.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrInvalidSymbol indicates that a requested (composite) symbol could not be parsed.
	ErrInvalidSymbol = errors.New("invalid symbol")
)
