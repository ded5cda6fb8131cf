// Package common defines sentinel errors shared by the store backends, the
// entity managers and the transport layer. Callers should match them with
// errors.Is.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound = errors.New("not found")

	// Manager-level errors.
	ErrorValidation = errors.New("validation error")
	ErrorInternal   = errors.New("internal error")

	// Codec errors.
	ErrorInvalidGeohash = errors.New("invalid geohash")
)
