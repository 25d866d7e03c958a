// Package common defines shared constants and sentinel errors used across
// the gateway layers. Callers should use errors.Is / errors.As to match
// these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// ErrorNotFound covers both an unregistered identity and a search miss.
	ErrorNotFound = errors.New("not found")

	// Validation errors detected before any ledger call.
	ErrorInvalidAddress = errors.New("invalid address format")
	ErrorMissingField   = errors.New("missing required field")
	ErrorInvalidInput   = errors.New("invalid input")

	// Generic internal flow control.
	ErrorInternal = errors.New("internal error")
)

// UnknownIdentityError marks an address that is syntactically valid but not
// part of the ledger's known-account set. The known set is attached so the
// operator can pick a valid account.
type UnknownIdentityError struct {
	Address string
	Known   []string
}

func (e *UnknownIdentityError) Error() string {
	return fmt.Sprintf("address %s is not a known ledger account", e.Address)
}
