// Package errors provides common, reusable error values and helpers.
package errors

import (
	"errors"
	"fmt"
)

// Input validation errors. These map to an immediate REJECTED/Critical
// outcome in the decision engine.
var (
	ErrPolicyNotFound     = errors.New("no policy found for bank and loan type")
	ErrUnknownBank        = errors.New("unknown bank")
	ErrAMLNotCleared      = errors.New("aml checks not cleared")
	ErrInvalidApplication = errors.New("invalid application payload")
)

// Verification errors. KYC incompleteness switches the engine back to the
// verification collaborator instead of evaluating policy.
var (
	ErrVerificationIncomplete = errors.New("kyc verification incomplete")
)

// Retrieval errors. Always non-fatal: the policy repository degrades to the
// static table.
var (
	ErrNoPassages       = errors.New("no passages retrieved")
	ErrRetrievalTimeout = errors.New("policy retrieval timed out")
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
