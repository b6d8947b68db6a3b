// Package errors provides structured error handling for sboxforge.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Malformed input (lengths, padding, parameters)
	ExitIntegrity  = 3 // Internal consistency violated
	ExitNotFound   = 4 // Resource not found
	ExitPermission = 5 // Permission denied
)

// ForgeError is the structured error type for sboxforge.
type ForgeError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *ForgeError) Error() string {
	msg := e.Message

	// Details are sorted for deterministic output
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ForgeError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for ForgeError by comparing codes.
func (e *ForgeError) Is(target error) bool {
	var t *ForgeError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// General sentinels.
var (
	ErrGeneral = &ForgeError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &ForgeError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &ForgeError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrPermission = &ForgeError{
		Code:     "PERMISSION_DENIED",
		Message:  "permission denied",
		ExitCode: ExitPermission,
	}

	ErrInvalidFormat = &ForgeError{
		Code:     "INVALID_FORMAT",
		Message:  "invalid format",
		ExitCode: ExitInput,
	}

	ErrInvalidHex = &ForgeError{
		Code:     "INVALID_HEX",
		Message:  "invalid hex string",
		ExitCode: ExitInput,
	}
)

// Cipher input-shape errors.
var (
	ErrInvalidKeyLength = &ForgeError{
		Code:     "INVALID_KEY_LENGTH",
		Message:  "key must be exactly 16 bytes",
		ExitCode: ExitInput,
	}

	ErrInvalidBlockLength = &ForgeError{
		Code:     "INVALID_BLOCK_LENGTH",
		Message:  "block must be exactly 16 bytes",
		ExitCode: ExitInput,
	}

	ErrInvalidCiphertextLength = &ForgeError{
		Code:     "INVALID_CIPHERTEXT_LENGTH",
		Message:  "ciphertext length must be a positive multiple of 16",
		ExitCode: ExitInput,
	}

	ErrInvalidPadding = &ForgeError{
		Code:     "INVALID_PADDING",
		Message:  "malformed PKCS#7 padding",
		ExitCode: ExitInput,
	}
)

// Field and S-box errors.
var (
	ErrInvalidPolynomial = &ForgeError{
		Code:     "INVALID_POLYNOMIAL",
		Message:  "not an irreducible degree-8 polynomial",
		ExitCode: ExitInput,
	}

	ErrNotBijective = &ForgeError{
		Code:     "NOT_BIJECTIVE",
		Message:  "substitution table is not a permutation",
		ExitCode: ExitInput,
	}

	ErrIntegrity = &ForgeError{
		Code:     "INTEGRITY_ERROR",
		Message:  "inverse requested for a non-bijective table",
		ExitCode: ExitIntegrity,
	}

	ErrInvalidArtifact = &ForgeError{
		Code:     "INVALID_ARTIFACT",
		Message:  "S-box artifact must be exactly 256 bytes",
		ExitCode: ExitInput,
	}
)

// Search errors.
var (
	ErrInvalidRange = &ForgeError{
		Code:     "INVALID_RANGE",
		Message:  "invalid parameter range",
		ExitCode: ExitInput,
	}

	ErrNoCandidates = &ForgeError{
		Code:     "NO_CANDIDATES",
		Message:  "no candidate produced a bijective S-box",
		ExitCode: ExitGeneral,
	}

	ErrSearchCanceled = &ForgeError{
		Code:     "SEARCH_CANCELED",
		Message:  "search canceled",
		ExitCode: ExitGeneral,
	}
)

// Config errors.
var (
	ErrConfigNotFound = &ForgeError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &ForgeError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &ForgeError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}
)

// New creates a new ForgeError with the given code and message.
func New(code, message string) *ForgeError {
	return &ForgeError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var fe *ForgeError
	if errors.As(err, &fe) {
		return &ForgeError{
			Code:       fe.Code,
			Message:    fmt.Sprintf("%s: %s", msg, fe.Message),
			Details:    fe.Details,
			Suggestion: fe.Suggestion,
			Cause:      err,
			ExitCode:   fe.ExitCode,
		}
	}

	return &ForgeError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var fe *ForgeError
	if errors.As(err, &fe) {
		return &ForgeError{
			Code:       fe.Code,
			Message:    fe.Message,
			Details:    details,
			Suggestion: fe.Suggestion,
			Cause:      fe.Cause,
			ExitCode:   fe.ExitCode,
		}
	}

	return &ForgeError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var fe *ForgeError
	if errors.As(err, &fe) {
		return &ForgeError{
			Code:       fe.Code,
			Message:    fe.Message,
			Details:    fe.Details,
			Suggestion: suggestion,
			Cause:      fe.Cause,
			ExitCode:   fe.ExitCode,
		}
	}

	return &ForgeError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// WithCause attaches an underlying cause while keeping the sentinel's code.
func WithCause(err, cause error) error {
	if err == nil {
		return nil
	}

	var fe *ForgeError
	if errors.As(err, &fe) {
		return &ForgeError{
			Code:       fe.Code,
			Message:    fe.Message,
			Details:    fe.Details,
			Suggestion: fe.Suggestion,
			Cause:      cause,
			ExitCode:   fe.ExitCode,
		}
	}

	return &ForgeError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Cause:    cause,
		ExitCode: ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var fe *ForgeError
	if errors.As(err, &fe) {
		return fe.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var fe *ForgeError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
