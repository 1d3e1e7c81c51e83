// Package errors defines the error taxonomy for the alpha buyer scanner.
//
// Validation errors are rejected before any I/O. Upstream failures (pair
// index, transfer ledger, portfolio analytics) are fatal for the whole
// request and carry the upstream's message when one is available.
// Per-wallet and contract-check failures never reach this package: the
// service layer absorbs them at item granularity.
package errors

import (
	"fmt"
	"net/http"

	"github.com/alpha-scanner/internal/types"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryValidation represents malformed caller input (4xx)
	CategoryValidation ErrorCategory = "validation"
	// CategoryUpstream represents external data source failures
	CategoryUpstream ErrorCategory = "upstream"
	// CategorySystem represents internal errors (5xx)
	CategorySystem ErrorCategory = "system"
)

// Upstream source names used in error details.
const (
	SourcePairIndex      = "pair_index"
	SourceTransferLedger = "transfer_ledger"
	SourcePortfolioAPI   = "portfolio_api"
)

// CategorizedError represents an error with category and HTTP status code
type CategorizedError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
	Cause      error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// ToServiceError converts to a ServiceError
func (e *CategorizedError) ToServiceError() *types.ServiceError {
	return &types.ServiceError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// NewInvalidAddressError creates an invalid address error. Raised before
// any external call is made.
func NewInvalidAddressError(address string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       "INVALID_ADDRESS",
		Message:    "invalid token address",
		Details: map[string]interface{}{
			"address": address,
		},
	}
}

// NewUpstreamError creates an upstream failure for the named source,
// preserving the upstream's own message.
func NewUpstreamError(source, message string, cause error) *CategorizedError {
	if message == "" {
		message = fmt.Sprintf("upstream request failed: %s", source)
	}
	return &CategorizedError{
		Category:   CategoryUpstream,
		StatusCode: http.StatusBadGateway,
		Code:       upstreamCode(source),
		Message:    message,
		Cause:      cause,
		Details: map[string]interface{}{
			"source": source,
		},
	}
}

func upstreamCode(source string) string {
	switch source {
	case SourcePairIndex:
		return "PAIR_INDEX_ERROR"
	case SourceTransferLedger:
		return "TRANSFER_LEDGER_ERROR"
	case SourcePortfolioAPI:
		return "PORTFOLIO_API_ERROR"
	default:
		return "UPSTREAM_ERROR"
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategorySystem,
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		Cause:      cause,
	}
}

// Categorize categorizes an existing error
func Categorize(err error) *CategorizedError {
	if err == nil {
		return nil
	}

	if catErr, ok := err.(*CategorizedError); ok {
		return catErr
	}

	return NewInternalError("unexpected error", err)
}

// GetHTTPStatusCode returns the HTTP status code for an error
func GetHTTPStatusCode(err error) int {
	if catErr := Categorize(err); catErr != nil {
		return catErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsValidationError reports whether the error was rejected before any I/O.
func IsValidationError(err error) bool {
	catErr := Categorize(err)
	return catErr != nil && catErr.Category == CategoryValidation
}

// IsUpstreamError reports whether an external data source failed.
func IsUpstreamError(err error) bool {
	catErr := Categorize(err)
	return catErr != nil && catErr.Category == CategoryUpstream
}
