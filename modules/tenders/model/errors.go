package model

import "errors"

var (
	// ErrTenderNotFound is returned when a tender is not found
	ErrTenderNotFound = errors.New("tender not found")

	// ErrTenderSourceURLRequired is returned when source_url is empty
	ErrTenderSourceURLRequired = errors.New("tender source url is required")

	// ErrTenderAlreadyExists is returned on a duplicate source_url
	ErrTenderAlreadyExists = errors.New("tender with this source url already exists")

	// ErrInvalidBudgetRange is returned when budget_min > budget_max
	ErrInvalidBudgetRange = errors.New("budget_min must be less than or equal to budget_max")

	// ErrInvalidTenderStatus is returned when an invalid status is provided
	ErrInvalidTenderStatus = errors.New("invalid tender status")

	// ErrContentExtractionUnavailable is returned when content-status is
	// queried on a deployment with no ContentExtractor configured.
	ErrContentExtractionUnavailable = errors.New("content extraction is not configured")
)

// ErrorCode represents error codes
type ErrorCode string

const (
	CodeTenderNotFound         ErrorCode = "TENDER_NOT_FOUND"
	CodeTenderSourceURLRequired ErrorCode = "TENDER_SOURCE_URL_REQUIRED"
	CodeTenderAlreadyExists    ErrorCode = "TENDER_ALREADY_EXISTS"
	CodeInvalidBudgetRange     ErrorCode = "INVALID_BUDGET_RANGE"
	CodeInvalidTenderStatus    ErrorCode = "INVALID_TENDER_STATUS"
	CodeContentExtractionUnavailable ErrorCode = "CONTENT_EXTRACTION_UNAVAILABLE"
	CodeInternalError          ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrTenderNotFound):
		return CodeTenderNotFound
	case errors.Is(err, ErrTenderSourceURLRequired):
		return CodeTenderSourceURLRequired
	case errors.Is(err, ErrTenderAlreadyExists):
		return CodeTenderAlreadyExists
	case errors.Is(err, ErrInvalidBudgetRange):
		return CodeInvalidBudgetRange
	case errors.Is(err, ErrInvalidTenderStatus):
		return CodeInvalidTenderStatus
	case errors.Is(err, ErrContentExtractionUnavailable):
		return CodeContentExtractionUnavailable
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrTenderNotFound):
		return "Tender not found"
	case errors.Is(err, ErrTenderSourceURLRequired):
		return "Tender source url is required"
	case errors.Is(err, ErrTenderAlreadyExists):
		return "Tender with this source url already exists"
	case errors.Is(err, ErrInvalidBudgetRange):
		return "budget_min must be less than or equal to budget_max"
	case errors.Is(err, ErrInvalidTenderStatus):
		return "Invalid tender status"
	case errors.Is(err, ErrContentExtractionUnavailable):
		return "Content extraction is not configured"
	default:
		return "Internal server error"
	}
}
