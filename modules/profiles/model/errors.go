package model

import "errors"

var (
	// ErrProfileNotFound is returned when a profile is not found
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileAlreadyExists is returned when an account already has a profile
	ErrProfileAlreadyExists = errors.New("profile already exists")

	// ErrProfileIncomplete is returned when tier1 fields are missing
	ErrProfileIncomplete = errors.New("profile tier1 fields incomplete")

	// ErrInvalidBudgetRange is returned when budget_min > budget_max
	ErrInvalidBudgetRange = errors.New("budget_min must be <= budget_max")

	// ErrInvalidTier1Fields is returned when tier1 field cardinality is out of bounds
	ErrInvalidTier1Fields = errors.New("tier1 fields out of bounds")
)

// ErrorCode represents error codes
type ErrorCode string

const (
	CodeProfileNotFound      ErrorCode = "PROFILE_NOT_FOUND"
	CodeProfileAlreadyExists ErrorCode = "PROFILE_ALREADY_EXISTS"
	CodeProfileIncomplete    ErrorCode = "PROFILE_INCOMPLETE"
	CodeInvalidBudgetRange   ErrorCode = "INVALID_BUDGET_RANGE"
	CodeInvalidTier1Fields   ErrorCode = "INVALID_TIER1_FIELDS"
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return CodeProfileNotFound
	case errors.Is(err, ErrProfileAlreadyExists):
		return CodeProfileAlreadyExists
	case errors.Is(err, ErrProfileIncomplete):
		return CodeProfileIncomplete
	case errors.Is(err, ErrInvalidBudgetRange):
		return CodeInvalidBudgetRange
	case errors.Is(err, ErrInvalidTier1Fields):
		return CodeInvalidTier1Fields
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return "Company profile not found"
	case errors.Is(err, ErrProfileAlreadyExists):
		return "Company profile already exists for this account"
	case errors.Is(err, ErrProfileIncomplete):
		return "Tier-1 profile fields must be complete before recommendations can be generated"
	case errors.Is(err, ErrInvalidBudgetRange):
		return "budget_min must be less than or equal to budget_max"
	case errors.Is(err, ErrInvalidTier1Fields):
		return "Tier-1 field cardinality is out of bounds"
	default:
		return "Internal server error"
	}
}
