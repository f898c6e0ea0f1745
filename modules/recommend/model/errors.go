package model

import "errors"

var (
	// ErrProfileNotFound is returned when the requesting account has no
	// company profile yet.
	ErrProfileNotFound = errors.New("company profile not found")

	// ErrProfileIncomplete is returned when tier-1 fields are missing;
	// the handler maps this to a 409 error body; no item list is returned.
	ErrProfileIncomplete = errors.New("company profile is missing required fields")

	// ErrReferenceNotEmbedded is returned by Similar when the reference
	// tender has no embedding yet.
	ErrReferenceNotEmbedded = errors.New("reference tender has not been embedded yet")

	// ErrVectorStoreUnavailable signals a retriable 5xx from the vector
	// store candidate-generation stage.
	ErrVectorStoreUnavailable = errors.New("vector store is unavailable")
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeProfileNotFound        ErrorCode = "PROFILE_NOT_FOUND"
	CodeProfileIncomplete      ErrorCode = "PROFILE_INCOMPLETE"
	CodeReferenceNotEmbedded   ErrorCode = "REFERENCE_NOT_EMBEDDED"
	CodeVectorStoreUnavailable ErrorCode = "VECTOR_STORE_UNAVAILABLE"
	CodeInternalError          ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes.
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return CodeProfileNotFound
	case errors.Is(err, ErrProfileIncomplete):
		return CodeProfileIncomplete
	case errors.Is(err, ErrReferenceNotEmbedded):
		return CodeReferenceNotEmbedded
	case errors.Is(err, ErrVectorStoreUnavailable):
		return CodeVectorStoreUnavailable
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message.
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return "Company profile not found"
	case errors.Is(err, ErrProfileIncomplete):
		return "Company profile is missing required tier-1 fields"
	case errors.Is(err, ErrReferenceNotEmbedded):
		return "Reference tender has not been embedded yet"
	case errors.Is(err, ErrVectorStoreUnavailable):
		return "Vector store is temporarily unavailable"
	default:
		return "Internal server error"
	}
}
