package model

import "errors"

var (
	ErrUnknownInteractionType = errors.New("unknown interaction type")
	ErrTenderNotFound         = errors.New("tender not found")
)

type ErrorCode string

const (
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeTenderNotFound  ErrorCode = "TENDER_NOT_FOUND"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
)

func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrUnknownInteractionType):
		return CodeValidationError
	case errors.Is(err, ErrTenderNotFound):
		return CodeTenderNotFound
	default:
		return CodeInternalError
	}
}

func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnknownInteractionType):
		return "Unknown interaction type"
	case errors.Is(err, ErrTenderNotFound):
		return "Tender not found"
	default:
		return "Internal error"
	}
}
