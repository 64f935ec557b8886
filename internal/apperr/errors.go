package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is a client-facing error kind with its HTTP status.
type ErrorCode struct {
	Code    string
	Status  int
	Message string // default message
}

var (
	CodeValidation          = ErrorCode{Code: "validation_error", Status: http.StatusBadRequest, Message: "invalid input"}
	CodeNotFound            = ErrorCode{Code: "not_found", Status: http.StatusNotFound, Message: "record not found"}
	CodeInsufficientBalance = ErrorCode{Code: "insufficient_balance", Status: http.StatusBadRequest, Message: "Cannot decrease amount to zero or below."}
	CodeUnsupportedCurrency = ErrorCode{Code: "unsupported_currency", Status: http.StatusBadRequest, Message: "not supported currency"}
	CodeProviderUnavailable = ErrorCode{Code: "provider_unavailable", Status: http.StatusBadGateway, Message: "exchange rate provider unavailable"}
	CodeUnauthorized        = ErrorCode{Code: "unauthorized", Status: http.StatusUnauthorized, Message: "Not authenticated"}
	CodeForbidden           = ErrorCode{Code: "forbidden", Status: http.StatusForbidden, Message: "forbidden"}
	CodeRateLimited         = ErrorCode{Code: "rate_limited", Status: http.StatusTooManyRequests, Message: "too many requests"}
	CodeInternal            = ErrorCode{Code: "internal_error", Status: http.StatusInternalServerError, Message: "internal error"}
)

type AppError struct {
	Code    ErrorCode
	Message string // public-facing message
	Cause   error  // internal cause
}

func (e AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e AppError) Unwrap() error { return e.Cause }

// New returns an AppError; an empty msg falls back to the code's default.
func New(code ErrorCode, msg string, cause error) error {
	if msg == "" {
		msg = code.Message
	}
	return AppError{Code: code, Message: msg, Cause: cause}
}

// From extracts the AppError from err. Errors that carry none are reported
// as internal errors with a generic message.
func From(err error) AppError {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return AppError{Code: CodeInternal, Message: CodeInternal.Message, Cause: err}
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr AppError
	return errors.As(err, &appErr) && appErr.Code.Code == code.Code
}
