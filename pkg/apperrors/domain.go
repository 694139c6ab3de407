package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for common business-logic and domain
errors. Services return these; handlers translate them via HandleError.
*/

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409 AppError.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic 409 factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation is the generic 400 factory for disallowed operations.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus is used when an operation is not valid for the current
// state of the entity.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Auth & user status ---

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

// --- Payments ---

// ErrTransactionNotFound - unknown payment reference (404).
var ErrTransactionNotFound = New(
	CodeNotFound,
	"payment",
	"Payment transaction not found",
	http.StatusNotFound,
)

// ErrTransactionAccessDenied - the caller does not own the transaction (403).
var ErrTransactionAccessDenied = New(
	CodeForbidden,
	"payment",
	"You do not have access to this transaction",
	http.StatusForbidden,
)

// ErrInvalidPaymentAmount - amount is zero, negative or out of range (400).
var ErrInvalidPaymentAmount = New(
	CodeValidationFailed,
	"payment",
	"Invalid payment amount",
	http.StatusBadRequest,
)

// ErrGatewayRejected - the gateway refused the request (4xx). Not retryable.
var ErrGatewayRejected = New(
	CodeExternalServiceError,
	"payment",
	"Payment was rejected by the provider. Please try an alternative payment method.",
	http.StatusBadGateway,
)

// ErrGatewayUnavailable - the gateway is down or timed out (5xx). Retryable.
var ErrGatewayUnavailable = New(
	CodeExternalServiceError,
	"payment",
	"Payment provider is temporarily unavailable. Please try again.",
	http.StatusServiceUnavailable,
)

// --- Referrals ---

var ErrReferralAccessDenied = New(
	CodeForbidden,
	"referral",
	"You do not have access to this referral",
	http.StatusForbidden,
)
