package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 422, treating unknown domain errors
// as business rule violations rather than server faults.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	"NOT_FOUND":      http.StatusNotFound,
	"EMAIL_TAKEN":    http.StatusConflict,
	"ALREADY_EXISTS": http.StatusConflict,

	"INVALID_INPUT":       http.StatusBadRequest,
	"INVALID_EMAIL":       http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"INVALID_COUNTRY":     http.StatusBadRequest,
	"INVALID_UNIT":        http.StatusBadRequest,
	"INVALID_STATUS":      http.StatusBadRequest,
	"INVALID_PLAN":        http.StatusBadRequest,
	"INVALID_TOKEN":       http.StatusForbidden,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,

	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"MISSING_CLIENT_EMAIL": http.StatusUnprocessableEntity,
	"ALREADY_SUBSCRIBED":   http.StatusUnprocessableEntity,
	"NO_SUBSCRIPTION":      http.StatusUnprocessableEntity,
	"NO_BILLING_ACCOUNT":   http.StatusUnprocessableEntity,
	"SAME_PLAN":            http.StatusUnprocessableEntity,
	"CHECKOUT_INCOMPLETE":  http.StatusUnprocessableEntity,
	"EMPTY_PRICE_LIST":     http.StatusUnprocessableEntity,

	"UPSTREAM_FAILURE": http.StatusBadGateway,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
