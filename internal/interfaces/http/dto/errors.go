package dto

import "net/http"

// Transport-level error codes. Domain errors carry their own codes; the
// handlers pass those through and this table decides the HTTP status.
const (
	ErrCodeInternal     = "INTERNAL"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
)

// ErrorCodeHTTPStatus maps error codes, transport and domain alike, to HTTP
// status codes. Validation failures are 400, duplicates 409, and state or
// business-rule violations 422.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input and validation errors
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeValidation:         http.StatusBadRequest,
	"INVALID_INPUT":           http.StatusBadRequest,
	"INVALID_USER":            http.StatusBadRequest,
	"INVALID_HOURS":           http.StatusBadRequest,
	"INVALID_AMOUNT":          http.StatusBadRequest,
	"INVALID_DATE":            http.StatusBadRequest,
	"INVALID_PERIOD":          http.StatusBadRequest,
	"INVALID_METHOD":          http.StatusBadRequest,
	"INVALID_KIND":            http.StatusBadRequest,
	"INVALID_NAME":            http.StatusBadRequest,
	"INVALID_EVENT":           http.StatusBadRequest,
	"INVALID_DESCRIPTION":     http.StatusBadRequest,
	"INVALID_SETUP_WINDOW":    http.StatusBadRequest,
	"INVALID_USERNAME":        http.StatusBadRequest,
	"INVALID_PHONE":           http.StatusBadRequest,
	"INVALID_EMPLOYMENT_TYPE": http.StatusBadRequest,
	"ZERO_ADJUSTMENT":         http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:    http.StatusNotFound,
	ErrCodeConflict:    http.StatusConflict,
	"ALREADY_EXISTS":   http.StatusConflict,
	"DUPLICATE_DATE":   http.StatusConflict,
	"DUPLICATE_PERIOD": http.StatusConflict,
	"ALREADY_ASSIGNED": http.StatusConflict,

	// Business rule violations
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_BALANCE": http.StatusUnprocessableEntity,
	"ALREADY_EDITED":       http.StatusUnprocessableEntity,
	"ALREADY_SETTLED":      http.StatusUnprocessableEntity,
	"NOT_PENDING":          http.StatusUnprocessableEntity,
	"NOT_APPROVED":         http.StatusUnprocessableEntity,
	"ALREADY_PAID":         http.StatusUnprocessableEntity,
	"WRONG_KIND":           http.StatusUnprocessableEntity,
	"NOT_SALARIED":         http.StatusUnprocessableEntity,
	"USER_INACTIVE":        http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code. Unknown codes
// map to 500 so a missed table entry fails loudly rather than silently as 200.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
