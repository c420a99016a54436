package dto

import "net/http"

// API error codes carried in the response envelope. Codes follow the
// ERR_<CATEGORY> convention; raw domain codes (ORDER_NOT_FOUND and
// friends) pass through unchanged so clients can branch on them.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
	ErrCodeValidationLength   = "ERR_VALIDATION_LENGTH"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState     = "ERR_INVALID_STATE"
	ErrCodeBusinessRule     = "ERR_BUSINESS_RULE"
	ErrCodeMixedSellerBatch = "ERR_MIXED_SELLER_BATCH"
	ErrCodeAlreadyProcessed = "ERR_ALREADY_PROCESSED"
	ErrCodeOrderNotEligible = "ERR_ORDER_NOT_ELIGIBLE"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// domainCodeStatus maps raw domain error codes that services surface
// without renaming. Anything not listed here or handled by GetHTTPStatus
// falls back to 500 so an unmapped code is never silently a 200.
var domainCodeStatus = map[string]int{
	"ORDER_NOT_FOUND":         http.StatusNotFound,
	"PAYOUT_NOT_FOUND":        http.StatusNotFound,
	"SELLER_NOT_FOUND":        http.StatusNotFound,
	"EMAIL_TAKEN":             http.StatusConflict,
	"INVALID_CREDENTIALS":     http.StatusUnauthorized,
	"ACCOUNT_LOCKED":          http.StatusForbidden,
	"ACCOUNT_SUSPENDED":       http.StatusForbidden,
	"ACCOUNT_INACTIVE":        http.StatusForbidden,
	"TOKEN_REVOKED":           http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":       http.StatusUnauthorized,
	"TOKEN_ERROR":             http.StatusUnauthorized,
	"WEAK_PASSWORD":           http.StatusBadRequest,
	"BANK_REFERENCE_REQUIRED": http.StatusUnprocessableEntity,
	"CURRENCY_MISMATCH":       http.StatusUnprocessableEntity,
	"EMPTY_BATCH":             http.StatusUnprocessableEntity,
	"INVALID_AMOUNT":          http.StatusUnprocessableEntity,
	"INVALID_ENTRY_DATE":      http.StatusUnprocessableEntity,
	"INVALID_CATEGORY":        http.StatusUnprocessableEntity,
	"INVALID_PERIOD":          http.StatusBadRequest,
	"INVALID_SELLER":          http.StatusBadRequest,
}

// GetHTTPStatus resolves the HTTP status for an error code. Unknown
// codes map to 500.
func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeValidationRequired, ErrCodeValidationFormat,
		ErrCodeValidationRange, ErrCodeValidationLength,
		ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeTokenExpired, ErrCodeTokenInvalid:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict,
		ErrCodeAlreadyProcessed:
		return http.StatusConflict
	case ErrCodeInvalidState, ErrCodeBusinessRule, ErrCodeMixedSellerBatch,
		ErrCodeOrderNotEligible:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited, ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case ErrCodeUnknown, ErrCodeInternal:
		return http.StatusInternalServerError
	}
	if status, ok := domainCodeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// legacyCodes translates the bare codes used by shared.DomainError
// sentinels into the ERR_ convention.
var legacyCodes = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"MIXED_SELLER_BATCH":   ErrCodeMixedSellerBatch,
	"ALREADY_PROCESSED":    ErrCodeAlreadyProcessed,
	"ORDER_NOT_ELIGIBLE":   ErrCodeOrderNotEligible,
	"TOKEN_EXPIRED":        ErrCodeTokenExpired,
	"TOKEN_INVALID":        ErrCodeTokenInvalid,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode rewrites a bare domain code into the ERR_ form.
// Codes without a mapping are returned unchanged.
func NormalizeErrorCode(code string) string {
	if normalized, ok := legacyCodes[code]; ok {
		return normalized
	}
	return code
}
