package dto

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	byStatus := map[int][]string{
		http.StatusBadRequest: {
			ErrCodeValidation, ErrCodeValidationRequired, ErrCodeValidationFormat,
			ErrCodeValidationRange, ErrCodeValidationLength,
			ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON,
			"WEAK_PASSWORD", "INVALID_PERIOD", "INVALID_SELLER",
		},
		http.StatusUnauthorized: {
			ErrCodeUnauthorized, ErrCodeTokenExpired, ErrCodeTokenInvalid,
			"INVALID_CREDENTIALS", "TOKEN_REVOKED", "TOKEN_MAX_REFRESH", "TOKEN_ERROR",
		},
		http.StatusForbidden: {
			ErrCodeForbidden, "ACCOUNT_LOCKED", "ACCOUNT_SUSPENDED", "ACCOUNT_INACTIVE",
		},
		http.StatusNotFound: {
			ErrCodeNotFound, "ORDER_NOT_FOUND", "PAYOUT_NOT_FOUND", "SELLER_NOT_FOUND",
		},
		http.StatusConflict: {
			ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict,
			ErrCodeAlreadyProcessed, "EMAIL_TAKEN",
		},
		http.StatusUnprocessableEntity: {
			ErrCodeInvalidState, ErrCodeBusinessRule, ErrCodeMixedSellerBatch,
			ErrCodeOrderNotEligible,
			"BANK_REFERENCE_REQUIRED", "CURRENCY_MISMATCH", "EMPTY_BATCH",
			"INVALID_AMOUNT", "INVALID_ENTRY_DATE", "INVALID_CATEGORY",
		},
		http.StatusTooManyRequests: {
			ErrCodeRateLimited, ErrCodeTooManyRequests,
		},
		http.StatusInternalServerError: {
			ErrCodeUnknown, ErrCodeInternal,
		},
	}

	for status, codes := range byStatus {
		for _, code := range codes {
			t.Run(code, func(t *testing.T) {
				assert.Equal(t, status, GetHTTPStatus(code))
			})
		}
	}

	t.Run("unmapped codes default to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOMETHING_NEW"))
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(""))
	})
}

func TestNormalizeErrorCode(t *testing.T) {
	t.Run("bare domain codes get the ERR_ prefix form", func(t *testing.T) {
		translated := map[string]string{
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
		for bare, want := range translated {
			assert.Equal(t, want, NormalizeErrorCode(bare), bare)
		}
	})

	t.Run("already normalized codes pass through", func(t *testing.T) {
		assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
		assert.Equal(t, ErrCodeMixedSellerBatch, NormalizeErrorCode(ErrCodeMixedSellerBatch))
	})

	t.Run("unknown codes pass through", func(t *testing.T) {
		assert.Equal(t, "CUSTOM_ERROR", NormalizeErrorCode("CUSTOM_ERROR"))
	})

	t.Run("normalized form keeps its HTTP status", func(t *testing.T) {
		// Every translatable code must resolve to a real status after
		// normalization, otherwise handlers would emit 500 for mapped errors.
		for _, bare := range []string{"NOT_FOUND", "MIXED_SELLER_BATCH", "ALREADY_PROCESSED", "ORDER_NOT_ELIGIBLE", "VALIDATION_ERROR"} {
			assert.NotEqual(t, http.StatusInternalServerError, GetHTTPStatus(NormalizeErrorCode(bare)), bare)
		}
	})
}

func TestErrorCodeNamingConvention(t *testing.T) {
	codes := []string{
		ErrCodeUnknown, ErrCodeInternal, ErrCodeValidation, ErrCodeUnauthorized,
		ErrCodeForbidden, ErrCodeNotFound, ErrCodeConflict, ErrCodeInvalidState,
		ErrCodeMixedSellerBatch, ErrCodeAlreadyProcessed, ErrCodeOrderNotEligible,
		ErrCodeRateLimited,
	}
	for _, code := range codes {
		assert.True(t, strings.HasPrefix(code, "ERR_"), code)
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Resource not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code, "bare code should be normalized")
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Payout not found", "req-123-456")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Payout not found", resp.Error.Message)
	assert.Equal(t, "req-123-456", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
		{Field: "amount", Message: "Must be greater than 0"},
	}

	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be greater than 0", resp.Error.Details[1].Message)
}

func TestNewErrorResponseWithHelp(t *testing.T) {
	resp := NewErrorResponseWithHelp(ErrCodeUnauthorized, "Not authenticated", "req-001", "https://docs.example.com/errors/auth")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUnauthorized, resp.Error.Code)
	assert.Equal(t, "https://docs.example.com/errors/auth", resp.Error.Help)
}

func TestErrorResponseRoundTrip(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Seller not found", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.False(t, decoded.Success)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "Seller not found", decoded.Error.Message)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
}

func TestErrorResponseTimestamp(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponse(ErrCodeInternal, "Server error")
	after := time.Now()

	require.NotNil(t, resp.Error)
	assert.False(t, resp.Error.Timestamp.Before(before))
	assert.False(t, resp.Error.Timestamp.After(after))
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"name": "test"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 100, 1, 10)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(100), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
	assert.Equal(t, 10, resp.Meta.TotalPages)
}

func TestSuccessMetaPagination(t *testing.T) {
	cases := []struct {
		name      string
		total     int64
		pageSize  int
		wantPages int
		wantSize  int
	}{
		{"exact pages", 100, 10, 10, 10},
		{"partial last page", 101, 10, 11, 10},
		{"no rows", 0, 10, 0, 10},
		{"under one page", 9, 10, 1, 10},
		{"boundary", 10, 10, 1, 10},
		{"just over boundary", 11, 10, 2, 10},
		{"zero page size falls back to default", 100, 0, 5, 20},
		{"negative page size falls back to default", 100, -1, 5, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta(nil, tc.total, 1, tc.pageSize)
			require.NotNil(t, resp.Meta)
			assert.Equal(t, tc.wantPages, resp.Meta.TotalPages)
			assert.Equal(t, tc.wantSize, resp.Meta.PageSize)
		})
	}
}
