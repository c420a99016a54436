package dto

import "time"

// Response is the envelope every endpoint returns. Success responses
// carry Data (plus Meta for listings); error responses carry Error.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo describes a failed request.
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Details   []ValidationDetail `json:"details,omitempty"`
	Help      string             `json:"help,omitempty"`
}

// ValidationDetail pins a message to the field that failed binding.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta carries pagination info for list responses.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

const defaultPageSize = 20

// NewSuccessResponse wraps data in a success envelope.
func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewSuccessResponseWithMeta wraps a listing page together with its
// pagination meta. A non-positive pageSize falls back to the default.
func NewSuccessResponseWithMeta(data interface{}, total int64, page, pageSize int) Response {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
}

func newErrorInfo(code, message string) *ErrorInfo {
	return &ErrorInfo{
		Code:      NormalizeErrorCode(code),
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse builds an error envelope. Bare domain codes are
// normalized into the ERR_ convention.
func NewErrorResponse(code, message string) Response {
	return Response{Success: false, Error: newErrorInfo(code, message)}
}

// NewErrorResponseWithRequestID builds an error envelope tagged with
// the request ID for log correlation.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	info := newErrorInfo(code, message)
	info.RequestID = requestID
	return Response{Success: false, Error: info}
}

// NewValidationErrorResponse builds the 400 envelope with one detail
// per failing field.
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	info := newErrorInfo(ErrCodeValidation, message)
	info.RequestID = requestID
	info.Details = details
	return Response{Success: false, Error: info}
}

// NewErrorResponseWithHelp builds an error envelope with a link to the
// relevant documentation page.
func NewErrorResponseWithHelp(code, message, requestID, help string) Response {
	info := newErrorInfo(code, message)
	info.RequestID = requestID
	info.Help = help
	return Response{Success: false, Error: info}
}
