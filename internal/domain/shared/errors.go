package shared

// DomainError is a business-rule failure with a stable machine code.
// Handlers map the code to an HTTP status; the message is safe to show
// to API clients.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches by code so wrapped or reconstructed domain errors still
// compare equal to the sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Sentinel errors shared across the domain packages.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrMixedSellerBatch    = NewDomainError("MIXED_SELLER_BATCH", "Orders in a payout batch must belong to a single seller")
	ErrAlreadyProcessed    = NewDomainError("ALREADY_PROCESSED", "Payout batch was already processed")
	ErrOrderNotEligible    = NewDomainError("ORDER_NOT_ELIGIBLE", "Order is not eligible for payout")
)
