package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PayoutCreatedEvent is raised when a payout record is created
type PayoutCreatedEvent struct {
	shared.BaseDomainEvent
	PayoutID      uuid.UUID       `json:"payout_id"`
	PayoutNumber  string          `json:"payout_number"`
	SellerID      uuid.UUID       `json:"seller_id"`
	SellerName    string          `json:"seller_name"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	OrderCount    int             `json:"order_count"`
	BankReference string          `json:"bank_reference"`
}

// EventType returns the event type name
func (e *PayoutCreatedEvent) EventType() string {
	return "PayoutCreated"
}

// NewPayoutCreatedEvent creates a new PayoutCreatedEvent
func NewPayoutCreatedEvent(p *PayoutRecord) *PayoutCreatedEvent {
	return &PayoutCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayoutCreated", "PayoutRecord", p.ID, p.TenantID),
		PayoutID:        p.ID,
		PayoutNumber:    p.PayoutNumber,
		SellerID:        p.SellerID,
		SellerName:      p.SellerName,
		GrossAmount:     p.GrossAmount,
		OrderCount:      p.OrderCount(),
		BankReference:   p.BankReference,
	}
}

// PayoutCompletedEvent is raised when a payout is disbursed
type PayoutCompletedEvent struct {
	shared.BaseDomainEvent
	PayoutID     uuid.UUID       `json:"payout_id"`
	PayoutNumber string          `json:"payout_number"`
	SellerID     uuid.UUID       `json:"seller_id"`
	NetAmount    decimal.Decimal `json:"net_amount"`
	ProcessedBy  uuid.UUID       `json:"processed_by"`
	ProcessedAt  time.Time       `json:"processed_at"`
}

// EventType returns the event type name
func (e *PayoutCompletedEvent) EventType() string {
	return "PayoutCompleted"
}

// NewPayoutCompletedEvent creates a new PayoutCompletedEvent
func NewPayoutCompletedEvent(p *PayoutRecord) *PayoutCompletedEvent {
	var processedBy uuid.UUID
	processedAt := time.Now()
	if p.ProcessedBy != nil {
		processedBy = *p.ProcessedBy
	}
	if p.ProcessedAt != nil {
		processedAt = *p.ProcessedAt
	}
	return &PayoutCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayoutCompleted", "PayoutRecord", p.ID, p.TenantID),
		PayoutID:        p.ID,
		PayoutNumber:    p.PayoutNumber,
		SellerID:        p.SellerID,
		NetAmount:       p.NetAmount,
		ProcessedBy:     processedBy,
		ProcessedAt:     processedAt,
	}
}

// PayoutFrozenEvent is raised when a payout is held back for review
type PayoutFrozenEvent struct {
	shared.BaseDomainEvent
	PayoutID     uuid.UUID `json:"payout_id"`
	PayoutNumber string    `json:"payout_number"`
	SellerID     uuid.UUID `json:"seller_id"`
	Reason       string    `json:"reason"`
}

// EventType returns the event type name
func (e *PayoutFrozenEvent) EventType() string {
	return "PayoutFrozen"
}

// NewPayoutFrozenEvent creates a new PayoutFrozenEvent
func NewPayoutFrozenEvent(p *PayoutRecord) *PayoutFrozenEvent {
	return &PayoutFrozenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayoutFrozen", "PayoutRecord", p.ID, p.TenantID),
		PayoutID:        p.ID,
		PayoutNumber:    p.PayoutNumber,
		SellerID:        p.SellerID,
		Reason:          p.FailureReason,
	}
}

// PayoutFailedEvent is raised when a payout disbursement fails
type PayoutFailedEvent struct {
	shared.BaseDomainEvent
	PayoutID     uuid.UUID `json:"payout_id"`
	PayoutNumber string    `json:"payout_number"`
	SellerID     uuid.UUID `json:"seller_id"`
	Reason       string    `json:"reason"`
}

// EventType returns the event type name
func (e *PayoutFailedEvent) EventType() string {
	return "PayoutFailed"
}

// NewPayoutFailedEvent creates a new PayoutFailedEvent
func NewPayoutFailedEvent(p *PayoutRecord) *PayoutFailedEvent {
	return &PayoutFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayoutFailed", "PayoutRecord", p.ID, p.TenantID),
		PayoutID:        p.ID,
		PayoutNumber:    p.PayoutNumber,
		SellerID:        p.SellerID,
		Reason:          p.FailureReason,
	}
}
