package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderCreatedEvent is raised when a new order enters the settlement ledger
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID            uuid.UUID       `json:"order_id"`
	OrderNumber        string          `json:"order_number"`
	SellerID           uuid.UUID       `json:"seller_id"`
	BuyerID            uuid.UUID       `json:"buyer_id"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	PlatformCommission decimal.Decimal `json:"platform_commission"`
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return "OrderCreated"
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent("OrderCreated", "Order", o.ID, o.TenantID),
		OrderID:            o.ID,
		OrderNumber:        o.OrderNumber,
		SellerID:           o.SellerID,
		BuyerID:            o.BuyerID,
		PaidAmount:         o.PaidAmount,
		PlatformCommission: o.PlatformCommission,
	}
}

// OrderPaymentConfirmedEvent is raised when buyer payment clears and the
// seller net amount becomes pending
type OrderPaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	SellerID      uuid.UUID       `json:"seller_id"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	PaymentDate   time.Time       `json:"payment_date"`
}

// EventType returns the event type name
func (e *OrderPaymentConfirmedEvent) EventType() string {
	return "OrderPaymentConfirmed"
}

// NewOrderPaymentConfirmedEvent creates a new OrderPaymentConfirmedEvent
func NewOrderPaymentConfirmedEvent(o *Order) *OrderPaymentConfirmedEvent {
	return &OrderPaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OrderPaymentConfirmed", "Order", o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		SellerID:        o.SellerID,
		PendingAmount:   o.PendingAmount,
		PaymentDate:     o.PaymentDate,
	}
}

// OrderSettledEvent is raised when an order is settled through a payout
type OrderSettledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	SellerID    uuid.UUID `json:"seller_id"`
	PayoutID    uuid.UUID `json:"payout_id"`
}

// EventType returns the event type name
func (e *OrderSettledEvent) EventType() string {
	return "OrderSettled"
}

// NewOrderSettledEvent creates a new OrderSettledEvent
func NewOrderSettledEvent(o *Order, payoutID uuid.UUID) *OrderSettledEvent {
	return &OrderSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OrderSettled", "Order", o.ID, o.TenantID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		SellerID:        o.SellerID,
		PayoutID:        payoutID,
	}
}
