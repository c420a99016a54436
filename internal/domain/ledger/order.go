package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SettlementStatus represents where an order sits in the payout lifecycle
type SettlementStatus string

const (
	SettlementUnpaid          SettlementStatus = "UNPAID"
	SettlementPaidPending     SettlementStatus = "PAID_PENDING_PAYOUT"
	SettlementPayoutProcessed SettlementStatus = "PAYOUT_PROCESSED"
)

// IsValid returns true if the status is a known settlement status
func (s SettlementStatus) IsValid() bool {
	switch s {
	case SettlementUnpaid, SettlementPaidPending, SettlementPayoutProcessed:
		return true
	}
	return false
}

// String returns the string representation
func (s SettlementStatus) String() string {
	return string(s)
}

// DisplayName returns a human readable name
func (s SettlementStatus) DisplayName() string {
	switch s {
	case SettlementUnpaid:
		return "Unpaid"
	case SettlementPaidPending:
		return "Paid, Pending Payout"
	case SettlementPayoutProcessed:
		return "Payout Processed"
	default:
		return string(s)
	}
}

// Order represents a marketplace order from the settlement point of view.
// It tracks the buyer payment, the platform commission withheld, and the
// amount still owed to the seller. The settlement lifecycle is strictly
// one-directional: UNPAID -> PAID_PENDING_PAYOUT -> PAYOUT_PROCESSED.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber        string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_orders_tenant_number,priority:2"`
	SellerID           uuid.UUID            `gorm:"type:uuid;not null;index"`
	SellerName         string               `gorm:"type:varchar(200);not null"` // Denormalized for payout listings
	BuyerID            uuid.UUID            `gorm:"type:uuid;not null;index"`
	ItemCount          int                  `gorm:"not null;default:1"`
	PaidAmount         decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // What the buyer paid
	PlatformCommission decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // Fee withheld by the platform
	SellerNetAmount    decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // PaidAmount - PlatformCommission
	PendingAmount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // Owed to seller, zero after payout
	Currency           valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	PaymentDate        time.Time            `gorm:"not null"`
	DeliveryDate       *time.Time           `gorm:"index"`
	SettlementStatus   SettlementStatus     `gorm:"type:varchar(30);not null;default:'UNPAID';index"`
	PayoutID           *uuid.UUID           `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order in UNPAID state
func NewOrder(
	tenantID uuid.UUID,
	orderNumber string,
	sellerID uuid.UUID,
	sellerName string,
	buyerID uuid.UUID,
	itemCount int,
	paidAmount valueobject.Money,
	platformCommission valueobject.Money,
) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if sellerName == "" {
		return nil, shared.NewDomainError("INVALID_SELLER_NAME", "Seller name cannot be empty")
	}
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID cannot be empty")
	}
	if itemCount <= 0 {
		return nil, shared.NewDomainError("INVALID_ITEM_COUNT", "Item count must be positive")
	}
	if paidAmount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Paid amount must be positive")
	}
	if platformCommission.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "Platform commission cannot be negative")
	}
	if paidAmount.Currency() != platformCommission.Currency() {
		return nil, shared.NewDomainError("CURRENCY_MISMATCH", "Paid amount and commission must share a currency")
	}
	if platformCommission.Amount().GreaterThan(paidAmount.Amount()) {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "Platform commission cannot exceed paid amount")
	}

	net := paidAmount.Amount().Sub(platformCommission.Amount())

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		SellerID:            sellerID,
		SellerName:          sellerName,
		BuyerID:             buyerID,
		ItemCount:           itemCount,
		PaidAmount:          paidAmount.Amount(),
		PlatformCommission:  platformCommission.Amount(),
		SellerNetAmount:     net,
		PendingAmount:       decimal.Zero,
		Currency:            paidAmount.Currency(),
		SettlementStatus:    SettlementUnpaid,
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// ConfirmPayment moves the order from UNPAID to PAID_PENDING_PAYOUT.
// From this point the seller net amount is owed and tracked as pending.
func (o *Order) ConfirmPayment(paymentDate time.Time) error {
	if o.SettlementStatus != SettlementUnpaid {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm payment for order in %s status", o.SettlementStatus))
	}
	if paymentDate.IsZero() {
		return shared.NewDomainError("INVALID_PAYMENT_DATE", "Payment date is required")
	}

	o.SettlementStatus = SettlementPaidPending
	o.PaymentDate = paymentDate
	o.PendingAmount = o.SellerNetAmount
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaymentConfirmedEvent(o))

	return nil
}

// MarkDelivered records the delivery date. Only delivered orders are
// eligible for payout.
func (o *Order) MarkDelivered(deliveryDate time.Time) error {
	if o.SettlementStatus == SettlementUnpaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot mark an unpaid order as delivered")
	}
	if deliveryDate.IsZero() {
		return shared.NewDomainError("INVALID_DELIVERY_DATE", "Delivery date is required")
	}
	if deliveryDate.Before(o.PaymentDate) {
		return shared.NewDomainError("INVALID_DELIVERY_DATE", "Delivery date cannot precede payment date")
	}

	o.DeliveryDate = &deliveryDate
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// IsEligibleForPayout returns true when the order is paid, delivered,
// and not yet included in a payout
func (o *Order) IsEligibleForPayout() bool {
	return o.SettlementStatus == SettlementPaidPending && o.DeliveryDate != nil
}

// ApplyPayout settles the order against a payout record: the pending
// amount drops to zero and the status becomes terminal. There is no
// reverse transition.
func (o *Order) ApplyPayout(payoutID uuid.UUID) error {
	if payoutID == uuid.Nil {
		return shared.NewDomainError("INVALID_PAYOUT", "Payout ID cannot be empty")
	}
	if !o.IsEligibleForPayout() {
		return shared.NewDomainError("ORDER_NOT_ELIGIBLE", fmt.Sprintf("Order %s is not eligible for payout", o.OrderNumber))
	}

	o.SettlementStatus = SettlementPayoutProcessed
	o.PendingAmount = decimal.Zero
	o.PayoutID = &payoutID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderSettledEvent(o, payoutID))

	return nil
}

// GetPaidAmountMoney returns the paid amount as Money
func (o *Order) GetPaidAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(o.PaidAmount, o.Currency)
	return m
}

// GetPendingAmountMoney returns the pending amount as Money
func (o *Order) GetPendingAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(o.PendingAmount, o.Currency)
	return m
}

// GetCommissionMoney returns the platform commission as Money
func (o *Order) GetCommissionMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(o.PlatformCommission, o.Currency)
	return m
}

// IsSettled returns true once the order has been through a payout
func (o *Order) IsSettled() bool {
	return o.SettlementStatus == SettlementPayoutProcessed
}
