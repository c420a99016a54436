package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PayoutStatus represents the status of a payout record
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "PENDING"    // Created, not yet disbursed
	PayoutStatusProcessing PayoutStatus = "PROCESSING" // Disbursement in flight
	PayoutStatusCompleted  PayoutStatus = "COMPLETED"  // Funds transferred, immutable
	PayoutStatusFailed     PayoutStatus = "FAILED"     // Disbursement failed
	PayoutStatusFrozen     PayoutStatus = "FROZEN"     // Held back pending review
)

// IsValid checks if the status is a valid PayoutStatus
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusProcessing, PayoutStatusCompleted,
		PayoutStatusFailed, PayoutStatusFrozen:
		return true
	}
	return false
}

// String returns the string representation of PayoutStatus
func (s PayoutStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the payout can no longer change state
func (s PayoutStatus) IsTerminal() bool {
	return s == PayoutStatusCompleted
}

// CanComplete returns true if the payout can be completed in this status
func (s PayoutStatus) CanComplete() bool {
	return s == PayoutStatusPending || s == PayoutStatusProcessing
}

// CanFreeze returns true if the payout can be frozen in this status
func (s PayoutStatus) CanFreeze() bool {
	return s == PayoutStatusPending || s == PayoutStatusProcessing
}

// CanFail returns true if the payout can be marked failed in this status
func (s PayoutStatus) CanFail() bool {
	return s == PayoutStatusPending || s == PayoutStatusProcessing || s == PayoutStatusFrozen
}

// PayoutOrderLine links a payout to one settled order. Order number and
// amounts are denormalized so history views render without joins.
type PayoutOrderLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	PayoutID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNumber string          `gorm:"type:varchar(50);not null"`
	GrossAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Pending amount settled by this payout
	Commission  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SettledAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PayoutOrderLine) TableName() string {
	return "payout_order_lines"
}

// NewPayoutOrderLine creates a payout order line from an eligible order
func NewPayoutOrderLine(payoutID uuid.UUID, order *Order) *PayoutOrderLine {
	return &PayoutOrderLine{
		ID:          uuid.New(),
		PayoutID:    payoutID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		GrossAmount: order.PendingAmount,
		Commission:  order.PlatformCommission,
		SettledAt:   time.Now(),
	}
}

// PayoutRecord represents a disbursement of pending seller earnings.
// A payout always settles orders of exactly one seller; batches mixing
// sellers are rejected at construction.
type PayoutRecord struct {
	shared.TenantAggregateRoot
	PayoutNumber   string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_payouts_tenant_number,priority:2"`
	SellerID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	SellerName     string               `gorm:"type:varchar(200);not null"`
	GrossAmount    decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // Sum of settled pending amounts
	Commission     decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // Platform fee across the batch
	NetAmount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // GrossAmount paid out to the seller
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	BankReference  string               `gorm:"type:varchar(100);not null"`
	Notes          string               `gorm:"type:text"`
	IdempotencyKey string               `gorm:"type:varchar(128);not null;uniqueIndex:idx_payouts_tenant_idem,priority:2"`
	Status         PayoutStatus         `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	OrderLines     []PayoutOrderLine    `gorm:"foreignKey:PayoutID;references:ID"`
	ProcessedAt    *time.Time
	ProcessedBy    *uuid.UUID `gorm:"type:uuid"`
	FailureReason  string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PayoutRecord) TableName() string {
	return "payout_records"
}

// NewPayoutRecord creates a payout record for a batch of eligible orders.
// The gross amount is the sum of the orders' pending amounts as they stand
// at the moment of the call.
func NewPayoutRecord(
	tenantID uuid.UUID,
	payoutNumber string,
	orders []*Order,
	bankReference string,
	notes string,
	idempotencyKey string,
) (*PayoutRecord, error) {
	if payoutNumber == "" {
		return nil, shared.NewDomainError("INVALID_PAYOUT_NUMBER", "Payout number cannot be empty")
	}
	if len(orders) == 0 {
		return nil, shared.NewDomainError("EMPTY_BATCH", "Payout batch must contain at least one order")
	}
	if bankReference == "" {
		return nil, shared.NewDomainError("BANK_REFERENCE_REQUIRED", "Bank reference cannot be empty")
	}
	if len(bankReference) > 100 {
		return nil, shared.NewDomainError("INVALID_BANK_REFERENCE", "Bank reference cannot exceed 100 characters")
	}
	if idempotencyKey == "" {
		return nil, shared.NewDomainError("IDEMPOTENCY_KEY_REQUIRED", "Idempotency key cannot be empty")
	}

	sellerID := orders[0].SellerID
	sellerName := orders[0].SellerName
	currency := orders[0].Currency
	gross := decimal.Zero
	commission := decimal.Zero

	for _, o := range orders {
		if o.SellerID != sellerID {
			return nil, shared.NewDomainError("MIXED_SELLER_BATCH", "Payout batch cannot span multiple sellers")
		}
		if o.Currency != currency {
			return nil, shared.NewDomainError("CURRENCY_MISMATCH", "Payout batch cannot mix currencies")
		}
		if !o.IsEligibleForPayout() {
			return nil, shared.NewDomainError("ORDER_NOT_ELIGIBLE", fmt.Sprintf("Order %s is not eligible for payout", o.OrderNumber))
		}
		gross = gross.Add(o.PendingAmount)
		commission = commission.Add(o.PlatformCommission)
	}

	p := &PayoutRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PayoutNumber:        payoutNumber,
		SellerID:            sellerID,
		SellerName:          sellerName,
		GrossAmount:         gross,
		Commission:          commission,
		NetAmount:           gross,
		Currency:            currency,
		BankReference:       bankReference,
		Notes:               notes,
		IdempotencyKey:      idempotencyKey,
		Status:              PayoutStatusPending,
		OrderLines:          make([]PayoutOrderLine, 0, len(orders)),
	}

	for _, o := range orders {
		p.OrderLines = append(p.OrderLines, *NewPayoutOrderLine(p.ID, o))
	}

	p.AddDomainEvent(NewPayoutCreatedEvent(p))

	return p, nil
}

// Complete marks the payout as disbursed. Completed payouts are immutable.
func (p *PayoutRecord) Complete(processedBy uuid.UUID) error {
	if !p.Status.CanComplete() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete payout in %s status", p.Status))
	}
	if processedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Processing user ID is required")
	}

	now := time.Now()
	p.Status = PayoutStatusCompleted
	p.ProcessedAt = &now
	p.ProcessedBy = &processedBy
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPayoutCompletedEvent(p))

	return nil
}

// Freeze holds the payout back pending review
func (p *PayoutRecord) Freeze(reason string) error {
	if !p.Status.CanFreeze() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot freeze payout in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Freeze reason is required")
	}

	p.Status = PayoutStatusFrozen
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPayoutFrozenEvent(p))

	return nil
}

// Fail marks the payout as failed
func (p *PayoutRecord) Fail(reason string) error {
	if !p.Status.CanFail() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail payout in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Failure reason is required")
	}

	p.Status = PayoutStatusFailed
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPayoutFailedEvent(p))

	return nil
}

// MarkProcessing moves a pending payout into the in-flight state
func (p *PayoutRecord) MarkProcessing() error {
	if p.Status != PayoutStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start processing payout in %s status", p.Status))
	}

	p.Status = PayoutStatusProcessing
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// GetGrossAmountMoney returns the gross amount as Money
func (p *PayoutRecord) GetGrossAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.GrossAmount, p.Currency)
	return m
}

// GetNetAmountMoney returns the net amount as Money
func (p *PayoutRecord) GetNetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(p.NetAmount, p.Currency)
	return m
}

// OrderCount returns the number of orders settled by this payout
func (p *PayoutRecord) OrderCount() int {
	return len(p.OrderLines)
}

// OrderIDs returns the IDs of the orders settled by this payout
func (p *PayoutRecord) OrderIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.OrderLines))
	for _, line := range p.OrderLines {
		ids = append(ids, line.OrderID)
	}
	return ids
}

// IsCompleted returns true if the payout has been disbursed
func (p *PayoutRecord) IsCompleted() bool {
	return p.Status == PayoutStatusCompleted
}
