package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry
type EntryType string

const (
	EntryTypeSale       EntryType = "SALE"       // Income from a settled order
	EntryTypeExpense    EntryType = "EXPENSE"    // Operating cost
	EntryTypeCommission EntryType = "COMMISSION" // Platform fee withheld
	EntryTypeRefund     EntryType = "REFUND"     // Returned sale income
)

// IsValid checks if the type is a valid EntryType
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeSale, EntryTypeExpense, EntryTypeCommission, EntryTypeRefund:
		return true
	}
	return false
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// SignIsNegative returns true for entry types that carry negative amounts
func (t EntryType) SignIsNegative() bool {
	return t == EntryTypeExpense || t == EntryTypeCommission || t == EntryTypeRefund
}

// ExpenseCategory represents the category of a manual expense
type ExpenseCategory string

const (
	ExpenseCategoryRent      ExpenseCategory = "RENT"
	ExpenseCategoryTransport ExpenseCategory = "TRANSPORT"
	ExpenseCategoryPackaging ExpenseCategory = "PACKAGING"
	ExpenseCategoryAirtime   ExpenseCategory = "AIRTIME"
	ExpenseCategoryWages     ExpenseCategory = "WAGES"
	ExpenseCategoryStock     ExpenseCategory = "STOCK"
	ExpenseCategoryBankFees  ExpenseCategory = "BANK_FEES"
	ExpenseCategoryOther     ExpenseCategory = "OTHER"
)

// IsValid checks if the category is a valid ExpenseCategory
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseCategoryRent, ExpenseCategoryTransport, ExpenseCategoryPackaging,
		ExpenseCategoryAirtime, ExpenseCategoryWages, ExpenseCategoryStock,
		ExpenseCategoryBankFees, ExpenseCategoryOther:
		return true
	}
	return false
}

// String returns the string representation of ExpenseCategory
func (c ExpenseCategory) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the category
func (c ExpenseCategory) DisplayName() string {
	switch c {
	case ExpenseCategoryRent:
		return "Rent"
	case ExpenseCategoryTransport:
		return "Transport"
	case ExpenseCategoryPackaging:
		return "Packaging"
	case ExpenseCategoryAirtime:
		return "Airtime & Data"
	case ExpenseCategoryWages:
		return "Wages"
	case ExpenseCategoryStock:
		return "Stock Purchases"
	case ExpenseCategoryBankFees:
		return "Bank Charges"
	case ExpenseCategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

// TaxCategory classifies an entry for tax reporting
type TaxCategory string

const (
	TaxCategoryStandard TaxCategory = "STANDARD" // Standard rated
	TaxCategoryZero     TaxCategory = "ZERO"     // Zero rated
	TaxCategoryExempt   TaxCategory = "EXEMPT"   // Exempt supply
)

// IsValid checks if the category is a valid TaxCategory
func (c TaxCategory) IsValid() bool {
	switch c {
	case TaxCategoryStandard, TaxCategoryZero, TaxCategoryExempt:
		return true
	}
	return false
}

// String returns the string representation of TaxCategory
func (c TaxCategory) String() string {
	return string(c)
}

// LedgerEntry is one line in a seller's accounting ledger. Entries are
// append-only: once written they are never updated or deleted. Amounts
// are signed, positive for SALE and negative for EXPENSE, COMMISSION
// and REFUND.
type LedgerEntry struct {
	shared.BaseEntity
	TenantID    uuid.UUID            `gorm:"type:uuid;not null;index:idx_ledger_tenant_seller,priority:1"`
	SellerID    uuid.UUID            `gorm:"type:uuid;not null;index:idx_ledger_tenant_seller,priority:2"`
	EntryDate   time.Time            `gorm:"not null;index"`
	EntryType   EntryType            `gorm:"type:varchar(20);not null;index"`
	Category    string               `gorm:"type:varchar(50);not null"`
	Description string               `gorm:"type:varchar(500);not null"`
	Amount      decimal.Decimal      `gorm:"type:decimal(18,4);not null"` // Signed
	Currency    valueobject.Currency `gorm:"type:varchar(3);not null;default:'USD'"`
	Reference   string               `gorm:"type:varchar(100)"` // Order or payout number
	TaxCategory TaxCategory          `gorm:"type:varchar(20);not null;default:'STANDARD'"`
	ReceiptRef  string               `gorm:"type:varchar(100)"` // Manual expenses only
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewSaleEntry records income from a settled order batch
func NewSaleEntry(tenantID, sellerID uuid.UUID, entryDate time.Time, amount valueobject.Money, description, reference string) (*LedgerEntry, error) {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Sale amount must be positive")
	}
	return newEntry(tenantID, sellerID, entryDate, EntryTypeSale, "SALES", description, amount.Amount(), amount.Currency(), reference, TaxCategoryStandard, "")
}

// NewCommissionEntry records the platform fee withheld from a payout
func NewCommissionEntry(tenantID, sellerID uuid.UUID, entryDate time.Time, amount valueobject.Money, description, reference string) (*LedgerEntry, error) {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Commission amount must be positive")
	}
	return newEntry(tenantID, sellerID, entryDate, EntryTypeCommission, "PLATFORM_FEES", description, amount.Amount().Neg(), amount.Currency(), reference, TaxCategoryStandard, "")
}

// NewRefundEntry records a refunded sale
func NewRefundEntry(tenantID, sellerID uuid.UUID, entryDate time.Time, amount valueobject.Money, description, reference string) (*LedgerEntry, error) {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	return newEntry(tenantID, sellerID, entryDate, EntryTypeRefund, "REFUNDS", description, amount.Amount().Neg(), amount.Currency(), reference, TaxCategoryStandard, "")
}

// NewExpenseEntry records a manual operating expense captured by the seller
func NewExpenseEntry(tenantID, sellerID uuid.UUID, entryDate time.Time, amount valueobject.Money, category ExpenseCategory, description, receiptRef string) (*LedgerEntry, error) {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category is not valid")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Expense description cannot be empty")
	}
	return newEntry(tenantID, sellerID, entryDate, EntryTypeExpense, category.String(), description, amount.Amount().Neg(), amount.Currency(), "", TaxCategoryStandard, receiptRef)
}

func newEntry(
	tenantID, sellerID uuid.UUID,
	entryDate time.Time,
	entryType EntryType,
	category string,
	description string,
	amount decimal.Decimal,
	currency valueobject.Currency,
	reference string,
	taxCategory TaxCategory,
	receiptRef string,
) (*LedgerEntry, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if entryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date is required")
	}
	if len(description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	return &LedgerEntry{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		SellerID:    sellerID,
		EntryDate:   entryDate,
		EntryType:   entryType,
		Category:    category,
		Description: description,
		Amount:      amount,
		Currency:    currency,
		Reference:   reference,
		TaxCategory: taxCategory,
		ReceiptRef:  receiptRef,
	}, nil
}

// GetAmountMoney returns the signed amount as Money
func (e *LedgerEntry) GetAmountMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(e.Amount, e.Currency)
	return m
}

// IsIncome returns true for entries that add to the seller's income
func (e *LedgerEntry) IsIncome() bool {
	return e.EntryType == EntryTypeSale
}
