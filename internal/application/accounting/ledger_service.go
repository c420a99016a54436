package accounting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/accounting"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerService manages a seller's accounting ledger: listing entries,
// capturing manual expenses, and computing the monthly profit and loss.
type LedgerService struct {
	ledgerRepo accounting.LedgerRepository
	logger     *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledgerRepo accounting.LedgerRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo, logger: logger}
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID          uuid.UUID       `json:"id"`
	EntryDate   time.Time       `json:"entry_date"`
	EntryType   string          `json:"entry_type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Reference   string          `json:"reference,omitempty"`
	TaxCategory string          `json:"tax_category"`
	ReceiptRef  string          `json:"receipt_ref,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ListLedgerRequest defines filtering options for ledger listing
type ListLedgerRequest struct {
	EntryType *accounting.EntryType
	FromDate  *time.Time
	ToDate    *time.Time
	Page      int
	PageSize  int
}

// AddExpenseRequest captures a manual expense entered by the seller
type AddExpenseRequest struct {
	TenantID    uuid.UUID
	SellerID    uuid.UUID
	EntryDate   time.Time
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	ReceiptRef  string
}

// RecordRefundRequest reverses part of a seller's settled sales
type RecordRefundRequest struct {
	TenantID    uuid.UUID
	SellerID    uuid.UUID
	EntryDate   time.Time
	Amount      decimal.Decimal
	Currency    string
	Description string
	Reference   string
}

// MonthlySummaryResponse is the profit and loss view for one month
type MonthlySummaryResponse struct {
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalRefunds     decimal.Decimal `json:"total_refunds"`
	NetSales         decimal.Decimal `json:"net_sales"`
	TotalCommissions decimal.Decimal `json:"total_commissions"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	EntryCount       int64           `json:"entry_count"`
}

// ListLedger returns a page of the seller's ledger entries, newest first
func (s *LedgerService) ListLedger(ctx context.Context, tenantID, sellerID uuid.UUID, req ListLedgerRequest) (*shared.Paginated[LedgerEntryResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	filter := accounting.LedgerFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  "entry_date",
			OrderDir: "desc",
		},
		EntryType: req.EntryType,
		FromDate:  req.FromDate,
		ToDate:    req.ToDate,
	}

	entries, err := s.ledgerRepo.FindBySeller(ctx, tenantID, sellerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	total, err := s.ledgerRepo.CountBySeller(ctx, tenantID, sellerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	responses := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, toLedgerEntryResponse(&entries[i]))
	}

	result := shared.NewPaginated(responses, total, req.Page, req.PageSize)
	return &result, nil
}

// AddExpense appends a manual expense entry to the seller's ledger
func (s *LedgerService) AddExpense(ctx context.Context, req AddExpenseRequest) (*LedgerEntryResponse, error) {
	amount, err := s.toMoney(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}

	entryDate := req.EntryDate
	if entryDate.IsZero() {
		entryDate = time.Now()
	}
	if entryDate.After(time.Now().Add(24 * time.Hour)) {
		return nil, shared.NewDomainError("INVALID_ENTRY_DATE", "Expense date cannot be in the future")
	}

	category := accounting.ExpenseCategory(strings.ToUpper(strings.TrimSpace(req.Category)))

	entry, err := accounting.NewExpenseEntry(req.TenantID, req.SellerID, entryDate, amount, category, req.Description, req.ReceiptRef)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.logger.Info("expense recorded",
		zap.String("seller_id", req.SellerID.String()),
		zap.String("category", category.String()),
		zap.String("amount", req.Amount.String()))

	resp := toLedgerEntryResponse(entry)
	return &resp, nil
}

// RecordRefund appends a refund entry reversing settled sales
func (s *LedgerService) RecordRefund(ctx context.Context, req RecordRefundRequest) (*LedgerEntryResponse, error) {
	amount, err := s.toMoney(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}

	entryDate := req.EntryDate
	if entryDate.IsZero() {
		entryDate = time.Now()
	}

	entry, err := accounting.NewRefundEntry(req.TenantID, req.SellerID, entryDate, amount, req.Description, req.Reference)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save refund: %w", err)
	}

	resp := toLedgerEntryResponse(entry)
	return &resp, nil
}

// MonthlySummary computes the seller's profit and loss for one month.
// Net profit is net sales minus commissions and expenses.
func (s *LedgerService) MonthlySummary(ctx context.Context, tenantID, sellerID uuid.UUID, year int, month time.Month) (*MonthlySummaryResponse, error) {
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Year must be between 2000 and 2100")
	}
	if month < time.January || month > time.December {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}

	totals, err := s.ledgerRepo.SumByTypeForMonth(ctx, tenantID, sellerID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly totals: %w", err)
	}

	netSales := totals.TotalSales.Sub(totals.TotalRefunds)
	netProfit := netSales.Sub(totals.TotalCommissions).Sub(totals.TotalExpenses)

	return &MonthlySummaryResponse{
		Year:             year,
		Month:            int(month),
		TotalSales:       totals.TotalSales,
		TotalRefunds:     totals.TotalRefunds,
		NetSales:         netSales,
		TotalCommissions: totals.TotalCommissions,
		TotalExpenses:    totals.TotalExpenses,
		NetProfit:        netProfit,
		EntryCount:       totals.EntryCount,
	}, nil
}

func (s *LedgerService) toMoney(amount decimal.Decimal, currency string) (valueobject.Money, error) {
	if currency == "" {
		currency = string(valueobject.DefaultCurrency)
	}
	return valueobject.NewMoney(amount, valueobject.Currency(strings.ToUpper(currency)))
}

func toLedgerEntryResponse(e *accounting.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:          e.ID,
		EntryDate:   e.EntryDate,
		EntryType:   e.EntryType.String(),
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		Currency:    string(e.Currency),
		Reference:   e.Reference,
		TaxCategory: e.TaxCategory.String(),
		ReceiptRef:  e.ReceiptRef,
		CreatedAt:   e.CreatedAt,
	}
}
