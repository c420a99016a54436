package accounting

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/accounting"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Corporate income tax rate including the AIDS levy, per the ZIMRA
// rate effective for the 2020 year of assessment onward (24% + 3%).
var zimraCorporateRate = decimal.NewFromFloat(0.2472)

// Sage Pastel general ledger accounts used in CSV exports
const (
	sageAccountSales      = "1000/000"
	sageAccountFees       = "2200/000"
	sageAccountExpenses   = "3100/000"
	sageAccountRefunds    = "1050/000"
	sageTaxTypeStandard   = "01"
	sageTaxTypeZeroExempt = "00"
)

// ExportService renders a seller's ledger in formats their accountant
// or the revenue authority can consume.
type ExportService struct {
	ledgerRepo accounting.LedgerRepository
	logger     *zap.Logger
}

// NewExportService creates a new ExportService
func NewExportService(ledgerRepo accounting.LedgerRepository, logger *zap.Logger) *ExportService {
	return &ExportService{ledgerRepo: ledgerRepo, logger: logger}
}

// ExportPeriod identifies the month being exported
type ExportPeriod struct {
	SellerID     uuid.UUID
	BusinessName string
	Year         int
	Month        time.Month
}

func (p ExportPeriod) validate() error {
	if p.SellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if p.Year < 2000 || p.Year > 2100 {
		return shared.NewDomainError("INVALID_PERIOD", "Year must be between 2000 and 2100")
	}
	if p.Month < time.January || p.Month > time.December {
		return shared.NewDomainError("INVALID_PERIOD", "Month must be between 1 and 12")
	}
	return nil
}

// ExportRange identifies an arbitrary span of entry dates being
// exported. From is inclusive, To exclusive.
type ExportRange struct {
	SellerID     uuid.UUID
	BusinessName string
	From         time.Time
	To           time.Time
}

func (r ExportRange) validate() error {
	if r.SellerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if r.From.IsZero() || r.To.IsZero() {
		return shared.NewDomainError("INVALID_PERIOD", "Export range requires both from and to dates")
	}
	if !r.To.After(r.From) {
		return shared.NewDomainError("INVALID_PERIOD", "Export range end must fall after its start")
	}
	return nil
}

// lastDay is the final calendar day the range covers, for filenames
// and display labels.
func (r ExportRange) lastDay() time.Time {
	return r.To.AddDate(0, 0, -1)
}

// SagePastelCSV renders a date range of ledger entries as a Sage
// Pastel general journal import file
func (s *ExportService) SagePastelCSV(ctx context.Context, tenantID uuid.UUID, rng ExportRange) ([]byte, string, error) {
	if err := rng.validate(); err != nil {
		return nil, "", err
	}

	entries, err := s.ledgerRepo.FindByDateRange(ctx, tenantID, rng.SellerID, rng.From, rng.To)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load entries for export: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Period", "Date", "GDC", "AccountNumber", "Reference", "Description", "Amount", "TaxType"}); err != nil {
		return nil, "", fmt.Errorf("failed to write export header: %w", err)
	}

	for i := range entries {
		e := &entries[i]
		record := []string{
			// Sage period column follows the entry's own month so a
			// multi-month range still imports into the right periods.
			fmt.Sprintf("%02d", int(e.EntryDate.Month())),
			e.EntryDate.Format("02/01/2006"),
			sageGDC(e),
			sageAccount(e),
			csvReference(e),
			e.Description,
			e.Amount.Abs().StringFixed(2),
			sageTaxType(e),
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush export: %w", err)
	}

	s.logger.Info("sage pastel export generated",
		zap.String("seller_id", rng.SellerID.String()),
		zap.Time("from", rng.From),
		zap.Time("to", rng.To),
		zap.Int("entries", len(entries)))

	filename := fmt.Sprintf("sage-pastel-%s-%s.csv",
		rng.From.Format("20060102"), rng.lastDay().Format("20060102"))
	return buf.Bytes(), filename, nil
}

// ZIMRAReport renders a plain-text monthly tax summary small sellers
// can attach to their revenue authority filing
func (s *ExportService) ZIMRAReport(ctx context.Context, tenantID uuid.UUID, period ExportPeriod) ([]byte, string, error) {
	if err := period.validate(); err != nil {
		return nil, "", err
	}

	totals, err := s.ledgerRepo.SumByTypeForMonth(ctx, tenantID, period.SellerID, period.Year, period.Month)
	if err != nil {
		return nil, "", fmt.Errorf("failed to aggregate totals for report: %w", err)
	}

	netSales := totals.TotalSales.Sub(totals.TotalRefunds)
	deductions := totals.TotalCommissions.Add(totals.TotalExpenses)
	taxableIncome := netSales.Sub(deductions)
	estimatedTax := decimal.Zero
	if taxableIncome.IsPositive() {
		estimatedTax = taxableIncome.Mul(zimraCorporateRate).Round(2)
	}

	var b strings.Builder
	line := strings.Repeat("=", 58)
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b, "ZIMBABWE REVENUE AUTHORITY (ZIMRA)")
	fmt.Fprintln(&b, "MONTHLY INCOME AND EXPENDITURE SUMMARY")
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Trading Name:    %s\n", period.BusinessName)
	fmt.Fprintf(&b, "Period:          %s %d\n", period.Month.String(), period.Year)
	fmt.Fprintf(&b, "Generated:       %s\n", time.Now().UTC().Format("02 January 2006"))
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Gross Sales:               USD %14s\n", totals.TotalSales.StringFixed(2))
	fmt.Fprintf(&b, "Less Refunds:              USD %14s\n", totals.TotalRefunds.StringFixed(2))
	fmt.Fprintf(&b, "Net Sales:                 USD %14s\n", netSales.StringFixed(2))
	fmt.Fprintln(&b, strings.Repeat("-", 58))
	fmt.Fprintf(&b, "Platform Commissions:      USD %14s\n", totals.TotalCommissions.StringFixed(2))
	fmt.Fprintf(&b, "Operating Expenses:        USD %14s\n", totals.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&b, "Total Deductions:          USD %14s\n", deductions.StringFixed(2))
	fmt.Fprintln(&b, strings.Repeat("-", 58))
	fmt.Fprintf(&b, "Taxable Income:            USD %14s\n", taxableIncome.StringFixed(2))
	fmt.Fprintf(&b, "Estimated Tax (%s%%):    USD %14s\n", zimraCorporateRate.Mul(decimal.NewFromInt(100)).StringFixed(2), estimatedTax.StringFixed(2))
	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Ledger entries in period: %d\n", totals.EntryCount)
	fmt.Fprintln(&b, "This summary is generated from the seller ledger and is")
	fmt.Fprintln(&b, "not a substitute for a formal ITF12C self-assessment.")

	filename := fmt.Sprintf("zimra-summary-%04d-%02d.txt", period.Year, int(period.Month))
	return []byte(b.String()), filename, nil
}

// LedgerXLSX renders a date range of ledger entries as a spreadsheet
// with a detail sheet and a summary sheet
func (s *ExportService) LedgerXLSX(ctx context.Context, tenantID uuid.UUID, rng ExportRange) ([]byte, string, error) {
	if err := rng.validate(); err != nil {
		return nil, "", err
	}

	entries, err := s.ledgerRepo.FindByDateRange(ctx, tenantID, rng.SellerID, rng.From, rng.To)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load entries for export: %w", err)
	}

	totals := accounting.TotalsFromEntries(entries)

	f := excelize.NewFile()
	defer f.Close()

	const detailSheet = "Ledger"
	index, err := f.NewSheet(detailSheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create ledger sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Date", "Type", "Category", "Description", "Reference", "Amount", "Currency", "Tax"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(detailSheet, cell, h)
	}

	for i := range entries {
		e := &entries[i]
		row := i + 2
		f.SetCellValue(detailSheet, fmt.Sprintf("A%d", row), e.EntryDate.Format("02/01/2006"))
		f.SetCellValue(detailSheet, fmt.Sprintf("B%d", row), e.EntryType.String())
		f.SetCellValue(detailSheet, fmt.Sprintf("C%d", row), e.Category)
		f.SetCellValue(detailSheet, fmt.Sprintf("D%d", row), e.Description)
		f.SetCellValue(detailSheet, fmt.Sprintf("E%d", row), csvReference(e))
		amount, _ := e.Amount.Float64()
		f.SetCellValue(detailSheet, fmt.Sprintf("F%d", row), amount)
		f.SetCellValue(detailSheet, fmt.Sprintf("G%d", row), string(e.Currency))
		f.SetCellValue(detailSheet, fmt.Sprintf("H%d", row), e.TaxCategory.String())
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, "", fmt.Errorf("failed to create summary sheet: %w", err)
	}

	netSales := totals.TotalSales.Sub(totals.TotalRefunds)
	netProfit := netSales.Sub(totals.TotalCommissions).Sub(totals.TotalExpenses)
	summaryRows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Gross Sales", totals.TotalSales},
		{"Refunds", totals.TotalRefunds},
		{"Net Sales", netSales},
		{"Platform Commissions", totals.TotalCommissions},
		{"Operating Expenses", totals.TotalExpenses},
		{"Net Profit", netProfit},
	}
	f.SetCellValue(summarySheet, "A1", fmt.Sprintf("%s to %s",
		rng.From.Format("02/01/2006"), rng.lastDay().Format("02/01/2006")))
	for i, r := range summaryRows {
		row := i + 2
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), r.label)
		v, _ := r.value.Float64()
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), v)
	}

	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render spreadsheet: %w", err)
	}

	filename := fmt.Sprintf("ledger-%s-%s.xlsx",
		rng.From.Format("20060102"), rng.lastDay().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func sageGDC(e *accounting.LedgerEntry) string {
	if e.IsIncome() {
		return "C"
	}
	return "D"
}

func sageAccount(e *accounting.LedgerEntry) string {
	switch e.EntryType {
	case accounting.EntryTypeSale:
		return sageAccountSales
	case accounting.EntryTypeCommission:
		return sageAccountFees
	case accounting.EntryTypeRefund:
		return sageAccountRefunds
	default:
		return sageAccountExpenses
	}
}

func sageTaxType(e *accounting.LedgerEntry) string {
	if e.TaxCategory == accounting.TaxCategoryStandard {
		return sageTaxTypeStandard
	}
	return sageTaxTypeZeroExempt
}

func csvReference(e *accounting.LedgerEntry) string {
	if e.Reference != "" {
		return e.Reference
	}
	return e.ReceiptRef
}
