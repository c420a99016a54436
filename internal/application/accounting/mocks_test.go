package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/accounting"
	"github.com/stretchr/testify/mock"
)

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, entry *accounting.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) CreateBatch(ctx context.Context, entries []*accounting.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*accounting.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindBySeller(ctx context.Context, tenantID, sellerID uuid.UUID, filter accounting.LedgerFilter) ([]accounting.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CountBySeller(ctx context.Context, tenantID, sellerID uuid.UUID, filter accounting.LedgerFilter) (int64, error) {
	args := m.Called(ctx, tenantID, sellerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) SumByTypeForMonth(ctx context.Context, tenantID, sellerID uuid.UUID, year int, month time.Month) (*accounting.MonthlyTotals, error) {
	args := m.Called(ctx, tenantID, sellerID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.MonthlyTotals), args.Error(1)
}

func (m *MockLedgerRepository) FindByDateRange(ctx context.Context, tenantID, sellerID uuid.UUID, from, to time.Time) ([]accounting.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, sellerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.LedgerEntry), args.Error(1)
}
