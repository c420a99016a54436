package payout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/accounting"
	"github.com/marketplace/backend/internal/domain/ledger"
	"github.com/stretchr/testify/mock"
)

// ===== MockOrderRepository =====

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.Order, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*ledger.Order, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.OrderFilter) ([]ledger.Order, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Order), args.Error(1)
}

func (m *MockOrderRepository) FindEligibleForPayout(ctx context.Context, tenantID uuid.UUID, sellerID *uuid.UUID) ([]ledger.Order, error) {
	args := m.Called(ctx, tenantID, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ledger.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *ledger.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.OrderFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) SumPendingBySeller(ctx context.Context, tenantID uuid.UUID) ([]ledger.SellerPendingTotal, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.SellerPendingTotal), args.Error(1)
}

func (m *MockOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// ===== MockPayoutRepository =====

type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PayoutRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PayoutRecord), args.Error(1)
}

func (m *MockPayoutRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.PayoutRecord, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PayoutRecord), args.Error(1)
}

func (m *MockPayoutRepository) FindByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (*ledger.PayoutRecord, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PayoutRecord), args.Error(1)
}

func (m *MockPayoutRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.PayoutFilter) ([]ledger.PayoutRecord, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.PayoutRecord), args.Error(1)
}

func (m *MockPayoutRepository) Save(ctx context.Context, payout *ledger.PayoutRecord) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPayoutRepository) SaveWithLock(ctx context.Context, payout *ledger.PayoutRecord) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPayoutRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.PayoutFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPayoutRepository) SummaryForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.PayoutFilter) (*ledger.PayoutSummary, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.PayoutSummary), args.Error(1)
}

func (m *MockPayoutRepository) ExistsByIdempotencyKey(ctx context.Context, tenantID uuid.UUID, key string) (bool, error) {
	args := m.Called(ctx, tenantID, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockPayoutRepository) GeneratePayoutNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

// ===== MockLedgerRepository =====

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

// ===== MockUnitOfWork =====

// MockUnitOfWork runs the callback immediately against the given repos,
// so service tests exercise the full transactional body.
type MockUnitOfWork struct {
	Repos   TxRepos
	FailErr error
}

func (m *MockUnitOfWork) WithinTransaction(ctx context.Context, fn func(repos TxRepos) error) error {
	if m.FailErr != nil {
		return m.FailErr
	}
	return fn(m.Repos)
}

// ===== MockIdempotencyStore =====

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// claimTrackingStore is a SET-NX-shaped stand-in: the first claim on a
// key wins, later claims report a duplicate until the key is released.
type claimTrackingStore struct {
	claims map[string]bool
}

func (s *claimTrackingStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	if s.claims[key] {
		return false, nil
	}
	s.claims[key] = true
	return true, nil
}

func (s *claimTrackingStore) IsProcessed(_ context.Context, key string) (bool, error) {
	return s.claims[key], nil
}

func (s *claimTrackingStore) Release(_ context.Context, key string) error {
	delete(s.claims, key)
	return nil
}

func (s *claimTrackingStore) Close() error { return nil }
