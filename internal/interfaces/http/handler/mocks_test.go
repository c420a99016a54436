package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/marketplace/backend/internal/application/payout"
	"github.com/marketplace/backend/internal/domain/accounting"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/ledger"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// setAuthClaims simulates a request that passed the JWT middleware
func setAuthClaims(c *gin.Context, tenantID, sellerID uuid.UUID, role string) {
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		TenantID:  tenantID.String(),
		SellerID:  sellerID.String(),
		Role:      role,
		TokenType: auth.TokenTypeAccess,
	}
	c.Set(middleware.JWTClaimsKey, claims)
	c.Set(middleware.JWTSellerIDKey, claims.SellerID)
	c.Set(middleware.JWTTenantIDKey, claims.TenantID)
	c.Set(middleware.JWTRoleKey, claims.Role)
}

// ===== MockSellerRepository =====

type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Seller), args.Error(1)
}

func (m *MockSellerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Seller, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Seller), args.Error(1)
}

func (m *MockSellerRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.Seller, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Seller), args.Error(1)
}

func (m *MockSellerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter identity.SellerFilter) ([]identity.Seller, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Seller), args.Error(1)
}

func (m *MockSellerRepository) Save(ctx context.Context, seller *identity.Seller) error {
	args := m.Called(ctx, seller)
	return args.Error(0)
}

func (m *MockSellerRepository) SaveWithLock(ctx context.Context, seller *identity.Seller) error {
	args := m.Called(ctx, seller)
	return args.Error(0)
}

func (m *MockSellerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter identity.SellerFilter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSellerRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

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

// ===== stubUnitOfWork =====

// stubUnitOfWork runs the callback immediately against the given repos
type stubUnitOfWork struct {
	orders  ledger.OrderRepository
	payouts ledger.PayoutRepository
	entries accounting.LedgerRepository
}

func (u *stubUnitOfWork) WithinTransaction(ctx context.Context, fn func(repos payout.TxRepos) error) error {
	return fn(payout.TxRepos{Orders: u.orders, Payouts: u.payouts, Entries: u.entries})
}

// ===== noopIdempotencyStore =====

// noopIdempotencyStore always reports the key as fresh
type noopIdempotencyStore struct{}

func (noopIdempotencyStore) MarkProcessed(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

func (noopIdempotencyStore) IsProcessed(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (noopIdempotencyStore) Release(_ context.Context, _ string) error { return nil }

func (noopIdempotencyStore) Close() error { return nil }

var _ shared.IdempotencyStore = noopIdempotencyStore{}
