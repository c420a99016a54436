package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/application/payout"
	"github.com/marketplace/backend/internal/domain/ledger"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

type payoutHandlerFixture struct {
	orderRepo  *MockOrderRepository
	payoutRepo *MockPayoutRepository
	ledgerRepo *MockLedgerRepository
	handler    *PayoutHandler
}

func newPayoutHandlerFixture() *payoutHandlerFixture {
	orderRepo := new(MockOrderRepository)
	payoutRepo := new(MockPayoutRepository)
	ledgerRepo := new(MockLedgerRepository)

	uow := &stubUnitOfWork{orders: orderRepo, payouts: payoutRepo, entries: ledgerRepo}
	processor := payout.NewProcessorService(
		payoutRepo, uow, noopIdempotencyStore{}, shared.DefaultIdempotencyConfig(), zap.NewNop())

	return &payoutHandlerFixture{
		orderRepo:  orderRepo,
		payoutRepo: payoutRepo,
		ledgerRepo: ledgerRepo,
		handler: NewPayoutHandler(
			payout.NewPendingService(orderRepo),
			processor,
			payout.NewHistoryService(payoutRepo),
		),
	}
}

// newEligibleOrder builds a delivered order awaiting payout
func newEligibleOrder(t *testing.T, tenantID, sellerID uuid.UUID, orderNumber, paid, commission string) *ledger.Order {
	t.Helper()

	paidAmount, err := valueobject.NewMoneyUSDFromString(paid)
	require.NoError(t, err)
	fee, err := valueobject.NewMoneyUSDFromString(commission)
	require.NoError(t, err)

	order, err := ledger.NewOrder(tenantID, orderNumber, sellerID, "Harare Electronics", uuid.New(), 2, paidAmount, fee)
	require.NoError(t, err)
	require.NoError(t, order.ConfirmPayment(time.Now().Add(-72*time.Hour)))
	require.NoError(t, order.MarkDelivered(time.Now().Add(-24*time.Hour)))
	require.True(t, order.IsEligibleForPayout())
	return order
}

func TestPayoutHandlerListPending(t *testing.T) {
	tenantID := uuid.New()
	sellerID := uuid.New()

	t.Run("groups eligible orders by seller with platform totals", func(t *testing.T) {
		f := newPayoutHandlerFixture()

		o1 := newEligibleOrder(t, tenantID, sellerID, "ORD-001", "100.00", "10.00")
		o2 := newEligibleOrder(t, tenantID, sellerID, "ORD-002", "50.00", "5.00")

		f.orderRepo.On("SumPendingBySeller", mock.Anything, tenantID).Return([]ledger.SellerPendingTotal{
			{
				SellerID:      sellerID,
				SellerName:    "Harare Electronics",
				OrderCount:    2,
				PendingTotal:  decimal.RequireFromString("135.00"),
				CommissionSum: decimal.RequireFromString("15.00"),
			},
		}, nil)
		f.orderRepo.On("FindEligibleForPayout", mock.Anything, tenantID, (*uuid.UUID)(nil)).
			Return([]ledger.Order{*o1, *o2}, nil)

		w, resp := performJSON(t, f.handler.ListPending, "GET", "/admin/payouts/pending", nil, func(c *gin.Context) {
			setAuthClaims(c, tenantID, uuid.New(), "ADMIN")
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		summary := data["summary"].(map[string]interface{})
		assert.Equal(t, float64(1), summary["total_sellers"])
		assert.Equal(t, float64(2), summary["total_orders"])
		assert.Equal(t, "135", summary["total_pending_payouts"])
		assert.Equal(t, "15", summary["total_platform_fee"])

		groups := data["groups"].([]interface{})
		require.Len(t, groups, 1)
		group := groups[0].(map[string]interface{})
		assert.Equal(t, "Harare Electronics", group["seller_name"])
		assert.Len(t, group["orders"].([]interface{}), 2)
	})

	t.Run("returns empty groups when nothing is owed", func(t *testing.T) {
		f := newPayoutHandlerFixture()
		f.orderRepo.On("SumPendingBySeller", mock.Anything, tenantID).Return([]ledger.SellerPendingTotal{}, nil)
		f.orderRepo.On("FindEligibleForPayout", mock.Anything, tenantID, (*uuid.UUID)(nil)).
			Return([]ledger.Order{}, nil)

		w, resp := performJSON(t, f.handler.ListPending, "GET", "/admin/payouts/pending", nil, func(c *gin.Context) {
			setAuthClaims(c, tenantID, uuid.New(), "ADMIN")
		})

		require.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]interface{})
		summary := data["summary"].(map[string]interface{})
		assert.Equal(t, float64(0), summary["total_sellers"])
		assert.Equal(t, "0", summary["total_pending_payouts"])
	})
}

func TestPayoutHandlerProcess(t *testing.T) {
	tenantID := uuid.New()
	sellerID := uuid.New()
	adminID := uuid.New()

	asAdmin := func(c *gin.Context) {
		setAuthClaims(c, tenantID, adminID, "ADMIN")
	}

	t.Run("settles a single-seller batch into one payout", func(t *testing.T) {
		f := newPayoutHandlerFixture()

		o1 := newEligibleOrder(t, tenantID, sellerID, "ORD-001", "100.00", "10.00")
		o2 := newEligibleOrder(t, tenantID, sellerID, "ORD-002", "50.00", "5.00")

		f.payoutRepo.On("ExistsByIdempotencyKey", mock.Anything, tenantID, mock.AnythingOfType("string")).Return(false, nil)
		f.orderRepo.On("FindByIDs", mock.Anything, tenantID, mock.AnythingOfType("[]uuid.UUID")).
			Return([]ledger.Order{*o1, *o2}, nil)
		f.payoutRepo.On("GeneratePayoutNumber", mock.Anything, tenantID).Return("PO-2026-000001", nil)
		f.payoutRepo.On("Save", mock.Anything, mock.AnythingOfType("*ledger.PayoutRecord")).Return(nil)
		f.orderRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*ledger.Order")).Return(nil).Times(2)
		f.ledgerRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*accounting.LedgerEntry")).Return(nil)

		w, resp := performJSON(t, f.handler.Process, "POST", "/admin/payouts/process", ProcessPayoutRequest{
			OrderIDs:      []uuid.UUID{o1.ID, o2.ID},
			BankReference: "CBZ-20260501-551",
			Notes:         "May settlement run",
		}, asAdmin)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "PO-2026-000001", data["payout_number"])
		assert.Equal(t, sellerID.String(), data["seller_id"])
		assert.Equal(t, "150", data["gross_amount"])
		assert.Equal(t, "15", data["commission"])
		assert.Equal(t, "135", data["net_amount"])
		assert.Equal(t, "COMPLETED", data["status"])
		assert.Len(t, data["order_lines"].([]interface{}), 2)

		f.orderRepo.AssertExpectations(t)
		f.payoutRepo.AssertExpectations(t)
		f.ledgerRepo.AssertExpectations(t)
	})

	t.Run("returns 409 for a batch that was already processed", func(t *testing.T) {
		f := newPayoutHandlerFixture()
		f.payoutRepo.On("ExistsByIdempotencyKey", mock.Anything, tenantID, mock.AnythingOfType("string")).Return(true, nil)

		w, resp := performJSON(t, f.handler.Process, "POST", "/admin/payouts/process", ProcessPayoutRequest{
			OrderIDs:      []uuid.UUID{uuid.New()},
			BankReference: "CBZ-20260501-551",
		}, asAdmin)

		require.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ALREADY_PROCESSED", resp.Error.Code)
	})

	t.Run("returns 422 for a batch spanning several sellers", func(t *testing.T) {
		f := newPayoutHandlerFixture()

		o1 := newEligibleOrder(t, tenantID, sellerID, "ORD-001", "100.00", "10.00")
		o2 := newEligibleOrder(t, tenantID, uuid.New(), "ORD-002", "50.00", "5.00")

		f.payoutRepo.On("ExistsByIdempotencyKey", mock.Anything, tenantID, mock.AnythingOfType("string")).Return(false, nil)
		f.orderRepo.On("FindByIDs", mock.Anything, tenantID, mock.AnythingOfType("[]uuid.UUID")).
			Return([]ledger.Order{*o1, *o2}, nil)
		f.payoutRepo.On("GeneratePayoutNumber", mock.Anything, tenantID).Return("PO-2026-000002", nil)

		w, resp := performJSON(t, f.handler.Process, "POST", "/admin/payouts/process", ProcessPayoutRequest{
			OrderIDs:      []uuid.UUID{o1.ID, o2.ID},
			BankReference: "CBZ-20260501-551",
		}, asAdmin)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "MIXED_SELLER_BATCH", resp.Error.Code)
	})

	t.Run("returns 404 when some orders do not exist", func(t *testing.T) {
		f := newPayoutHandlerFixture()

		o1 := newEligibleOrder(t, tenantID, sellerID, "ORD-001", "100.00", "10.00")

		f.payoutRepo.On("ExistsByIdempotencyKey", mock.Anything, tenantID, mock.AnythingOfType("string")).Return(false, nil)
		f.orderRepo.On("FindByIDs", mock.Anything, tenantID, mock.AnythingOfType("[]uuid.UUID")).
			Return([]ledger.Order{*o1}, nil)

		w, resp := performJSON(t, f.handler.Process, "POST", "/admin/payouts/process", ProcessPayoutRequest{
			OrderIDs:      []uuid.UUID{o1.ID, uuid.New()},
			BankReference: "CBZ-20260501-551",
		}, asAdmin)

		require.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ORDER_NOT_FOUND", resp.Error.Code)
	})

	t.Run("returns 422 for a blank bank reference", func(t *testing.T) {
		f := newPayoutHandlerFixture()

		w, resp := performJSON(t, f.handler.Process, "POST", "/admin/payouts/process", ProcessPayoutRequest{
			OrderIDs:      []uuid.UUID{uuid.New()},
			BankReference: "   ",
		}, asAdmin)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "BANK_REFERENCE_REQUIRED", resp.Error.Code)
	})

	t.Run("returns 422 when every order ID is nil", func(t *testing.T) {
		f := newPayoutHandlerFixture()

		w, resp := performJSON(t, f.handler.Process, "POST", "/admin/payouts/process", ProcessPayoutRequest{
			OrderIDs:      []uuid.UUID{uuid.Nil},
			BankReference: "CBZ-20260501-551",
		}, asAdmin)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "EMPTY_BATCH", resp.Error.Code)
	})

	t.Run("rejects a body without order IDs", func(t *testing.T) {
		f := newPayoutHandlerFixture()

		w, resp := performJSON(t, f.handler.Process, "POST", "/admin/payouts/process", map[string]interface{}{
			"bank_reference": "CBZ-20260501-551",
		}, asAdmin)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
	})
}

func TestPayoutHandlerListHistory(t *testing.T) {
	tenantID := uuid.New()
	sellerID := uuid.New()

	newCompletedPayout := func(t *testing.T, orderNumber string) ledger.PayoutRecord {
		t.Helper()
		order := newEligibleOrder(t, tenantID, sellerID, orderNumber, "100.00", "10.00")
		record, err := ledger.NewPayoutRecord(tenantID, "PO-2026-000001", []*ledger.Order{order}, "CBZ-REF-1", "", "idem-1")
		require.NoError(t, err)
		require.NoError(t, record.Complete(uuid.New()))
		return *record
	}

	t.Run("returns a page with summary and status counts", func(t *testing.T) {
		f := newPayoutHandlerFixture()

		record := newCompletedPayout(t, "ORD-001")

		f.payoutRepo.On("FindAllForTenant", mock.Anything, tenantID, mock.AnythingOfType("ledger.PayoutFilter")).
			Return([]ledger.PayoutRecord{record}, nil)
		f.payoutRepo.On("SummaryForTenant", mock.Anything, tenantID, mock.AnythingOfType("ledger.PayoutFilter")).
			Return(&ledger.PayoutSummary{
				TotalRecords:    1,
				TotalNetAmount:  decimal.RequireFromString("90.00"),
				TotalCommission: decimal.RequireFromString("10.00"),
				StatusCounts:    map[ledger.PayoutStatus]int64{ledger.PayoutStatusCompleted: 1},
			}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/admin/payouts/history?page=1&page_size=20", nil)
		setAuthClaims(c, tenantID, uuid.New(), "ADMIN")

		f.handler.ListHistory(c)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)

		data := resp.Data.(map[string]interface{})
		summary := data["summary"].(map[string]interface{})
		assert.Equal(t, "90", summary["total_payouts"])
		assert.Equal(t, "10", summary["total_platform_fee"])

		counts := summary["status_counts"].(map[string]interface{})
		assert.Equal(t, float64(1), counts["COMPLETED"])
		assert.Equal(t, float64(0), counts["FAILED"])

		payouts := data["payouts"].([]interface{})
		require.Len(t, payouts, 1)
		first := payouts[0].(map[string]interface{})
		assert.Equal(t, "PO-2026-000001", first["payout_number"])
		// Order lines are only loaded on the detail endpoint
		assert.NotContains(t, first, "order_lines")
	})

	t.Run("rejects an invalid date filter", func(t *testing.T) {
		f := newPayoutHandlerFixture()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/admin/payouts/history?from_date=yesterday", nil)
		setAuthClaims(c, tenantID, uuid.New(), "ADMIN")

		f.handler.ListHistory(c)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayoutHandlerGetByID(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns 404 for an unknown payout", func(t *testing.T) {
		f := newPayoutHandlerFixture()
		id := uuid.New()
		f.payoutRepo.On("FindByIDForTenant", mock.Anything, tenantID, id).Return(nil, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/admin/payouts/history/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		setAuthClaims(c, tenantID, uuid.New(), "ADMIN")

		f.handler.GetByID(c)

		require.Equal(t, http.StatusNotFound, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "PAYOUT_NOT_FOUND", resp.Error.Code)
	})

	t.Run("rejects a malformed payout ID", func(t *testing.T) {
		f := newPayoutHandlerFixture()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/admin/payouts/history/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		setAuthClaims(c, tenantID, uuid.New(), "ADMIN")

		f.handler.GetByID(c)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
