package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Order, error) {
	var order ledger.Order
	if err := r.db.WithContext(ctx).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForTenant finds an order by ID for a specific tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Order, error) {
	var order ledger.Order
	if err := r.db.WithContext(ctx).
		First(&order, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDs loads a batch of orders by ID for a tenant
func (r *GormOrderRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.Order, error) {
	if len(ids) == 0 {
		return []ledger.Order{}, nil
	}
	var orders []ledger.Order
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByOrderNumber finds by order number for a tenant
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*ledger.Order, error) {
	var order ledger.Order
	if err := r.db.WithContext(ctx).
		First(&order, "order_number = ? AND tenant_id = ?", orderNumber, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func applyOrderFilter(query *gorm.DB, filter ledger.OrderFilter) *gorm.DB {
	if filter.SellerID != nil {
		query = query.Where("seller_id = ?", *filter.SellerID)
	}
	if filter.BuyerID != nil {
		query = query.Where("buyer_id = ?", *filter.BuyerID)
	}
	if filter.Status != nil {
		query = query.Where("settlement_status = ?", *filter.Status)
	}
	if filter.PayoutID != nil {
		query = query.Where("payout_id = ?", *filter.PayoutID)
	}
	if filter.FromDate != nil {
		query = query.Where("payment_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("payment_date < ?", *filter.ToDate)
	}
	return query
}

// FindAllForTenant finds all orders for a tenant with filtering
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.OrderFilter) ([]ledger.Order, error) {
	var orders []ledger.Order
	query := applyOrderFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)

	// Apply pagination
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "payment_date")
	sortDir := ValidateSortOrder(filter.OrderDir)
	if err := query.Order(sortField + " " + sortDir).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindEligibleForPayout finds delivered orders awaiting payout
func (r *GormOrderRepository) FindEligibleForPayout(ctx context.Context, tenantID uuid.UUID, sellerID *uuid.UUID) ([]ledger.Order, error) {
	var orders []ledger.Order
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND settlement_status = ? AND delivery_date IS NOT NULL",
			tenantID, ledger.SettlementPaidPending)
	if sellerID != nil {
		query = query.Where("seller_id = ?", *sellerID)
	}
	if err := query.Order("payment_date ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *ledger.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ledger.Order) error {
	result := r.db.WithContext(ctx).
		Model(order).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(order)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("optimistic lock error: version mismatch")
	}
	return nil
}

// CountForTenant counts orders for a tenant with optional filters
func (r *GormOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter ledger.OrderFilter) (int64, error) {
	var count int64
	query := applyOrderFilter(
		r.db.WithContext(ctx).Model(&ledger.Order{}).Where("tenant_id = ?", tenantID), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumPendingBySeller aggregates eligible pending amounts per seller
func (r *GormOrderRepository) SumPendingBySeller(ctx context.Context, tenantID uuid.UUID) ([]ledger.SellerPendingTotal, error) {
	var totals []ledger.SellerPendingTotal
	if err := r.db.WithContext(ctx).
		Model(&ledger.Order{}).
		Select("seller_id, seller_name, COUNT(*) AS order_count, COALESCE(SUM(pending_amount), 0) AS pending_total, COALESCE(SUM(platform_commission), 0) AS commission_sum").
		Where("tenant_id = ? AND settlement_status = ? AND delivery_date IS NOT NULL",
			tenantID, ledger.SettlementPaidPending).
		Group("seller_id, seller_name").
		Order("pending_total DESC, seller_name ASC").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

// ExistsByOrderNumber checks if an order number exists for a tenant
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.Order{}).
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateOrderNumber generates a unique order number for a tenant
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&ledger.Order{}).
		Select("order_number").
		Where("tenant_id = ?", tenantID).
		Order("order_number DESC").
		Limit(1).
		Scan(&maxNumber).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	// Format: ORD-XXXXXXXX-NNNN
	nextSeq := 1
	if maxNumber != "" {
		var seq int
		if _, err := fmt.Sscanf(maxNumber[len(maxNumber)-4:], "%04d", &seq); err == nil {
			nextSeq = seq + 1
		}
	}

	return fmt.Sprintf("ORD-%s-%04d", uuid.New().String()[:8], nextSeq), nil
}

// Ensure GormOrderRepository implements the interface
var _ ledger.OrderRepository = (*GormOrderRepository)(nil)
