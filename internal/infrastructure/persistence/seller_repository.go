package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// GormSellerRepository implements SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID finds a seller by ID
func (r *GormSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Seller, error) {
	var seller identity.Seller
	if err := r.db.WithContext(ctx).
		First(&seller, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seller, nil
}

// FindByIDForTenant finds a seller by ID for a specific tenant
func (r *GormSellerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Seller, error) {
	var seller identity.Seller
	if err := r.db.WithContext(ctx).
		First(&seller, "id = ? AND tenant_id = ?", id, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seller, nil
}

// FindByEmail finds a seller by email for a tenant
func (r *GormSellerRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.Seller, error) {
	var seller identity.Seller
	if err := r.db.WithContext(ctx).
		First(&seller, "email = ? AND tenant_id = ?", strings.ToLower(email), tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seller, nil
}

// FindAllForTenant finds all sellers for a tenant with filtering
func (r *GormSellerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter identity.SellerFilter) ([]identity.Seller, error) {
	var sellers []identity.Seller
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(business_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	// Apply pagination
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	sortField := ValidateSortField(filter.OrderBy, SellerSortFields, "business_name")
	sortDir := "ASC"
	if filter.OrderDir != "" {
		sortDir = ValidateSortOrder(filter.OrderDir)
	}
	if err := query.Order(sortField + " " + sortDir).Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// Save creates or updates a seller
func (r *GormSellerRepository) Save(ctx context.Context, seller *identity.Seller) error {
	return r.db.WithContext(ctx).Save(seller).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSellerRepository) SaveWithLock(ctx context.Context, seller *identity.Seller) error {
	result := r.db.WithContext(ctx).
		Model(seller).
		Where("id = ? AND version = ?", seller.ID, seller.Version-1).
		Updates(seller)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("optimistic lock error: version mismatch")
	}
	return nil
}

// CountForTenant counts sellers for a tenant with optional filters
func (r *GormSellerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter identity.SellerFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&identity.Seller{}).Where("tenant_id = ?", tenantID)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks if a seller email exists for a tenant
func (r *GormSellerRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Seller{}).
		Where("tenant_id = ? AND email = ?", tenantID, strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormSellerRepository implements the interface
var _ identity.SellerRepository = (*GormSellerRepository)(nil)
