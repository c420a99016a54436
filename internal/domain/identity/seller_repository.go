package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// SellerFilter defines filtering options for seller queries
type SellerFilter struct {
	shared.Filter
	Status *SellerStatus // Filter by status
	Role   *SellerRole   // Filter by role
}

// SellerRepository defines the interface for seller persistence
type SellerRepository interface {
	// FindByID finds a seller by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Seller, error)

	// FindByIDForTenant finds a seller by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Seller, error)

	// FindByEmail finds a seller by email for a tenant
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Seller, error)

	// FindAllForTenant finds all sellers for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter SellerFilter) ([]Seller, error)

	// Save creates or updates a seller
	Save(ctx context.Context, seller *Seller) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, seller *Seller) error

	// CountForTenant counts sellers for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter SellerFilter) (int64, error)

	// ExistsByEmail checks if a seller email exists for a tenant
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
}
