package persistence

import (
	"context"

	"github.com/marketplace/backend/internal/application/payout"
	"gorm.io/gorm"
)

// GormUnitOfWork implements payout.UnitOfWork on top of a GORM transaction.
// Repositories handed to the callback are bound to the transaction, so a
// failure anywhere rolls back every write.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTransaction runs fn inside a database transaction
func (u *GormUnitOfWork) WithinTransaction(ctx context.Context, fn func(repos payout.TxRepos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(payout.TxRepos{
			Orders:  NewGormOrderRepository(tx),
			Payouts: NewGormPayoutRepository(tx),
			Entries: NewGormLedgerRepository(tx),
		})
	})
}

// Ensure GormUnitOfWork implements the interface
var _ payout.UnitOfWork = (*GormUnitOfWork)(nil)
