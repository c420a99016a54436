package payout

import (
	"context"

	"github.com/marketplace/backend/internal/domain/accounting"
	"github.com/marketplace/backend/internal/domain/ledger"
)

// TxRepos bundles the repositories participating in a payout transaction
type TxRepos struct {
	Orders  ledger.OrderRepository
	Payouts ledger.PayoutRepository
	Entries accounting.LedgerRepository
}

// UnitOfWork runs a function atomically: either every write made through
// the supplied repositories commits, or none do.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(repos TxRepos) error) error
}
