package payout

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/accounting"
	"github.com/marketplace/backend/internal/domain/ledger"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ProcessorService turns a batch of eligible orders into a completed
// payout. Marking the orders settled, writing the payout record, and
// posting the seller's accounting entries happen in one transaction.
type ProcessorService struct {
	payoutRepo ledger.PayoutRepository
	uow        UnitOfWork
	idemStore  shared.IdempotencyStore
	idemConfig shared.IdempotencyConfig
	logger     *zap.Logger
}

// NewProcessorService creates a new ProcessorService
func NewProcessorService(
	payoutRepo ledger.PayoutRepository,
	uow UnitOfWork,
	idemStore shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	logger *zap.Logger,
) *ProcessorService {
	return &ProcessorService{
		payoutRepo: payoutRepo,
		uow:        uow,
		idemStore:  idemStore,
		idemConfig: idemConfig,
		logger:     logger,
	}
}

// ProcessPayoutRequest represents a request to process a payout batch
type ProcessPayoutRequest struct {
	TenantID       uuid.UUID
	OrderIDs       []uuid.UUID
	BankReference  string
	Notes          string
	IdempotencyKey string // Optional, derived from the batch when empty
	ProcessedBy    uuid.UUID
}

// ProcessPayoutResult is the outcome of a processed payout batch
type ProcessPayoutResult struct {
	Payout     *ledger.PayoutRecord
	SellerID   uuid.UUID
	SellerName string
	OrderCount int
}

// Process settles a batch of orders into one payout. The same batch
// submitted twice returns an ALREADY_PROCESSED error, never a second
// payout.
func (s *ProcessorService) Process(ctx context.Context, req ProcessPayoutRequest) (*ProcessPayoutResult, error) {
	if req.TenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if req.ProcessedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Processing user ID is required")
	}
	if strings.TrimSpace(req.BankReference) == "" {
		return nil, shared.NewDomainError("BANK_REFERENCE_REQUIRED", "Bank reference cannot be empty")
	}

	orderIDs := dedupeOrderIDs(req.OrderIDs)
	if len(orderIDs) == 0 {
		return nil, shared.NewDomainError("EMPTY_BATCH", "At least one order ID is required")
	}

	idemKey := req.IdempotencyKey
	if idemKey == "" {
		idemKey = deriveIdempotencyKey(req.TenantID, orderIDs, req.BankReference)
	}

	releaseClaim, err := s.claimIdempotency(ctx, req.TenantID, idemKey)
	if err != nil {
		return nil, err
	}

	var payout *ledger.PayoutRecord

	err = s.uow.WithinTransaction(ctx, func(repos TxRepos) error {
		orders, err := repos.Orders.FindByIDs(ctx, req.TenantID, orderIDs)
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		if len(orders) != len(orderIDs) {
			return shared.NewDomainError("ORDER_NOT_FOUND", fmt.Sprintf("Only %d of %d orders found", len(orders), len(orderIDs)))
		}

		payoutNumber, err := repos.Payouts.GeneratePayoutNumber(ctx, req.TenantID)
		if err != nil {
			return fmt.Errorf("failed to generate payout number: %w", err)
		}

		orderPtrs := make([]*ledger.Order, len(orders))
		for i := range orders {
			orderPtrs[i] = &orders[i]
		}

		payout, err = ledger.NewPayoutRecord(req.TenantID, payoutNumber, orderPtrs, req.BankReference, req.Notes, idemKey)
		if err != nil {
			return err
		}
		if err := payout.Complete(req.ProcessedBy); err != nil {
			return err
		}

		if err := repos.Payouts.Save(ctx, payout); err != nil {
			return fmt.Errorf("failed to save payout: %w", err)
		}

		for _, o := range orderPtrs {
			if err := o.ApplyPayout(payout.ID); err != nil {
				return err
			}
			if err := repos.Orders.SaveWithLock(ctx, o); err != nil {
				return fmt.Errorf("failed to settle order %s: %w", o.OrderNumber, err)
			}
		}

		entries, err := buildLedgerEntries(payout)
		if err != nil {
			return err
		}
		if err := repos.Entries.CreateBatch(ctx, entries); err != nil {
			return fmt.Errorf("failed to post ledger entries: %w", err)
		}

		return nil
	})
	if err != nil {
		// No payout was written, so the claim must not survive: a
		// retry of the same batch is legitimate, not a duplicate.
		releaseClaim(ctx)
		return nil, err
	}

	s.logger.Info("payout processed",
		zap.String("payout_number", payout.PayoutNumber),
		zap.String("seller_id", payout.SellerID.String()),
		zap.String("gross_amount", payout.GrossAmount.String()),
		zap.Int("order_count", payout.OrderCount()))

	return &ProcessPayoutResult{
		Payout:     payout,
		SellerID:   payout.SellerID,
		SellerName: payout.SellerName,
		OrderCount: payout.OrderCount(),
	}, nil
}

// claimIdempotency rejects batches that were already processed. The
// cache is the fast path; a cache failure degrades to the persistent
// check, and the unique index on the payout's idempotency key is the
// final backstop. The returned func undoes the cache claim and must be
// called when processing fails after the claim, otherwise a transient
// transaction error would block retries of the batch for the full TTL.
func (s *ProcessorService) claimIdempotency(ctx context.Context, tenantID uuid.UUID, key string) (func(context.Context), error) {
	release := func(context.Context) {}

	if s.idemStore != nil && s.idemConfig.Enabled {
		storeKey := fmt.Sprintf("payout:%s:%s", tenantID, key)
		fresh, err := s.idemStore.MarkProcessed(ctx, storeKey, s.idemConfig.TTL)
		switch {
		case err != nil:
			s.logger.Warn("idempotency store unavailable, relying on database check", zap.Error(err))
		case !fresh:
			return nil, shared.NewDomainError("ALREADY_PROCESSED", "This payout batch has already been processed")
		default:
			release = func(ctx context.Context) {
				if err := s.idemStore.Release(ctx, storeKey); err != nil {
					s.logger.Warn("failed to release idempotency claim, retries blocked until the TTL expires",
						zap.String("key", storeKey), zap.Error(err))
				}
			}
		}
	}

	exists, err := s.payoutRepo.ExistsByIdempotencyKey(ctx, tenantID, key)
	if err != nil {
		release(ctx)
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_PROCESSED", "This payout batch has already been processed")
	}
	return release, nil
}

// buildLedgerEntries posts the payout into the seller's accounting
// ledger: a SALE for the gross amount and a COMMISSION for the fee.
func buildLedgerEntries(p *ledger.PayoutRecord) ([]*accounting.LedgerEntry, error) {
	entryDate := time.Now()
	if p.ProcessedAt != nil {
		entryDate = *p.ProcessedAt
	}

	gross, err := valueobject.NewMoney(p.GrossAmount, p.Currency)
	if err != nil {
		return nil, err
	}

	sale, err := accounting.NewSaleEntry(p.TenantID, p.SellerID, entryDate, gross,
		fmt.Sprintf("Payout %s (%d orders)", p.PayoutNumber, p.OrderCount()), p.PayoutNumber)
	if err != nil {
		return nil, err
	}

	entries := []*accounting.LedgerEntry{sale}

	if p.Commission.IsPositive() {
		fee, err := valueobject.NewMoney(p.Commission, p.Currency)
		if err != nil {
			return nil, err
		}
		commission, err := accounting.NewCommissionEntry(p.TenantID, p.SellerID, entryDate, fee,
			fmt.Sprintf("Platform commission for payout %s", p.PayoutNumber), p.PayoutNumber)
		if err != nil {
			return nil, err
		}
		entries = append(entries, commission)
	}

	return entries, nil
}

func dedupeOrderIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// deriveIdempotencyKey builds a deterministic key from the batch
// contents so retries without an explicit key are still caught
func deriveIdempotencyKey(tenantID uuid.UUID, orderIDs []uuid.UUID, bankReference string) string {
	sorted := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		sorted = append(sorted, id.String())
	}
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte(tenantID.String()))
	for _, id := range sorted {
		h.Write([]byte(id))
	}
	h.Write([]byte(bankReference))
	return hex.EncodeToString(h.Sum(nil))
}
