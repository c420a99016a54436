package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/accounting"
)

func TestFindByDateRangeUsesHalfOpenBound(t *testing.T) {
	db, mock, conn := newMockDatabase(t)
	defer conn.Close()

	tenantID := uuid.New()
	sellerID := uuid.New()
	from := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	// An entry stamped exactly at the next period's midnight belongs to
	// that period, so the upper bound must be exclusive.
	mock.ExpectQuery(`SELECT \* FROM "ledger_entries" WHERE tenant_id = \$1 AND seller_id = \$2 AND entry_date >= \$3 AND entry_date < \$4`).
		WithArgs(tenantID, sellerID, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewGormLedgerRepository(db.DB)
	entries, err := repo.FindByDateRange(context.Background(), tenantID, sellerID, from, to)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBySellerToDateIsExclusive(t *testing.T) {
	db, mock, conn := newMockDatabase(t)
	defer conn.Close()

	tenantID := uuid.New()
	sellerID := uuid.New()
	to := time.Date(2026, time.July, 16, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "ledger_entries" WHERE \(tenant_id = \$1 AND seller_id = \$2\) AND entry_date < \$3`).
		WithArgs(tenantID, sellerID, to).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewGormLedgerRepository(db.DB)
	_, err := repo.FindBySeller(context.Background(), tenantID, sellerID, accounting.LedgerFilter{ToDate: &to})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
