package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type payoutRow struct {
	ID       uint
	TenantID string
	Status   string
}

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestWithTenantFiltersEveryQuery(t *testing.T) {
	db, mock, conn := newMockDatabase(t)
	defer conn.Close()

	mock.ExpectQuery(`SELECT \* FROM "payout_rows" WHERE tenant_id = \$1`).
		WithArgs("mbare").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "status"}).
			AddRow(1, "mbare", "COMPLETED"))

	var rows []payoutRow
	require.NoError(t, db.WithTenant("mbare").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "COMPLETED", rows[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTenantComposesWithQueryBuilders(t *testing.T) {
	db, mock, conn := newMockDatabase(t)
	defer conn.Close()

	mock.ExpectQuery(`SELECT \* FROM "payout_rows" WHERE tenant_id = \$1 AND status = \$2 ORDER BY id DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("mbare", "PENDING", 20, 40).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "status"}).
			AddRow(41, "mbare", "PENDING"))

	var rows []payoutRow
	err := db.WithTenant("mbare").
		Where("status = ?", "PENDING").
		Order("id DESC").
		Limit(20).
		Offset(40).
		Find(&rows).Error
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTenantParameterizesHostileInput(t *testing.T) {
	db, mock, conn := newMockDatabase(t)
	defer conn.Close()

	hostile := `mbare'; DROP TABLE payout_rows; --`
	mock.ExpectQuery(`SELECT \* FROM "payout_rows" WHERE tenant_id = \$1`).
		WithArgs(hostile).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "status"}))

	var rows []payoutRow
	require.NoError(t, db.WithTenant(hostile).Find(&rows).Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTenantPanicsOnEmptyTenant(t *testing.T) {
	db, _, conn := newMockDatabase(t)
	defer conn.Close()

	assert.Panics(t, func() { db.WithTenant("") })
}

func TestWithTenantDoesNotMutateBaseSession(t *testing.T) {
	db, _, conn := newMockDatabase(t)
	defer conn.Close()

	base := db.DB
	scoped := db.WithTenant("mbare")

	assert.NotEqual(t, base, scoped)
	assert.Equal(t, base, db.DB, "scoping must not leak into the shared session")
	assert.NotEqual(t, db.WithTenant("harare"), scoped)
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	db, mock, conn := newMockDatabase(t)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payout_rows"`).
		WithArgs("mbare", "PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&payoutRow{TenantID: "mbare", Status: "PENDING"}).Error
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db, mock, conn := newMockDatabase(t)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.Transaction(func(tx *gorm.DB) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	db, mock, conn := newMockDatabase(t)
	defer conn.Close()

	mock.ExpectPing()

	assert.NoError(t, db.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClose(t *testing.T) {
	db, mock, _ := newMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsReflectsPool(t *testing.T) {
	db, _, conn := newMockDatabase(t)
	defer conn.Close()

	stats, err := db.Stats()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
	assert.GreaterOrEqual(t, stats.WaitCount, int64(0))
}
