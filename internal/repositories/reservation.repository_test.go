package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	contextutil "cleanroster/internal/context"
	"cleanroster/internal/database"
	. "cleanroster/internal/models"
	"cleanroster/internal/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return database.DB{SQL: gormDB}, mock
}

func dryRunSQL(t *testing.T, query types.ReservationQuery) string {
	t.Helper()

	db, _ := setupMockDB(t)
	session := db.SQL.Session(&gorm.Session{DryRun: true})

	var reservations []*Reservation
	stmt := applyReservationQuery(session.Model(&Reservation{}), query).Find(&reservations).Statement
	return stmt.SQL.String()
}

func TestApplyReservationQuery(t *testing.T) {
	clientID := uuid.New()
	status := TaskStatusPending
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		query    types.ReservationQuery
		contains []string
		excludes []string
	}{
		{
			name:     "unscoped uses default order",
			query:    types.ReservationQuery{},
			contains: []string{`FROM "reservations"`, "ORDER BY cleaning_date ASC, reservation_date ASC"},
			excludes: []string{"WHERE"},
		},
		{
			name:     "client scope",
			query:    types.ReservationQuery{ClientID: &clientID},
			contains: []string{"client_id = $1"},
		},
		{
			name:     "empty group scope matches nothing",
			query:    types.ReservationQuery{ScopeToGroups: true},
			contains: []string{"1 = 0"},
		},
		{
			name:     "group scope",
			query:    types.ReservationQuery{ScopeToGroups: true, AssignedGroupIDs: []uuid.UUID{uuid.New(), uuid.New()}},
			contains: []string{"assigned_group_id IN ($1,$2)"},
		},
		{
			name: "status and date window",
			query: types.ReservationQuery{
				Status:         &status,
				CleaningFrom:   &from,
				CleaningBefore: &before,
			},
			contains: []string{"status = $1", "cleaning_date >= $2", "cleaning_date < $3"},
		},
		{
			name:     "custom order and limit",
			query:    types.ReservationQuery{OrderBy: "reservation_date DESC", Limit: 5},
			contains: []string{"ORDER BY reservation_date DESC", "LIMIT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := dryRunSQL(t, tt.query)
			for _, fragment := range tt.contains {
				assert.Contains(t, sql, fragment)
			}
			for _, fragment := range tt.excludes {
				assert.NotContains(t, sql, fragment)
			}
		})
	}
}

func TestReservationRepository_SumPrices(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReservationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(price), 0) FROM "reservations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("530.50"))

	total, err := repo.SumPrices(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("530.50")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReservationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reservations" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationRepository_Update(t *testing.T) {
	approved := true

	t.Run("missing row", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reservations" SET`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.Update(context.Background(), uuid.New(), types.ReservationUpdate{ApprovedByAdmin: &approved})
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("updated", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reservations" SET "approved_by_admin"=$1`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Update(context.Background(), uuid.New(), types.ReservationUpdate{ApprovedByAdmin: &approved})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to change", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReservationRepository(db)

		assert.NoError(t, repo.Update(context.Background(), uuid.New(), types.ReservationUpdate{}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_UsesContextTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReservationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reservations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	var count int64
	err := db.SQL.Transaction(func(tx *gorm.DB) error {
		var err error
		count, err = repo.Count(contextutil.WithTransaction(context.Background(), tx))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
