package repositories

import (
	"context"
	"time"

	"cleanroster/internal/database"
	. "cleanroster/internal/models"
	"cleanroster/internal/types"
	"cleanroster/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const RESERVATION_DEFAULT_ORDER = "cleaning_date ASC, reservation_date ASC"

type ReservationRepository interface {
	Find(ctx context.Context, query types.ReservationQuery) ([]*Reservation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	Create(ctx context.Context, reservation *Reservation) error
	Update(ctx context.Context, id uuid.UUID, update types.ReservationUpdate) error
	SumPrices(ctx context.Context) (decimal.Decimal, error)
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]*Reservation, error)
	MonthlyCounts(ctx context.Context, since time.Time) ([]types.MonthlyCount, error)
}

type reservationRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReservationRepository(db database.DB) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: logger.New("reservationRepository"),
	}
}

func applyReservationQuery(db *gorm.DB, query types.ReservationQuery) *gorm.DB {
	if query.ClientID != nil {
		db = db.Where("client_id = ?", *query.ClientID)
	}
	if query.ScopeToGroups {
		if len(query.AssignedGroupIDs) == 0 {
			db = db.Where("1 = 0")
		} else {
			db = db.Where("assigned_group_id IN ?", query.AssignedGroupIDs)
		}
	}
	if query.Status != nil {
		db = db.Where("status = ?", *query.Status)
	}
	if query.CleaningFrom != nil {
		db = db.Where("cleaning_date >= ?", *query.CleaningFrom)
	}
	if query.CleaningBefore != nil {
		db = db.Where("cleaning_date < ?", *query.CleaningBefore)
	}

	orderBy := query.OrderBy
	if orderBy == "" {
		orderBy = RESERVATION_DEFAULT_ORDER
	}
	db = db.Order(orderBy)

	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}
	return db
}

func (r *reservationRepository) Find(ctx context.Context, query types.ReservationQuery) ([]*Reservation, error) {
	log := r.log.Function("Find")

	reservations := []*Reservation{}
	if err := applyReservationQuery(getDB(ctx, r.db), query).Find(&reservations).Error; err != nil {
		return nil, log.Err("failed to find reservations", types.StoreError(err))
	}

	return reservations, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	log := r.log.Function("GetByID")

	var reservation Reservation
	if err := getDB(ctx, r.db).First(&reservation, "id = ?", id).Error; err != nil {
		return nil, log.Err("failed to get reservation by id", types.StoreError(err), "id", id)
	}

	return &reservation, nil
}

func (r *reservationRepository) Create(ctx context.Context, reservation *Reservation) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Omit("Client", "AssignedGroup").Create(reservation).Error; err != nil {
		return log.Err("failed to create reservation", types.StoreError(err), "clientID", reservation.ClientID)
	}

	return nil
}

func (r *reservationRepository) Update(ctx context.Context, id uuid.UUID, update types.ReservationUpdate) error {
	log := r.log.Function("Update")

	columns := update.Columns()
	if len(columns) == 0 {
		return nil
	}

	result := getDB(ctx, r.db).Model(&Reservation{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return log.Err("failed to update reservation", types.StoreError(result.Error), "id", id)
	}
	if result.RowsAffected == 0 {
		return types.Errorf(types.ErrNotFound, "reservation %s", id)
	}

	return nil
}

// SumPrices totals the price of every stored reservation.
func (r *reservationRepository) SumPrices(ctx context.Context) (decimal.Decimal, error) {
	log := r.log.Function("SumPrices")

	var total decimal.Decimal
	err := getDB(ctx, r.db).Model(&Reservation{}).
		Select("COALESCE(SUM(price), 0)").
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, log.Err("failed to sum reservation prices", types.StoreError(err))
	}

	return total, nil
}

func (r *reservationRepository) Count(ctx context.Context) (int64, error) {
	log := r.log.Function("Count")

	var count int64
	if err := getDB(ctx, r.db).Model(&Reservation{}).Count(&count).Error; err != nil {
		return 0, log.Err("failed to count reservations", types.StoreError(err))
	}

	return count, nil
}

func (r *reservationRepository) Recent(ctx context.Context, limit int) ([]*Reservation, error) {
	log := r.log.Function("Recent")

	reservations := []*Reservation{}
	err := getDB(ctx, r.db).Order("reservation_date DESC").Limit(limit).Find(&reservations).Error
	if err != nil {
		return nil, log.Err("failed to get recent reservations", types.StoreError(err))
	}

	return reservations, nil
}

// MonthlyCounts buckets reservations by the month they were requested in.
func (r *reservationRepository) MonthlyCounts(ctx context.Context, since time.Time) ([]types.MonthlyCount, error) {
	log := r.log.Function("MonthlyCounts")

	var dates []time.Time
	err := getDB(ctx, r.db).Model(&Reservation{}).
		Where("reservation_date >= ?", since).
		Order("reservation_date ASC").
		Pluck("reservation_date", &dates).Error
	if err != nil {
		return nil, log.Err("failed to get monthly reservation counts", types.StoreError(err))
	}

	counts := []types.MonthlyCount{}
	for _, date := range dates {
		month := utils.MonthKey(date)
		if len(counts) == 0 || counts[len(counts)-1].Month != month {
			counts = append(counts, types.MonthlyCount{Month: month})
		}
		counts[len(counts)-1].Count++
	}

	return counts, nil
}
