package hostrequests

import (
	"context"
	"errors"

	"bookit/internal/seats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrVersionConflict signals that a seat-map CAS write lost the race and
	// the caller must reload and retry.
	ErrVersionConflict = errors.New("seat map version conflict")
)

type Repository interface {
	Create(ctx context.Context, hr *HostRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*HostRequest, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]HostRequest, error)
	GetAll(ctx context.Context, status string) ([]HostRequest, error)
	Save(ctx context.Context, hr *HostRequest) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	UpdateSeats(ctx context.Context, id uuid.UUID, m seats.SeatMap, expectedVersion int64) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, hr *HostRequest) error {
	return r.db.WithContext(ctx).Create(hr).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*HostRequest, error) {
	var hr HostRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&hr).Error
	if err != nil {
		return nil, err
	}
	return &hr, nil
}

func (r *repository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]HostRequest, error) {
	var requests []HostRequest
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) GetAll(ctx context.Context, status string) ([]HostRequest, error) {
	db := r.db.WithContext(ctx).Model(&HostRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var requests []HostRequest
	err := db.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) Save(ctx context.Context, hr *HostRequest) error {
	return r.db.WithContext(ctx).Save(hr).Error
}

// Update writes scalar columns only. Seat documents go through UpdateSeats so
// the version guard is never bypassed.
func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&HostRequest{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateSeats replaces the seats document guarded by the version counter.
// The whole array is written in one statement; a concurrent writer bumps the
// version first and this write affects zero rows.
func (r *repository) UpdateSeats(ctx context.Context, id uuid.UUID, m seats.SeatMap, expectedVersion int64) error {
	result := r.db.WithContext(ctx).Model(&HostRequest{}).
		Where("id = ? AND seat_version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"seats":        m,
			"seat_version": gorm.Expr("seat_version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&HostRequest{}).Error
}
