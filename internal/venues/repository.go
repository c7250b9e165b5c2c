package venues

import (
	"context"

	"bookit/internal/hostrequests"
	"bookit/internal/seats"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	GetByHostRequestID(ctx context.Context, hostRequestID uuid.UUID) (*Venue, error)
	List(ctx context.Context, search string, page, pageSize int) ([]Venue, int64, error)
	// UpdateProjection refreshes the projected scalar columns on an existing
	// row. Seats and seat_version are never written here: the seat document
	// only moves through the versioned UpdateSeats write.
	UpdateProjection(ctx context.Context, v *Venue) error
	UpdateSeats(ctx context.Context, id uuid.UUID, m seats.SeatMap, expectedVersion int64) error

	// SaveStatusAndProjection writes the host request status and creates,
	// refreshes or removes the venue projection in one transaction.
	SaveStatusAndProjection(ctx context.Context, hr *hostrequests.HostRequest, projection *Venue, remove bool) error
	// DeleteWithHostRequest removes the host request row and every venue
	// projection linked to it in one transaction.
	DeleteWithHostRequest(ctx context.Context, hostRequestID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var v Venue
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) GetByHostRequestID(ctx context.Context, hostRequestID uuid.UUID) (*Venue, error) {
	var v Venue
	err := r.db.WithContext(ctx).Where("host_request_id = ?", hostRequestID).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) List(ctx context.Context, search string, page, pageSize int) ([]Venue, int64, error) {
	db := r.db.WithContext(ctx).Model(&Venue{})
	if search != "" {
		pattern := "%" + search + "%"
		db = db.Where("name ILIKE ? OR address ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var venues []Venue
	offset := (page - 1) * pageSize
	err := db.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&venues).Error
	return venues, total, err
}

func (r *repository) UpdateProjection(ctx context.Context, v *Venue) error {
	return r.db.WithContext(ctx).
		Omit("seats", "seat_version", "created_at").
		Save(v).Error
}

// UpdateSeats replaces the venue seats document guarded by the version
// counter. Zero affected rows means a concurrent writer got there first.
func (r *repository) UpdateSeats(ctx context.Context, id uuid.UUID, m seats.SeatMap, expectedVersion int64) error {
	result := r.db.WithContext(ctx).Model(&Venue{}).
		Where("id = ? AND seat_version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"seats":        m,
			"seat_version": gorm.Expr("seat_version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return hostrequests.ErrVersionConflict
	}
	return nil
}

func (r *repository) SaveStatusAndProjection(ctx context.Context, hr *hostrequests.HostRequest, projection *Venue, remove bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&hostrequests.HostRequest{}).
			Where("id = ?", hr.ID).
			Update("status", hr.Status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if remove {
			// Delete-many: clears duplicates left behind by older data too.
			return tx.Where("host_request_id = ?", hr.ID).Delete(&Venue{}).Error
		}
		if projection != nil {
			return tx.Save(projection).Error
		}
		return nil
	})
}

func (r *repository) DeleteWithHostRequest(ctx context.Context, hostRequestID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("host_request_id = ?", hostRequestID).Delete(&Venue{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", hostRequestID).Delete(&hostrequests.HostRequest{}).Error
	})
}
