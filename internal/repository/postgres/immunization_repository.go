package postgres

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lguhealth/brgycare/internal/domain/immunization"
)

type ImmunizationRepository struct {
	db *gorm.DB
}

func NewImmunizationRepository(db *gorm.DB) *ImmunizationRepository {
	return &ImmunizationRepository{db: db}
}

func (r *ImmunizationRepository) Create(ctx context.Context, d *immunization.ScheduledDose) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *ImmunizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*immunization.ScheduledDose, error) {
	var d immunization.ScheduledDose
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, immunization.ErrDoseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *ImmunizationRepository) UpdateStatus(ctx context.Context, d *immunization.ScheduledDose) error {
	return r.db.WithContext(ctx).
		Model(d).
		Select("status", "notes", "next_due_date", "batch_number",
			"administered_by", "administered_at", "miss_reason", "missed_at").
		Updates(d).Error
}

func (r *ImmunizationRepository) ListDoneByChild(ctx context.Context, childID uuid.UUID) ([]*immunization.ScheduledDose, error) {
	var doses []*immunization.ScheduledDose
	err := r.db.WithContext(ctx).
		Where("child_id = ? AND status = ?", childID, immunization.StatusDone).
		Find(&doses).Error
	return doses, err
}

func (r *ImmunizationRepository) List(ctx context.Context, q *immunization.ListDosesQuery) (*immunization.PagedDoses, error) {
	tx := r.db.WithContext(ctx).Model(&immunization.ScheduledDose{})

	if q.ChildID != nil {
		tx = tx.Where("child_id = ?", *q.ChildID)
	}
	if q.VaccineID != nil {
		tx = tx.Where("vaccine_id = ?", *q.VaccineID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.Overdue {
		tx = tx.Where("status = ? AND schedule_date < CURRENT_DATE", immunization.StatusUpcoming)
	}
	if q.DateFrom != nil {
		tx = tx.Where("schedule_date >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		tx = tx.Where("schedule_date <= ?", *q.DateTo)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var doses []*immunization.ScheduledDose
	err := tx.Order("schedule_date DESC, created_at DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&doses).Error
	if err != nil {
		return nil, err
	}

	return &immunization.PagedDoses{
		Doses:      doses,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}
