package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lguhealth/brgycare/internal/domain/vaccine"
)

type VaccineRepository struct {
	db *gorm.DB
}

func NewVaccineRepository(db *gorm.DB) *VaccineRepository {
	return &VaccineRepository{db: db}
}

func (r *VaccineRepository) Create(ctx context.Context, v *vaccine.Vaccine) error {
	err := r.db.WithContext(ctx).Create(v).Error
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return vaccine.ErrVaccineAlreadyExists
	}
	return err
}

func (r *VaccineRepository) GetByID(ctx context.Context, id uuid.UUID) (*vaccine.Vaccine, error) {
	var v vaccine.Vaccine
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, vaccine.ErrVaccineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VaccineRepository) List(ctx context.Context) ([]*vaccine.Vaccine, error) {
	var vaccines []*vaccine.Vaccine
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("name ASC").
		Find(&vaccines).Error
	return vaccines, err
}

func (r *VaccineRepository) ListLowStock(ctx context.Context) ([]*vaccine.Vaccine, error) {
	var vaccines []*vaccine.Vaccine
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL AND current_stock <= min_stock").
		Order("current_stock ASC").
		Find(&vaccines).Error
	return vaccines, err
}

// ConsumeStock decrements stock with a single conditional UPDATE. The
// `current_stock >= qty` predicate is the compare-and-swap: under two
// concurrent completions of the last unit, the row lock serializes them and
// the second update matches zero rows.
func (r *VaccineRepository) ConsumeStock(ctx context.Context, id uuid.UUID, qty int, reason string, reference *uuid.UUID, recordedBy uuid.UUID) (*vaccine.Vaccine, error) {
	if qty <= 0 {
		return nil, vaccine.ErrInvalidQuantity
	}

	var v vaccine.Vaccine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&vaccine.Vaccine{}).
			Where("id = ? AND deleted_at IS NULL AND current_stock >= ?", id, qty).
			UpdateColumn("current_stock", gorm.Expr("current_stock - ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&vaccine.Vaccine{}).
				Where("id = ? AND deleted_at IS NULL", id).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return vaccine.ErrVaccineNotFound
			}
			return vaccine.ErrInsufficientStock
		}

		if err := tx.Where("id = ?", id).First(&v).Error; err != nil {
			return err
		}

		return tx.Create(&vaccine.StockMovement{
			VaccineID:      id,
			Type:           vaccine.MovementConsume,
			Delta:          -qty,
			ResultingStock: v.CurrentStock,
			Reason:         reason,
			Reference:      reference,
			RecordedBy:     recordedBy,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VaccineRepository) AddStock(ctx context.Context, id uuid.UUID, qty int, reason string, recordedBy uuid.UUID) (*vaccine.Vaccine, error) {
	if qty <= 0 {
		return nil, vaccine.ErrInvalidQuantity
	}
	return r.applyDelta(ctx, id, qty, vaccine.MovementRestock, reason, recordedBy)
}

func (r *VaccineRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int, reason string, recordedBy uuid.UUID) (*vaccine.Vaccine, error) {
	if delta == 0 {
		return nil, vaccine.ErrInvalidQuantity
	}
	return r.applyDelta(ctx, id, delta, vaccine.MovementAdjustment, reason, recordedBy)
}

// applyDelta applies a signed stock change clamped at zero and appends the
// movement record in the same transaction.
func (r *VaccineRepository) applyDelta(ctx context.Context, id uuid.UUID, delta int, mtype vaccine.MovementType, reason string, recordedBy uuid.UUID) (*vaccine.Vaccine, error) {
	var v vaccine.Vaccine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&vaccine.Vaccine{}).
			Where("id = ? AND deleted_at IS NULL", id).
			UpdateColumn("current_stock", gorm.Expr("GREATEST(current_stock + ?, 0)", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return vaccine.ErrVaccineNotFound
		}

		if err := tx.Where("id = ?", id).First(&v).Error; err != nil {
			return err
		}

		return tx.Create(&vaccine.StockMovement{
			VaccineID:      id,
			Type:           mtype,
			Delta:          delta,
			ResultingStock: v.CurrentStock,
			Reason:         reason,
			RecordedBy:     recordedBy,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VaccineRepository) ListMovements(ctx context.Context, vaccineID uuid.UUID, limit int) ([]*vaccine.StockMovement, error) {
	var movements []*vaccine.StockMovement
	err := r.db.WithContext(ctx).
		Where("vaccine_id = ?", vaccineID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}
