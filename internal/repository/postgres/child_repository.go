package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lguhealth/brgycare/internal/domain/child"
)

type ChildRepository struct {
	db *gorm.DB
}

func NewChildRepository(db *gorm.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

func (r *ChildRepository) GetByID(ctx context.Context, id uuid.UUID) (*child.Child, error) {
	var c child.Child
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, child.ErrChildNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
