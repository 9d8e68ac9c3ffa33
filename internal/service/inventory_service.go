package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lguhealth/brgycare/internal/domain/vaccine"
)

// InventoryService manages the vaccine stock that gates dose completion.
// min_stock is a reorder hint for the health center, never a block.
type InventoryService struct {
	repo     vaccine.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewInventoryService(repo vaccine.Repository, auditSvc *AuditService, log *zap.Logger) *InventoryService {
	return &InventoryService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *InventoryService) CreateVaccine(ctx context.Context, cmd *vaccine.CreateVaccineCommand, callerID uuid.UUID, callerRole string, ip string) (*vaccine.Vaccine, error) {
	if err := validateCreateVaccineCommand(cmd); err != nil {
		return nil, err
	}

	v := &vaccine.Vaccine{
		Name:         strings.TrimSpace(cmd.Name),
		Category:     cmd.Category,
		Description:  cmd.Description,
		CurrentStock: cmd.InitialStock,
		MinStock:     cmd.MinStock,
		CreatedBy:    cmd.CreatedBy,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		s.log.Error("failed to create vaccine", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "vaccine",
		ResourceID:   v.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("vaccine created",
		zap.String("vaccine_id", v.ID.String()),
		zap.String("name", v.Name),
		zap.Int("initial_stock", v.CurrentStock),
	)

	return v, nil
}

func (s *InventoryService) GetVaccine(ctx context.Context, id uuid.UUID) (*vaccine.Vaccine, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *InventoryService) ListVaccines(ctx context.Context) ([]*vaccine.Vaccine, error) {
	return s.repo.List(ctx)
}

func (s *InventoryService) ListLowStock(ctx context.Context) ([]*vaccine.Vaccine, error) {
	return s.repo.ListLowStock(ctx)
}

// IsAvailable reports whether at least one unit can be administered today.
func (s *InventoryService) IsAvailable(ctx context.Context, id uuid.UUID) (bool, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return v.IsAvailable(), nil
}

// Restock adds delivered units.
func (s *InventoryService) Restock(ctx context.Context, id uuid.UUID, qty int, reason string, callerID uuid.UUID, callerRole string, ip string) (*vaccine.Vaccine, error) {
	if qty <= 0 {
		return nil, vaccine.ErrInvalidQuantity
	}

	v, err := s.repo.AddStock(ctx, id, qty, reason, callerID)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "vaccine",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"restock":%d,"stock":%d}`, qty, v.CurrentStock),
	})

	return v, nil
}

// AdjustStock applies a signed manual correction (spoilage, count audits),
// clamped at zero.
func (s *InventoryService) AdjustStock(ctx context.Context, id uuid.UUID, cmd *vaccine.AdjustStockCommand, callerRole string, ip string) (*vaccine.Vaccine, error) {
	if cmd.Delta == 0 {
		return nil, vaccine.ErrInvalidQuantity
	}
	if strings.TrimSpace(cmd.Reason) == "" {
		return nil, &ValidationError{Fields: []string{"reason is required for stock adjustments"}}
	}

	v, err := s.repo.AdjustStock(ctx, id, cmd.Delta, cmd.Reason, cmd.RecordedBy)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       cmd.RecordedBy,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "vaccine",
		ResourceID:   id.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"adjustment":%d,"stock":%d,"reason":%q}`, cmd.Delta, v.CurrentStock, cmd.Reason),
	})

	return v, nil
}

func (s *InventoryService) ListMovements(ctx context.Context, vaccineID uuid.UUID, limit int) ([]*vaccine.StockMovement, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListMovements(ctx, vaccineID, limit)
}

func validateCreateVaccineCommand(cmd *vaccine.CreateVaccineCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !cmd.Category.IsValid() {
		errs = append(errs, "category is invalid")
	}
	if cmd.InitialStock < 0 {
		errs = append(errs, "initial_stock cannot be negative")
	}
	if cmd.MinStock < 0 {
		errs = append(errs, "min_stock cannot be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
