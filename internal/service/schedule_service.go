package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lguhealth/brgycare/internal/domain/child"
	"github.com/lguhealth/brgycare/internal/domain/immunization"
	"github.com/lguhealth/brgycare/internal/domain/vaccine"
	"github.com/lguhealth/brgycare/pkg/metrics"
)

// ScheduleService owns the life of a scheduled dose: creation, completion,
// miss-marking, and rescheduling. Completion is the only transition that
// touches stock, and it re-validates stock at commit time rather than
// trusting anything read while the form was on screen.
type ScheduleService struct {
	doses       immunization.Repository
	vaccines    vaccine.Repository
	children    child.Repository
	eligibility *EligibilityService
	registry    *vaccine.DoseScheduleRegistry
	auditSvc    *AuditService
	notifier    Notifier
	collector   *metrics.Collector
	log         *zap.Logger
}

func NewScheduleService(
	doses immunization.Repository,
	vaccines vaccine.Repository,
	children child.Repository,
	eligibility *EligibilityService,
	registry *vaccine.DoseScheduleRegistry,
	auditSvc *AuditService,
	notifier Notifier,
	collector *metrics.Collector,
	log *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		doses:       doses,
		vaccines:    vaccines,
		children:    children,
		eligibility: eligibility,
		registry:    registry,
		auditSvc:    auditSvc,
		notifier:    notifier,
		collector:   collector,
		log:         log,
	}
}

// ScheduleDose creates an upcoming dose. Scheduling reserves intent, not
// inventory: a vaccine with zero stock can still be scheduled, stock is only
// consumed when the dose is completed.
func (s *ScheduleService) ScheduleDose(ctx context.Context, cmd *immunization.ScheduleDoseCommand, callerID uuid.UUID, callerRole string, ip string) (*immunization.ScheduledDose, error) {
	if err := validateScheduleCommand(cmd); err != nil {
		return nil, err
	}

	if _, err := s.children.GetByID(ctx, cmd.ChildID); err != nil {
		return nil, fmt.Errorf("verifying child: %w", err)
	}

	v, err := s.vaccines.GetByID(ctx, cmd.VaccineID)
	if err != nil {
		return nil, err
	}

	owed, err := s.eligibility.AvailableDosesForName(ctx, cmd.ChildID, v.Name)
	if err != nil {
		return nil, err
	}
	if !contains(owed, cmd.DoseLabel) {
		return nil, immunization.ErrInvalidDose
	}

	d := &immunization.ScheduledDose{
		ChildID:      cmd.ChildID,
		VaccineID:    &v.ID,
		VaccineName:  v.Name,
		DoseLabel:    cmd.DoseLabel,
		ScheduleDate: cmd.ScheduleDate,
		ScheduleTime: cmd.ScheduleTime,
		Status:       immunization.StatusUpcoming,
		Notes:        cmd.Notes,
		CreatedBy:    cmd.CreatedBy,
	}

	if err := s.doses.Create(ctx, d); err != nil {
		s.log.Error("failed to create scheduled dose", zap.Error(err))
		return nil, fmt.Errorf("creating scheduled dose: %w", err)
	}

	s.collector.DosesScheduledTotal.WithLabelValues(v.Name).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "scheduled_dose",
		ResourceID:   d.ID.String(),
		IPAddress:    ip,
	})
	s.notifier.Notify(ctx, TransitionEvent{Kind: TransitionScheduled, Dose: d})

	return d, nil
}

// CompleteDose transitions an upcoming dose to done. One unit of stock is
// consumed atomically before the status flips; if stock is exhausted the
// dose stays upcoming and vaccine.ErrInsufficientStock is returned.
// The second return value lists the doses still owed for this vaccine after
// the completion, so callers can tell the caregiver a further dose is
// required even when no interval policy proposes a date.
func (s *ScheduleService) CompleteDose(ctx context.Context, id uuid.UUID, cmd *immunization.CompleteDoseCommand, callerID uuid.UUID, callerRole string, ip string) (*immunization.ScheduledDose, []string, error) {
	d, err := s.doses.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !d.CanTransitionTo(immunization.StatusDone) {
		return nil, nil, immunization.ErrInvalidTransition
	}

	if d.VaccineID == nil {
		// Legacy row whose vaccine left inventory: nothing to decrement.
		return nil, nil, vaccine.ErrVaccineNotFound
	}
	v, err := s.vaccines.GetByID(ctx, *d.VaccineID)
	if err != nil {
		return nil, nil, err
	}

	// Reconfigured sequences or a completion recorded from another terminal
	// can invalidate the label between display and commit.
	owed, err := s.eligibility.AvailableDosesForName(ctx, d.ChildID, v.Name)
	if err != nil {
		return nil, nil, err
	}
	if !contains(owed, d.DoseLabel) {
		return nil, nil, immunization.ErrInvalidDose
	}

	if _, err := s.vaccines.ConsumeStock(ctx, v.ID, 1, "administered", &d.ID, cmd.CompletedBy); err != nil {
		if errors.Is(err, vaccine.ErrInsufficientStock) {
			s.collector.InsufficientStockTotal.Inc()
		}
		return nil, nil, err
	}

	if err := d.Complete(cmd.BatchNumber, cmd.AdministeredBy, cmd.Notes); err != nil {
		return nil, nil, err
	}

	remaining := without(owed, d.DoseLabel)
	if len(remaining) > 0 {
		if interval := s.registry.IntervalFor(v.Name); interval > 0 {
			next := d.ScheduleDate.AddDate(0, 0, interval)
			d.NextDueDate = &next
		}
	}

	if err := s.doses.UpdateStatus(ctx, d); err != nil {
		// Stock was already consumed; this needs operator attention.
		s.log.Error("dose completed but status not persisted",
			zap.String("dose_id", d.ID.String()),
			zap.Error(err),
		)
		return nil, nil, fmt.Errorf("updating dose status: %w", err)
	}

	s.collector.DosesCompletedTotal.WithLabelValues(v.Name).Inc()
	s.collector.StockConsumedTotal.WithLabelValues(v.Name).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "scheduled_dose",
		ResourceID:   d.ID.String(),
		IPAddress:    ip,
		Changes:      `{"status":"done"}`,
	})
	s.notifier.Notify(ctx, TransitionEvent{Kind: TransitionCompleted, Dose: d})

	return d, remaining, nil
}

// MarkDoseMissed transitions an upcoming dose to missed. Nothing was
// administered, so stock is never touched.
func (s *ScheduleService) MarkDoseMissed(ctx context.Context, id uuid.UUID, cmd *immunization.MissDoseCommand, callerID uuid.UUID, callerRole string, ip string) (*immunization.ScheduledDose, error) {
	d, err := s.doses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.MarkMissed(cmd.Reason, cmd.Notes); err != nil {
		return nil, err
	}

	if err := s.doses.UpdateStatus(ctx, d); err != nil {
		return nil, fmt.Errorf("updating dose status: %w", err)
	}

	s.collector.DosesMissedTotal.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "update",
		ResourceType: "scheduled_dose",
		ResourceID:   d.ID.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"status":"missed","reason":%q}`, cmd.Reason),
	})
	s.notifier.Notify(ctx, TransitionEvent{Kind: TransitionMissed, Dose: d})

	return d, nil
}

// RescheduleDose creates a brand-new upcoming dose from a missed one. The
// missed row is never edited back to upcoming; it stays as the record of the
// miss.
func (s *ScheduleService) RescheduleDose(ctx context.Context, missedID uuid.UUID, cmd *immunization.RescheduleDoseCommand, callerID uuid.UUID, callerRole string, ip string) (*immunization.ScheduledDose, error) {
	if cmd.NewDate.IsZero() {
		return nil, &ValidationError{Fields: []string{"new_date is required"}}
	}

	missed, err := s.doses.GetByID(ctx, missedID)
	if err != nil {
		return nil, err
	}

	d, err := immunization.NewRescheduleOf(missed, cmd.NewDate, cmd.NewTime, cmd.RescheduledBy)
	if err != nil {
		return nil, err
	}

	if err := s.doses.Create(ctx, d); err != nil {
		s.log.Error("failed to create rescheduled dose", zap.Error(err))
		return nil, fmt.Errorf("creating rescheduled dose: %w", err)
	}

	s.collector.DosesRescheduledTotal.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       callerID,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "scheduled_dose",
		ResourceID:   d.ID.String(),
		IPAddress:    ip,
		Changes:      fmt.Sprintf(`{"rescheduled_from":%q}`, missed.ID),
	})
	s.notifier.Notify(ctx, TransitionEvent{Kind: TransitionRescheduled, Dose: d})

	return d, nil
}

// IsOverdue reports whether an upcoming dose's schedule date has passed.
// Overdue is derived, never stored, and never auto-transitions to missed.
func (s *ScheduleService) IsOverdue(ctx context.Context, id uuid.UUID) (bool, error) {
	d, err := s.doses.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return d.IsOverdueAt(time.Now()), nil
}

func (s *ScheduleService) GetDose(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*immunization.ScheduledDose, error) {
	d, err := s.doses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: callerID, UserRole: callerRole,
		Action: "read", ResourceType: "scheduled_dose", ResourceID: id.String(), IPAddress: ip,
	})

	return d, nil
}

func (s *ScheduleService) ListDoses(ctx context.Context, q *immunization.ListDosesQuery) (*immunization.PagedDoses, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	return s.doses.List(ctx, q)
}

func validateScheduleCommand(cmd *immunization.ScheduleDoseCommand) error {
	var errs []string

	if cmd.ChildID == uuid.Nil {
		errs = append(errs, "child_id is required")
	}
	if cmd.VaccineID == uuid.Nil {
		errs = append(errs, "vaccine_id is required")
	}
	if strings.TrimSpace(cmd.DoseLabel) == "" {
		errs = append(errs, "dose_label is required")
	}
	if cmd.ScheduleDate.IsZero() {
		errs = append(errs, "schedule_date is required")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func contains(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func without(labels []string, label string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != label {
			out = append(out, l)
		}
	}
	return out
}
