package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lguhealth/brgycare/internal/domain/immunization"
	"github.com/lguhealth/brgycare/internal/domain/vaccine"
)

// EligibilityService answers "what does this child still need". Every call
// recomputes from the dose history and live inventory; nothing is cached,
// because a completion submitted from another terminal invalidates any
// earlier answer.
type EligibilityService struct {
	doses    immunization.Repository
	vaccines vaccine.Repository
	registry *vaccine.DoseScheduleRegistry
	log      *zap.Logger
}

func NewEligibilityService(
	doses immunization.Repository,
	vaccines vaccine.Repository,
	registry *vaccine.DoseScheduleRegistry,
	log *zap.Logger,
) *EligibilityService {
	return &EligibilityService{doses: doses, vaccines: vaccines, registry: registry, log: log}
}

// CompletedDoses aggregates a child's done records into a per-vaccine set of
// dose labels. The vaccine name is resolved through the live inventory
// reference first, falling back to the free-text name recorded at scheduling
// time, so vaccines removed from inventory still count. Order-independent:
// doses marked done out of configured order still land in the set.
func (s *EligibilityService) CompletedDoses(ctx context.Context, childID uuid.UUID) (map[string]map[string]bool, error) {
	done, err := s.doses.ListDoneByChild(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("loading completed doses: %w", err)
	}

	lookup, err := s.inventoryNames(ctx)
	if err != nil {
		return nil, err
	}

	completed := make(map[string]map[string]bool)
	for _, d := range done {
		name := d.VaccineRef().ResolveName(lookup)
		if name == "" {
			continue
		}
		if completed[name] == nil {
			completed[name] = make(map[string]bool)
		}
		completed[name][d.DoseLabel] = true
	}
	return completed, nil
}

// AvailableVaccines lists the vaccines still owed to a child. A single-dose
// vaccine drops out the moment its one dose is done; a multi-dose vaccine
// stays selectable until its full configured set is satisfied.
func (s *EligibilityService) AvailableVaccines(ctx context.Context, childID uuid.UUID) ([]*vaccine.Vaccine, error) {
	all, err := s.vaccines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing vaccines: %w", err)
	}

	completed, err := s.CompletedDoses(ctx, childID)
	if err != nil {
		return nil, err
	}

	available := make([]*vaccine.Vaccine, 0, len(all))
	for _, v := range all {
		required := s.registry.SequenceFor(v.Name)
		done := completed[v.Name]

		if len(required) == 1 && done[required[0]] {
			continue
		}
		if allIn(required, done) {
			continue
		}
		available = append(available, v)
	}
	return available, nil
}

// AvailableDoses returns the doses still owed for one vaccine, in configured
// order regardless of the order completions actually happened. An empty
// result means the child is fully covered for this vaccine.
func (s *EligibilityService) AvailableDoses(ctx context.Context, childID, vaccineID uuid.UUID) ([]string, error) {
	v, err := s.vaccines.GetByID(ctx, vaccineID)
	if err != nil {
		return nil, err
	}
	return s.AvailableDosesForName(ctx, childID, v.Name)
}

// AvailableDosesForName is the name-keyed variant used when completing
// historical rows whose inventory reference may be gone.
func (s *EligibilityService) AvailableDosesForName(ctx context.Context, childID uuid.UUID, name string) ([]string, error) {
	completed, err := s.CompletedDoses(ctx, childID)
	if err != nil {
		return nil, err
	}

	done := completed[name]
	required := s.registry.SequenceFor(name)

	remaining := make([]string, 0, len(required))
	for _, label := range required {
		if !done[label] {
			remaining = append(remaining, label)
		}
	}
	return remaining, nil
}

func (s *EligibilityService) inventoryNames(ctx context.Context) (func(uuid.UUID) (string, bool), error) {
	all, err := s.vaccines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing vaccines: %w", err)
	}
	byID := make(map[uuid.UUID]string, len(all))
	for _, v := range all {
		byID[v.ID] = v.Name
	}
	return func(id uuid.UUID) (string, bool) {
		name, ok := byID[id]
		return name, ok
	}, nil
}

func allIn(required []string, done map[string]bool) bool {
	for _, label := range required {
		if !done[label] {
			return false
		}
	}
	return true
}
