package service_test

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lguhealth/brgycare/internal/domain"
	"github.com/lguhealth/brgycare/internal/domain/child"
	"github.com/lguhealth/brgycare/internal/domain/immunization"
	"github.com/lguhealth/brgycare/internal/domain/vaccine"
)

// In-memory repositories backing the service tests. The vaccine repo guards
// stock with a mutex so its ConsumeStock honors the same exactly-one-winner
// contract as the SQL conditional update.

type memChildRepo struct {
	mu       sync.Mutex
	children map[uuid.UUID]child.Child
}

func newMemChildRepo() *memChildRepo {
	return &memChildRepo{children: make(map[uuid.UUID]child.Child)}
}

func (r *memChildRepo) add(c child.Child) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.children[c.ID] = c
}

func (r *memChildRepo) GetByID(_ context.Context, id uuid.UUID) (*child.Child, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.children[id]
	if !ok {
		return nil, child.ErrChildNotFound
	}
	return &c, nil
}

type memVaccineRepo struct {
	mu        sync.Mutex
	vaccines  map[uuid.UUID]vaccine.Vaccine
	movements []vaccine.StockMovement
}

func newMemVaccineRepo() *memVaccineRepo {
	return &memVaccineRepo{vaccines: make(map[uuid.UUID]vaccine.Vaccine)}
}

func (r *memVaccineRepo) Create(_ context.Context, v *vaccine.Vaccine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.vaccines {
		if existing.Name == v.Name {
			return vaccine.ErrVaccineAlreadyExists
		}
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.vaccines[v.ID] = *v
	return nil
}

func (r *memVaccineRepo) GetByID(_ context.Context, id uuid.UUID) (*vaccine.Vaccine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vaccines[id]
	if !ok {
		return nil, vaccine.ErrVaccineNotFound
	}
	return &v, nil
}

func (r *memVaccineRepo) List(_ context.Context) ([]*vaccine.Vaccine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*vaccine.Vaccine, 0, len(r.vaccines))
	for _, v := range r.vaccines {
		v := v
		out = append(out, &v)
	}
	return out, nil
}

func (r *memVaccineRepo) ListLowStock(_ context.Context) ([]*vaccine.Vaccine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*vaccine.Vaccine
	for _, v := range r.vaccines {
		if v.IsLowStock() {
			v := v
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r *memVaccineRepo) ConsumeStock(_ context.Context, id uuid.UUID, qty int, reason string, reference *uuid.UUID, recordedBy uuid.UUID) (*vaccine.Vaccine, error) {
	if qty <= 0 {
		return nil, vaccine.ErrInvalidQuantity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vaccines[id]
	if !ok {
		return nil, vaccine.ErrVaccineNotFound
	}
	if v.CurrentStock < qty {
		return nil, vaccine.ErrInsufficientStock
	}
	v.CurrentStock -= qty
	r.vaccines[id] = v
	r.movements = append(r.movements, vaccine.StockMovement{
		ID:             uuid.New(),
		VaccineID:      id,
		Type:           vaccine.MovementConsume,
		Delta:          -qty,
		ResultingStock: v.CurrentStock,
		Reason:         reason,
		Reference:      reference,
		RecordedBy:     recordedBy,
	})
	return &v, nil
}

func (r *memVaccineRepo) AddStock(_ context.Context, id uuid.UUID, qty int, reason string, recordedBy uuid.UUID) (*vaccine.Vaccine, error) {
	if qty <= 0 {
		return nil, vaccine.ErrInvalidQuantity
	}
	return r.applyDelta(id, qty, vaccine.MovementRestock, reason, recordedBy)
}

func (r *memVaccineRepo) AdjustStock(_ context.Context, id uuid.UUID, delta int, reason string, recordedBy uuid.UUID) (*vaccine.Vaccine, error) {
	if delta == 0 {
		return nil, vaccine.ErrInvalidQuantity
	}
	return r.applyDelta(id, delta, vaccine.MovementAdjustment, reason, recordedBy)
}

func (r *memVaccineRepo) applyDelta(id uuid.UUID, delta int, mtype vaccine.MovementType, reason string, recordedBy uuid.UUID) (*vaccine.Vaccine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vaccines[id]
	if !ok {
		return nil, vaccine.ErrVaccineNotFound
	}
	v.CurrentStock += delta
	if v.CurrentStock < 0 {
		v.CurrentStock = 0
	}
	r.vaccines[id] = v
	r.movements = append(r.movements, vaccine.StockMovement{
		ID:             uuid.New(),
		VaccineID:      id,
		Type:           mtype,
		Delta:          delta,
		ResultingStock: v.CurrentStock,
		Reason:         reason,
		RecordedBy:     recordedBy,
	})
	return &v, nil
}

func (r *memVaccineRepo) ListMovements(_ context.Context, vaccineID uuid.UUID, limit int) ([]*vaccine.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*vaccine.StockMovement
	for i := len(r.movements) - 1; i >= 0 && len(out) < limit; i-- {
		if r.movements[i].VaccineID == vaccineID {
			m := r.movements[i]
			out = append(out, &m)
		}
	}
	return out, nil
}

type memDoseRepo struct {
	mu    sync.Mutex
	doses map[uuid.UUID]immunization.ScheduledDose
	order []uuid.UUID
}

func newMemDoseRepo() *memDoseRepo {
	return &memDoseRepo{doses: make(map[uuid.UUID]immunization.ScheduledDose)}
}

func (r *memDoseRepo) Create(_ context.Context, d *immunization.ScheduledDose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.doses[d.ID] = *d
	r.order = append(r.order, d.ID)
	return nil
}

func (r *memDoseRepo) GetByID(_ context.Context, id uuid.UUID) (*immunization.ScheduledDose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doses[id]
	if !ok {
		return nil, immunization.ErrDoseNotFound
	}
	return &d, nil
}

func (r *memDoseRepo) UpdateStatus(_ context.Context, d *immunization.ScheduledDose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doses[d.ID]; !ok {
		return immunization.ErrDoseNotFound
	}
	r.doses[d.ID] = *d
	return nil
}

func (r *memDoseRepo) ListDoneByChild(_ context.Context, childID uuid.UUID) ([]*immunization.ScheduledDose, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*immunization.ScheduledDose
	for _, id := range r.order {
		d := r.doses[id]
		if d.ChildID == childID && d.Status == immunization.StatusDone {
			d := d
			out = append(out, &d)
		}
	}
	return out, nil
}

func (r *memDoseRepo) List(_ context.Context, q *immunization.ListDosesQuery) (*immunization.PagedDoses, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*immunization.ScheduledDose
	for _, id := range r.order {
		d := r.doses[id]
		if q.ChildID != nil && d.ChildID != *q.ChildID {
			continue
		}
		if q.VaccineID != nil && (d.VaccineID == nil || *d.VaccineID != *q.VaccineID) {
			continue
		}
		if q.Status != nil && d.Status != *q.Status {
			continue
		}
		if q.Overdue && !d.IsOverdueAt(time.Now()) {
			continue
		}
		matched = append(matched, &d)
	}

	total := int64(len(matched))
	start := (q.Page - 1) * q.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &immunization.PagedDoses{
		Doses:      matched[start:end],
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}, nil
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *memAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}
