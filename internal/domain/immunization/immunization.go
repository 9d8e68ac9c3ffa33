package immunization

import (
	"time"

	"github.com/google/uuid"

	"github.com/lguhealth/brgycare/internal/domain/vaccine"
)

// State transitions possibilities:
//
//	upcoming → done
//	upcoming → missed
//	missed   → (new upcoming row via reschedule; the missed row never changes)
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusDone     Status = "done"
	StatusMissed   Status = "missed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusDone, StatusMissed:
		return true
	}
	return false
}

// ScheduledDose is one planned administration of one dose for one child.
// Rows are append-only history: there is no soft-delete column because a
// dose record, once written, is never removed. Missed doses stay queryable
// and reschedules create fresh rows.
type ScheduledDose struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	ChildID uuid.UUID `gorm:"column:child_id;type:uuid;not null;index"`

	// VaccineID references live inventory; VaccineName is the free-text name
	// captured at scheduling time so rows outlive inventory deletions.
	VaccineID   *uuid.UUID `gorm:"column:vaccine_id;type:uuid;index"`
	VaccineName string     `gorm:"column:vaccine_name;type:varchar(100);not null"`
	DoseLabel   string     `gorm:"column:dose_label;type:varchar(50);not null"`

	ScheduleDate time.Time `gorm:"column:schedule_date;not null;index"`
	ScheduleTime string    `gorm:"column:schedule_time;type:varchar(10)"`

	Status Status `gorm:"column:status;type:varchar(20);not null;default:'upcoming';index"`
	Notes  string `gorm:"column:notes;type:text"`

	// NextDueDate is set on completion when the series has a further dose and
	// an inter-dose interval is configured; nil otherwise.
	NextDueDate *time.Time `gorm:"column:next_due_date"`

	BatchNumber    string     `gorm:"column:batch_number;type:varchar(100)"`
	AdministeredBy string     `gorm:"column:administered_by;type:varchar(200)"`
	AdministeredAt *time.Time `gorm:"column:administered_at"`

	MissReason string     `gorm:"column:miss_reason;type:text"`
	MissedAt   *time.Time `gorm:"column:missed_at"`

	// RescheduledFrom links a reschedule back to the missed row it replaces.
	RescheduledFrom *uuid.UUID `gorm:"column:rescheduled_from;type:uuid;index"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (ScheduledDose) TableName() string {
	return "clinical.scheduled_doses"
}

// VaccineRef returns the reference used to resolve this row's vaccine name
// against live inventory.
func (d *ScheduledDose) VaccineRef() vaccine.Ref {
	return vaccine.Ref{ID: d.VaccineID, Name: d.VaccineName}
}

func (d *ScheduledDose) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusUpcoming: {StatusDone, StatusMissed},
		StatusDone:     {},
		StatusMissed:   {},
	}

	for _, s := range allowed[d.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Complete marks the dose administered. Stock must already have been
// consumed by the caller; this only flips entity state.
func (d *ScheduledDose) Complete(batchNumber, administeredBy, notes string) error {
	if !d.CanTransitionTo(StatusDone) {
		return ErrInvalidTransition
	}
	now := time.Now()
	d.Status = StatusDone
	d.BatchNumber = batchNumber
	d.AdministeredBy = administeredBy
	d.AdministeredAt = &now
	if notes != "" {
		d.Notes = notes
	}
	return nil
}

// MarkMissed records that the child did not receive the dose. Nothing was
// administered, so stock is untouched.
func (d *ScheduledDose) MarkMissed(reason, notes string) error {
	if reason == "" {
		return ErrMissReasonRequired
	}
	if !d.CanTransitionTo(StatusMissed) {
		return ErrInvalidTransition
	}
	now := time.Now()
	d.Status = StatusMissed
	d.MissReason = reason
	d.MissedAt = &now
	if notes != "" {
		d.Notes = notes
	}
	return nil
}

// IsOverdueAt reports whether an upcoming dose's schedule date has passed.
// Derived only: an overdue dose stays upcoming until staff explicitly mark
// it missed, so back-dated administrations are never misreported.
func (d *ScheduledDose) IsOverdueAt(now time.Time) bool {
	if d.Status != StatusUpcoming {
		return false
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	return d.ScheduleDate.Before(today)
}

// NewRescheduleOf builds a fresh upcoming row for the same child, vaccine,
// and dose label as a missed row. The missed row is left untouched as the
// audit trail. Returns ErrNotMissed when the source is not missed.
func NewRescheduleOf(missed *ScheduledDose, newDate time.Time, newTime string, createdBy uuid.UUID) (*ScheduledDose, error) {
	if missed.Status != StatusMissed {
		return nil, ErrNotMissed
	}
	return &ScheduledDose{
		ChildID:         missed.ChildID,
		VaccineID:       missed.VaccineID,
		VaccineName:     missed.VaccineName,
		DoseLabel:       missed.DoseLabel,
		ScheduleDate:    newDate,
		ScheduleTime:    newTime,
		Status:          StatusUpcoming,
		RescheduledFrom: &missed.ID,
		CreatedBy:       createdBy,
	}, nil
}

type ScheduleDoseCommand struct {
	ChildID      uuid.UUID
	VaccineID    uuid.UUID
	DoseLabel    string
	ScheduleDate time.Time
	ScheduleTime string
	Notes        string
	CreatedBy    uuid.UUID
}

type CompleteDoseCommand struct {
	BatchNumber    string
	AdministeredBy string
	Notes          string
	CompletedBy    uuid.UUID
}

type MissDoseCommand struct {
	Reason   string
	Notes    string
	MissedBy uuid.UUID
}

type RescheduleDoseCommand struct {
	NewDate       time.Time
	NewTime       string
	RescheduledBy uuid.UUID
}

type ListDosesQuery struct {
	ChildID   *uuid.UUID
	VaccineID *uuid.UUID
	Status    *Status
	// Overdue narrows to upcoming doses whose schedule date has passed.
	Overdue  bool
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

type PagedDoses struct {
	Doses      []*ScheduledDose
	TotalCount int64
	Page       int
	PageSize   int
	TotalPages int
}
