package immunization_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lguhealth/brgycare/internal/domain/immunization"
)

func upcomingDose() *immunization.ScheduledDose {
	vaccineID := uuid.New()
	return &immunization.ScheduledDose{
		ID:           uuid.New(),
		ChildID:      uuid.New(),
		VaccineID:    &vaccineID,
		VaccineName:  "Pentavalent",
		DoseLabel:    "1st Dose",
		ScheduleDate: time.Now().AddDate(0, 0, 7),
		Status:       immunization.StatusUpcoming,
	}
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    immunization.Status
		to      immunization.Status
		allowed bool
	}{
		{immunization.StatusUpcoming, immunization.StatusDone, true},
		{immunization.StatusUpcoming, immunization.StatusMissed, true},
		{immunization.StatusDone, immunization.StatusMissed, false},
		{immunization.StatusDone, immunization.StatusUpcoming, false},
		{immunization.StatusMissed, immunization.StatusDone, false},
		{immunization.StatusMissed, immunization.StatusUpcoming, false},
	}

	for _, tc := range cases {
		d := upcomingDose()
		d.Status = tc.from
		require.Equalf(t, tc.allowed, d.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestComplete(t *testing.T) {
	d := upcomingDose()

	require.NoError(t, d.Complete("B-2031", "Midwife Reyes", "no adverse reaction"))
	require.Equal(t, immunization.StatusDone, d.Status)
	require.Equal(t, "B-2031", d.BatchNumber)
	require.Equal(t, "Midwife Reyes", d.AdministeredBy)
	require.NotNil(t, d.AdministeredAt)

	// Terminal: a second completion is rejected and changes nothing.
	err := d.Complete("B-9999", "Someone Else", "")
	require.ErrorIs(t, err, immunization.ErrInvalidTransition)
	require.Equal(t, "B-2031", d.BatchNumber)
}

func TestMarkMissed(t *testing.T) {
	d := upcomingDose()

	require.NoError(t, d.MarkMissed("Family emergency", ""))
	require.Equal(t, immunization.StatusMissed, d.Status)
	require.Equal(t, "Family emergency", d.MissReason)
	require.NotNil(t, d.MissedAt)
}

func TestMarkMissed_RequiresReason(t *testing.T) {
	d := upcomingDose()

	err := d.MarkMissed("", "some notes")
	require.ErrorIs(t, err, immunization.ErrMissReasonRequired)
	require.Equal(t, immunization.StatusUpcoming, d.Status)
}

func TestMarkMissed_FromDoneRejected(t *testing.T) {
	d := upcomingDose()
	require.NoError(t, d.Complete("B-1", "Nurse Cruz", ""))

	err := d.MarkMissed("late entry", "")
	require.ErrorIs(t, err, immunization.ErrInvalidTransition)
	require.Equal(t, immunization.StatusDone, d.Status)
}

func TestIsOverdueAt(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	d := upcomingDose()
	d.ScheduleDate = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	require.True(t, d.IsOverdueAt(now))

	// Same day is not overdue: the visit can still happen today.
	d.ScheduleDate = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	require.False(t, d.IsOverdueAt(now))

	d.ScheduleDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	require.False(t, d.IsOverdueAt(now))

	// Only upcoming doses can be overdue.
	past := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	done := upcomingDose()
	done.ScheduleDate = past
	require.NoError(t, done.Complete("B-1", "Nurse Cruz", ""))
	require.False(t, done.IsOverdueAt(now))

	missed := upcomingDose()
	missed.ScheduleDate = past
	require.NoError(t, missed.MarkMissed("no show", ""))
	require.False(t, missed.IsOverdueAt(now))
}

func TestNewRescheduleOf(t *testing.T) {
	missed := upcomingDose()
	require.NoError(t, missed.MarkMissed("Family emergency", ""))

	newDate := time.Now().AddDate(0, 0, 14)
	createdBy := uuid.New()
	d, err := immunization.NewRescheduleOf(missed, newDate, "09:30", createdBy)
	require.NoError(t, err)

	require.Equal(t, immunization.StatusUpcoming, d.Status)
	require.Equal(t, missed.ChildID, d.ChildID)
	require.Equal(t, missed.VaccineID, d.VaccineID)
	require.Equal(t, missed.VaccineName, d.VaccineName)
	require.Equal(t, missed.DoseLabel, d.DoseLabel)
	require.Equal(t, newDate, d.ScheduleDate)
	require.Equal(t, "09:30", d.ScheduleTime)
	require.NotNil(t, d.RescheduledFrom)
	require.Equal(t, missed.ID, *d.RescheduledFrom)

	// The missed record keeps its status and reason.
	require.Equal(t, immunization.StatusMissed, missed.Status)
	require.Equal(t, "Family emergency", missed.MissReason)
}

func TestNewRescheduleOf_RejectsNonMissed(t *testing.T) {
	d := upcomingDose()

	_, err := immunization.NewRescheduleOf(d, time.Now(), "", uuid.New())
	require.ErrorIs(t, err, immunization.ErrNotMissed)

	done := upcomingDose()
	require.NoError(t, done.Complete("B-1", "Nurse Cruz", ""))
	_, err = immunization.NewRescheduleOf(done, time.Now(), "", uuid.New())
	require.ErrorIs(t, err, immunization.ErrNotMissed)
}
