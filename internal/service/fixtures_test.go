package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lguhealth/brgycare/internal/domain/child"
	"github.com/lguhealth/brgycare/internal/domain/immunization"
	"github.com/lguhealth/brgycare/internal/domain/vaccine"
	"github.com/lguhealth/brgycare/internal/service"
	"github.com/lguhealth/brgycare/pkg/metrics"
)

type engineFixture struct {
	children    *memChildRepo
	vaccines    *memVaccineRepo
	doses       *memDoseRepo
	eligibility *service.EligibilityService
	schedules   *service.ScheduleService
	inventory   *service.InventoryService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	log := zap.NewNop()
	collector := metrics.NewCollector("test", prometheus.NewRegistry())
	registry := vaccine.DefaultRegistry()

	children := newMemChildRepo()
	vaccines := newMemVaccineRepo()
	doses := newMemDoseRepo()

	auditSvc := service.NewAuditService(&memAuditRepo{}, 64, log)
	t.Cleanup(auditSvc.Shutdown)

	eligibility := service.NewEligibilityService(doses, vaccines, registry, log)
	schedules := service.NewScheduleService(
		doses, vaccines, children,
		eligibility, registry,
		auditSvc, service.NewLogNotifier(log), collector, log,
	)
	inventory := service.NewInventoryService(vaccines, auditSvc, log)

	return &engineFixture{
		children:    children,
		vaccines:    vaccines,
		doses:       doses,
		eligibility: eligibility,
		schedules:   schedules,
		inventory:   inventory,
	}
}

func (f *engineFixture) addChild(t *testing.T) uuid.UUID {
	t.Helper()
	c := child.Child{
		ID:          uuid.New(),
		FirstName:   "Ana",
		LastName:    "Santos",
		DateOfBirth: time.Now().AddDate(0, -6, 0),
		Sex:         child.SexFemale,
	}
	f.children.add(c)
	return c.ID
}

func (f *engineFixture) addVaccine(t *testing.T, name string, stock int) *vaccine.Vaccine {
	t.Helper()
	v := &vaccine.Vaccine{
		Name:         name,
		Category:     vaccine.CategoryRoutine,
		CurrentStock: stock,
		MinStock:     5,
		CreatedBy:    uuid.New(),
	}
	require.NoError(t, f.vaccines.Create(context.Background(), v))
	return v
}

// addDoneDose seeds a historical completed dose directly, bypassing the
// lifecycle, for completion-tracker scenarios.
func (f *engineFixture) addDoneDose(t *testing.T, childID uuid.UUID, vaccineID *uuid.UUID, vaccineName, label string) {
	t.Helper()
	now := time.Now()
	d := &immunization.ScheduledDose{
		ChildID:        childID,
		VaccineID:      vaccineID,
		VaccineName:    vaccineName,
		DoseLabel:      label,
		ScheduleDate:   now.AddDate(0, -1, 0),
		Status:         immunization.StatusDone,
		AdministeredAt: &now,
		CreatedBy:      uuid.New(),
	}
	require.NoError(t, f.doses.Create(context.Background(), d))
}

// addUpcomingDose seeds an upcoming dose directly.
func (f *engineFixture) addUpcomingDose(t *testing.T, childID uuid.UUID, vaccineID *uuid.UUID, vaccineName, label string, date time.Time) uuid.UUID {
	t.Helper()
	d := &immunization.ScheduledDose{
		ChildID:      childID,
		VaccineID:    vaccineID,
		VaccineName:  vaccineName,
		DoseLabel:    label,
		ScheduleDate: date,
		Status:       immunization.StatusUpcoming,
		CreatedBy:    uuid.New(),
	}
	require.NoError(t, f.doses.Create(context.Background(), d))
	return d.ID
}

func vaccineNames(vs []*vaccine.Vaccine) []string {
	names := make([]string, 0, len(vs))
	for _, v := range vs {
		names = append(names, v.Name)
	}
	return names
}
