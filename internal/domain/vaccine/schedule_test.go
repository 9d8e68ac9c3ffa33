package vaccine_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lguhealth/brgycare/internal/domain/vaccine"
)

func TestRegistry_SequenceFor_Configured(t *testing.T) {
	r := vaccine.DefaultRegistry()

	require.Equal(t, []string{"1st Dose"}, r.SequenceFor("BCG"))
	require.Equal(t, []string{"1st Dose", "2nd Dose", "3rd Dose"}, r.SequenceFor("Pentavalent"))
}

func TestRegistry_SequenceFor_UnknownFallsBackToDefault(t *testing.T) {
	r := vaccine.DefaultRegistry()

	// Unknown vaccines get the full default series: over-scheduling beats
	// silently skipping a child.
	require.Equal(t,
		[]string{"1st Dose", "2nd Dose", "3rd Dose", "Booster"},
		r.SequenceFor("Experimental-X"),
	)
}

func TestRegistry_SequenceFor_ReturnsCopy(t *testing.T) {
	r := vaccine.DefaultRegistry()

	seq := r.SequenceFor("Pentavalent")
	seq[0] = "mutated"

	require.Equal(t, "1st Dose", r.SequenceFor("Pentavalent")[0])
}

func TestRegistry_IntervalFor(t *testing.T) {
	r := vaccine.DefaultRegistry()

	require.Equal(t, 28, r.IntervalFor("Pentavalent"))
	require.Zero(t, r.IntervalFor("BCG"))
	require.Zero(t, r.IntervalFor("Experimental-X"))
}

func TestRegistry_Contains(t *testing.T) {
	r := vaccine.DefaultRegistry()

	require.True(t, r.Contains("Pentavalent", "2nd Dose"))
	require.False(t, r.Contains("BCG", "2nd Dose"))
	require.True(t, r.Contains("Experimental-X", "Booster"))
}

func TestRegistry_InjectableSchedules(t *testing.T) {
	r := vaccine.NewDoseScheduleRegistry(map[string]vaccine.DoseScheduleEntry{
		"Rabies": {Doses: []string{"Day 0", "Day 3", "Day 7"}, IntervalDays: 3},
	})

	require.Equal(t, []string{"Day 0", "Day 3", "Day 7"}, r.SequenceFor("Rabies"))
	require.Equal(t, 3, r.IntervalFor("Rabies"))
}

func TestRef_ResolveName(t *testing.T) {
	id := uuid.New()
	lookup := func(q uuid.UUID) (string, bool) {
		if q == id {
			return "Pentavalent", true
		}
		return "", false
	}

	known := vaccine.Ref{ID: &id, Name: "Penta (legacy)"}
	require.Equal(t, "Pentavalent", known.ResolveName(lookup))

	gone := uuid.New()
	removed := vaccine.Ref{ID: &gone, Name: "Penta (legacy)"}
	require.Equal(t, "Penta (legacy)", removed.ResolveName(lookup))

	legacyOnly := vaccine.Ref{Name: "Measles"}
	require.Equal(t, "Measles", legacyOnly.ResolveName(lookup))
}
