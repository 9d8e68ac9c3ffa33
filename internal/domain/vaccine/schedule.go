package vaccine

// DoseScheduleEntry is the configured administration sequence for one vaccine.
// IntervalDays is the recommended gap between consecutive doses; zero means
// no interval policy is configured and no next-due date will be proposed.
type DoseScheduleEntry struct {
	Doses        []string
	IntervalDays int
}

// DoseScheduleRegistry maps vaccine names to their dose sequences. It is a
// plain value handed to the eligibility service at construction, so tests and
// future config loaders can swap in alternate schedules.
type DoseScheduleRegistry struct {
	entries      map[string]DoseScheduleEntry
	defaultDoses []string
}

// defaultSequence deliberately over-covers: an unconfigured vaccine is
// scheduled as a full multi-dose series rather than silently skipped.
var defaultSequence = []string{"1st Dose", "2nd Dose", "3rd Dose", "Booster"}

func NewDoseScheduleRegistry(entries map[string]DoseScheduleEntry) *DoseScheduleRegistry {
	r := &DoseScheduleRegistry{
		entries:      make(map[string]DoseScheduleEntry, len(entries)),
		defaultDoses: defaultSequence,
	}
	for name, e := range entries {
		r.entries[name] = e
	}
	return r
}

// DefaultRegistry returns the national immunization program schedule used by
// barangay health centers.
func DefaultRegistry() *DoseScheduleRegistry {
	return NewDoseScheduleRegistry(map[string]DoseScheduleEntry{
		"BCG":         {Doses: []string{"1st Dose"}},
		"Hepatitis B": {Doses: []string{"1st Dose"}},
		"Pentavalent": {Doses: []string{"1st Dose", "2nd Dose", "3rd Dose"}, IntervalDays: 28},
		"OPV":         {Doses: []string{"1st Dose", "2nd Dose", "3rd Dose"}, IntervalDays: 28},
		"IPV":         {Doses: []string{"1st Dose", "2nd Dose"}, IntervalDays: 56},
		"PCV":         {Doses: []string{"1st Dose", "2nd Dose", "3rd Dose"}, IntervalDays: 28},
		"MMR":         {Doses: []string{"1st Dose", "2nd Dose"}, IntervalDays: 90},
	})
}

// SequenceFor returns the ordered dose labels for a vaccine name. Unknown
// names get the default sequence; configuration gaps must never block care.
func (r *DoseScheduleRegistry) SequenceFor(name string) []string {
	doses := r.defaultDoses
	if e, ok := r.entries[name]; ok && len(e.Doses) > 0 {
		doses = e.Doses
	}
	out := make([]string, len(doses))
	copy(out, doses)
	return out
}

// IntervalFor returns the configured inter-dose interval in days, or zero
// when none is configured.
func (r *DoseScheduleRegistry) IntervalFor(name string) int {
	if e, ok := r.entries[name]; ok {
		return e.IntervalDays
	}
	return 0
}

// Contains reports whether label is part of the configured sequence for name.
func (r *DoseScheduleRegistry) Contains(name, label string) bool {
	for _, d := range r.SequenceFor(name) {
		if d == label {
			return true
		}
	}
	return false
}
