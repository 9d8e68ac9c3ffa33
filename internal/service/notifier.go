package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/lguhealth/brgycare/internal/domain/immunization"
)

type TransitionKind string

const (
	TransitionScheduled   TransitionKind = "scheduled"
	TransitionCompleted   TransitionKind = "completed"
	TransitionMissed      TransitionKind = "missed"
	TransitionRescheduled TransitionKind = "rescheduled"
)

// TransitionEvent is published after a lifecycle transition has been
// persisted. Observers (SMS reminders, dashboards) consume it one-way; the
// engine never waits on them for its own correctness.
type TransitionEvent struct {
	Kind TransitionKind
	Dose *immunization.ScheduledDose
}

type Notifier interface {
	Notify(ctx context.Context, ev TransitionEvent)
}

// LogNotifier is the default observer: it records transitions in the service
// log. The SMS dispatcher in the surrounding system plugs in here.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, ev TransitionEvent) {
	n.log.Info("dose transition",
		zap.String("kind", string(ev.Kind)),
		zap.String("dose_id", ev.Dose.ID.String()),
		zap.String("child_id", ev.Dose.ChildID.String()),
		zap.String("vaccine", ev.Dose.VaccineName),
		zap.String("dose_label", ev.Dose.DoseLabel),
	)
}
