package decisionlog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-records/internal/core/events"
)

type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Recorder appends every absence status change published on the bus.
type Recorder struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewRecorder(repo RepositoryAPI, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) Register(bus Subscriber) {
	bus.Subscribe(events.EventTypeAbsenceStatusChanged, r.HandleStatusChanged)
}

func (r *Recorder) HandleStatusChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(*events.AbsenceStatusChangedEvent)
	if !ok {
		return fmt.Errorf("decisionlog: unexpected event %T for %s", event, event.EventType())
	}

	entry := &Entry{
		EventID:        changed.EventID(),
		AbsenceID:      changed.AbsenceID,
		EmployeeID:     changed.EmployeeID,
		PreviousStatus: changed.PreviousStatus,
		NewStatus:      changed.NewStatus,
		ActorSubjectID: changed.ActorSubjectID,
		OccurredAt:     changed.DecidedAt,
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		r.logger.Error("failed to record absence decision",
			"error", err,
			"absence_id", changed.AbsenceID,
			"event_id", changed.EventID())
		return err
	}

	r.logger.Info("absence decision recorded",
		"absence_id", changed.AbsenceID,
		"previous_status", changed.PreviousStatus,
		"new_status", changed.NewStatus,
		"actor_subject_id", changed.ActorSubjectID)
	return nil
}
