package decisionlog

import (
	"context"
	"time"
)

// Entry is one recorded status change of an absence request. Entries are
// append-only.
type Entry struct {
	ID             int64     `json:"id"`
	EventID        string    `json:"event_id"`
	AbsenceID      int64     `json:"absence_id"`
	EmployeeID     int64     `json:"employee_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ActorSubjectID int64     `json:"actor_subject_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type RepositoryAPI interface {
	// Append stores e. Appending the same EventID twice is a no-op.
	Append(ctx context.Context, e *Entry) error
	// ListByAbsence returns the entries of one request, oldest first.
	ListByAbsence(ctx context.Context, absenceID int64) ([]*Entry, error)
}
