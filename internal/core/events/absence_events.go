package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAbsenceStatusChanged = "absence.status_changed"
)

// AbsenceStatusChangedEvent is published whenever an absence request leaves
// or re-enters a decided state, including owner cancellation.
type AbsenceStatusChangedEvent struct {
	BaseEvent
	AbsenceID      int64     `json:"absence_id"`
	EmployeeID     int64     `json:"employee_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ActorSubjectID int64     `json:"actor_subject_id"`
	DecidedAt      time.Time `json:"decided_at"`
}

func NewAbsenceStatusChangedEvent(absenceID, employeeID int64, previousStatus, newStatus string, actorSubjectID int64, decidedAt time.Time) *AbsenceStatusChangedEvent {
	return &AbsenceStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAbsenceStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"absence_id":       absenceID,
				"employee_id":      employeeID,
				"previous_status":  previousStatus,
				"new_status":       newStatus,
				"actor_subject_id": actorSubjectID,
				"decided_at":       decidedAt,
			},
		},
		AbsenceID:      absenceID,
		EmployeeID:     employeeID,
		PreviousStatus: previousStatus,
		NewStatus:      newStatus,
		ActorSubjectID: actorSubjectID,
		DecidedAt:      decidedAt,
	}
}
