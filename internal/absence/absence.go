package absence

import (
	"strings"
	"time"

	absenceDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/absence"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// ParseStatus accepts lower or upper case names.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return st, true
	}
	return "", false
}

// IsDecision reports whether a privileged caller may set s.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

type Type string

const (
	TypeVacation      Type = "vacation"
	TypeSickLeave     Type = "sick_leave"
	TypePersonalLeave Type = "personal_leave"
	TypeParentalLeave Type = "parental_leave"
	TypeOther         Type = "other"
)

var typeNames = map[string]Type{
	"vacation":            TypeVacation,
	"sick_leave":          TypeSickLeave,
	"personal_leave":      TypePersonalLeave,
	"parental_leave":      TypeParentalLeave,
	"maternity_paternity": TypeParentalLeave,
	"other":               TypeOther,
}

func ParseType(s string) (Type, bool) {
	t, ok := typeNames[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// Absence is a time-off request. ApprovedBy and ApprovedAt are set exactly
// when Status is not pending; dates, type and reason are frozen from then on.
// Version increases with every write and guards concurrent updates.
type Absence struct {
	ID         int64
	EmployeeID int64
	StartDate  time.Time
	EndDate    time.Time
	Type       Type
	Reason     string
	Status     Status
	ApprovedBy *int64
	ApprovedAt *time.Time
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a *Absence) IsPending() bool {
	return a.Status == StatusPending
}

// Days is the inclusive length of the request in calendar days.
func (a *Absence) Days() int {
	return int(a.EndDate.Sub(a.StartDate).Hours()/24) + 1
}

// Revise replaces the editable fields.
func (a *Absence) Revise(s Submission) {
	a.StartDate = s.StartDate
	a.EndDate = s.EndDate
	a.Type = s.Type
	a.Reason = s.Reason
}

// Settle moves the request to status and stamps the actor and time.
func (a *Absence) Settle(status Status, actor int64, at time.Time) {
	a.Status = status
	a.ApprovedBy = &actor
	a.ApprovedAt = &at
	a.UpdatedAt = at
}

func NewAbsence(employeeID int64, s Submission, now time.Time) *Absence {
	return &Absence{
		EmployeeID: employeeID,
		StartDate:  s.StartDate,
		EndDate:    s.EndDate,
		Type:       s.Type,
		Reason:     s.Reason,
		Status:     StatusPending,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func ToDataModel(a *Absence) *absenceDatamodel.Absence {
	return &absenceDatamodel.Absence{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		StartDate:  a.StartDate,
		EndDate:    a.EndDate,
		Type:       string(a.Type),
		Reason:     a.Reason,
		Status:     string(a.Status),
		ApprovedBy: a.ApprovedBy,
		ApprovedAt: a.ApprovedAt,
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func FromDataModel(a *absenceDatamodel.Absence) *Absence {
	return &Absence{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		StartDate:  a.StartDate,
		EndDate:    a.EndDate,
		Type:       Type(a.Type),
		Reason:     a.Reason,
		Status:     Status(a.Status),
		ApprovedBy: a.ApprovedBy,
		ApprovedAt: a.ApprovedAt,
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*absenceDatamodel.Absence) []*Absence {
	result := make([]*Absence, len(rows))
	for i, a := range rows {
		result[i] = FromDataModel(a)
	}
	return result
}
