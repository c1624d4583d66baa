package absence

import (
	"time"

	errors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/common/validation"
)

// AbsenceRequestDTO is the body of both create and edit requests.
type AbsenceRequestDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
}

// Submission is a validated AbsenceRequestDTO.
type Submission struct {
	StartDate time.Time
	EndDate   time.Time
	Type      Type
	Reason    string
}

// Validate parses the payload and checks it against today: start must not be
// in the past and must not come after end.
func (dto AbsenceRequestDTO) Validate(today time.Time) (Submission, error) {
	v := validation.NewValidator()
	v.Field("type", dto.Type).
		Required().
		Custom(func(value interface{}) *errors.AppError {
			if s, _ := value.(string); s != "" {
				if _, ok := ParseType(s); !ok {
					return errors.NewValidationFieldError("type",
						"type must be one of vacation, sick_leave, personal_leave, parental_leave, other",
						errors.ErrCodeInvalidType)
				}
			}
			return nil
		})
	v.Field("reason", dto.Reason).MaxLength(1000)
	v.Field("start_date", dto.StartDate).Required()
	v.Field("end_date", dto.EndDate).Required()
	if err := v.Validate(); err != nil {
		return Submission{}, err
	}

	start, err := validation.ParseDate("start_date", dto.StartDate)
	if err != nil {
		return Submission{}, err
	}
	end, err := validation.ParseDate("end_date", dto.EndDate)
	if err != nil {
		return Submission{}, err
	}
	if err := validation.ValidateDateRange(start, end, today); err != nil {
		return Submission{}, err
	}

	t, _ := ParseType(dto.Type)
	return Submission{StartDate: start, EndDate: end, Type: t, Reason: dto.Reason}, nil
}

type AbsenceResponse struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employee_id"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	Type       Type       `json:"type"`
	Reason     string     `json:"reason"`
	Status     Status     `json:"status"`
	ApprovedBy *int64     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func NewAbsenceResponse(a *Absence) *AbsenceResponse {
	return &AbsenceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		StartDate:  a.StartDate.Format(validation.DateLayout),
		EndDate:    a.EndDate.Format(validation.DateLayout),
		Type:       a.Type,
		Reason:     a.Reason,
		Status:     a.Status,
		ApprovedBy: a.ApprovedBy,
		ApprovedAt: a.ApprovedAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func NewAbsenceResponses(list []*Absence) []*AbsenceResponse {
	out := make([]*AbsenceResponse, len(list))
	for i, a := range list {
		out[i] = NewAbsenceResponse(a)
	}
	return out
}

type PendingCountResponse struct {
	Count int64 `json:"count"`
}

// ListFilter narrows ListAll and the report. Zero values match everything.
type ListFilter struct {
	Status     Status
	EmployeeID int64
}

// NewListFilter parses the status query parameter.
func NewListFilter(status string) (ListFilter, error) {
	if status == "" {
		return ListFilter{}, nil
	}
	st, ok := ParseStatus(status)
	if !ok {
		return ListFilter{}, errors.NewValidationFieldError("status",
			"status must be one of pending, approved, rejected, cancelled", errors.ErrCodeInvalidStatus)
	}
	return ListFilter{Status: st}, nil
}
