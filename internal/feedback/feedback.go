package feedback

import (
	"time"

	feedbackDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/feedback"
)

// Feedback is a note one colleague leaves on another's employee record.
// AuthorID is the subject that wrote it and the only one allowed to delete it.
type Feedback struct {
	ID              int64
	EmployeeID      int64
	AuthorID        int64
	AuthorName      string
	OriginalContent string
	PolishedContent *string
	IsPolished      bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (f *Feedback) OwnerSubjectID() int64 {
	return f.AuthorID
}

// Content is the text shown to readers: the polished version when present.
func (f *Feedback) Content() string {
	if f.IsPolished && f.PolishedContent != nil {
		return *f.PolishedContent
	}
	return f.OriginalContent
}

func ToDataModel(f *Feedback) *feedbackDatamodel.Feedback {
	return &feedbackDatamodel.Feedback{
		ID:              f.ID,
		EmployeeID:      f.EmployeeID,
		AuthorID:        f.AuthorID,
		AuthorName:      f.AuthorName,
		OriginalContent: f.OriginalContent,
		PolishedContent: f.PolishedContent,
		IsPolished:      f.IsPolished,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

func FromDataModel(f *feedbackDatamodel.Feedback) *Feedback {
	return &Feedback{
		ID:              f.ID,
		EmployeeID:      f.EmployeeID,
		AuthorID:        f.AuthorID,
		AuthorName:      f.AuthorName,
		OriginalContent: f.OriginalContent,
		PolishedContent: f.PolishedContent,
		IsPolished:      f.IsPolished,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

func FromDataModelSlice(list []*feedbackDatamodel.Feedback) []*Feedback {
	out := make([]*Feedback, len(list))
	for i, f := range list {
		out[i] = FromDataModel(f)
	}
	return out
}
