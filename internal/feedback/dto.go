package feedback

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/common/validation"
)

const maxContentLength = 2000

type CreateFeedbackDTO struct {
	Content     string `json:"content"`
	UseAIPolish bool   `json:"use_ai_polish"`
}

func (dto CreateFeedbackDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("content", strings.TrimSpace(dto.Content)).
		Required().
		MaxLength(maxContentLength)
	return v.Validate()
}

type SuggestionsDTO struct {
	Content string `json:"content"`
}

func (dto SuggestionsDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("content", strings.TrimSpace(dto.Content)).
		Required().
		MaxLength(maxContentLength)
	return v.Validate()
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type FeedbackResponse struct {
	ID              int64     `json:"id"`
	EmployeeID      int64     `json:"employee_id"`
	AuthorID        int64     `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	OriginalContent string    `json:"original_content"`
	PolishedContent *string   `json:"polished_content,omitempty"`
	IsPolished      bool      `json:"is_polished"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewFeedbackResponse(f *Feedback) *FeedbackResponse {
	return &FeedbackResponse{
		ID:              f.ID,
		EmployeeID:      f.EmployeeID,
		AuthorID:        f.AuthorID,
		AuthorName:      f.AuthorName,
		OriginalContent: f.OriginalContent,
		PolishedContent: f.PolishedContent,
		IsPolished:      f.IsPolished,
		CreatedAt:       f.CreatedAt,
	}
}

func NewFeedbackResponses(list []*Feedback) []*FeedbackResponse {
	out := make([]*FeedbackResponse, len(list))
	for i, f := range list {
		out[i] = NewFeedbackResponse(f)
	}
	return out
}
