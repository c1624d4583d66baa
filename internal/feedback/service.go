package feedback

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/access"
)

type RepositoryAPI interface {
	Create(ctx context.Context, f *Feedback) error
	GetByID(ctx context.Context, id int64) (*Feedback, error)
	// ListByEmployee returns the feedback on one record, newest first.
	ListByEmployee(ctx context.Context, employeeID int64) ([]*Feedback, error)
	Delete(ctx context.Context, id int64) error
}

type EmployeeLookup interface {
	Owner(ctx context.Context, employeeID int64) (access.Owned, error)
	DisplayName(ctx context.Context, subjectID int64) (string, error)
}

// Enhancer rewrites free text. It never fails; implementations fall back to
// a local rewrite.
type Enhancer interface {
	Polish(ctx context.Context, text string) string
	Options(ctx context.Context, text string) []string
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeLookup
	enhancer  Enhancer
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, employees EmployeeLookup, enhancer Enhancer, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		enhancer:  enhancer,
		logger:    logger,
	}
}

// Create leaves feedback on someone else's employee record.
func (s *Service) Create(ctx context.Context, id access.Identity, employeeID int64, dto CreateFeedbackDTO) (*Feedback, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	owner, err := s.employees.Owner(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if access.IsOwner(id, owner) {
		s.logger.Warn("self feedback rejected", "employee_id", employeeID, "subject_id", id.SubjectID)
		return nil, apperrors.ErrSelfFeedback
	}

	authorName, err := s.employees.DisplayName(ctx, id.SubjectID)
	if err != nil {
		return nil, err
	}

	f := &Feedback{
		EmployeeID:      employeeID,
		AuthorID:        id.SubjectID,
		AuthorName:      authorName,
		OriginalContent: strings.TrimSpace(dto.Content),
	}
	if dto.UseAIPolish {
		polished := s.enhancer.Polish(ctx, f.OriginalContent)
		f.PolishedContent = &polished
		f.IsPolished = true
	}

	if err := s.repo.Create(ctx, f); err != nil {
		s.logger.Error("failed to create feedback", "error", err, "employee_id", employeeID)
		return nil, apperrors.NewInternalError("failed to create feedback", err)
	}

	s.logger.Info("feedback created",
		"feedback_id", f.ID,
		"employee_id", employeeID,
		"subject_id", id.SubjectID,
		"is_polished", f.IsPolished)
	return f, nil
}

// Suggestions returns three rewrites of content to choose from.
func (s *Service) Suggestions(ctx context.Context, id access.Identity, dto SuggestionsDTO) ([]string, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	options := s.enhancer.Options(ctx, strings.TrimSpace(dto.Content))
	s.logger.Debug("feedback suggestions generated", "subject_id", id.SubjectID, "count", len(options))
	return options, nil
}

func (s *Service) ListForEmployee(ctx context.Context, id access.Identity, employeeID int64) ([]*Feedback, error) {
	if _, err := s.employees.Owner(ctx, employeeID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to list feedback", "error", err, "employee_id", employeeID)
		return nil, apperrors.NewInternalError("failed to list feedback", err)
	}
	if list == nil {
		list = []*Feedback{}
	}
	return list, nil
}

// Delete removes feedback. Only its author may do it.
func (s *Service) Delete(ctx context.Context, id access.Identity, feedbackID int64) error {
	f, err := s.repo.GetByID(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFeedbackNotFound) {
			return apperrors.ErrFeedbackNotFound
		}
		s.logger.Error("failed to get feedback", "error", err, "feedback_id", feedbackID)
		return apperrors.NewInternalError("failed to get feedback", err)
	}

	if !access.IsOwner(id, f) {
		s.logger.Warn("feedback delete denied", "feedback_id", feedbackID, "subject_id", id.SubjectID)
		return apperrors.ErrAccessDenied
	}

	if err := s.repo.Delete(ctx, feedbackID); err != nil {
		if errors.Is(err, apperrors.ErrFeedbackNotFound) {
			return apperrors.ErrFeedbackNotFound
		}
		s.logger.Error("failed to delete feedback", "error", err, "feedback_id", feedbackID)
		return apperrors.NewInternalError("failed to delete feedback", err)
	}

	s.logger.Info("feedback deleted", "feedback_id", feedbackID, "subject_id", id.SubjectID)
	return nil
}
