package decisionlog

import (
	"context"
	"log/slog"

	apperrors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/access"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// History returns every recorded decision on a request, oldest first.
func (s *Service) History(ctx context.Context, id access.Identity, absenceID int64) ([]*Entry, error) {
	if !access.CanListAllAbsences(id) {
		s.logger.Warn("decision history denied", "absence_id", absenceID, "subject_id", id.SubjectID)
		return nil, apperrors.ErrAccessDenied
	}

	entries, err := s.repo.ListByAbsence(ctx, absenceID)
	if err != nil {
		s.logger.Error("failed to load decision history", "error", err, "absence_id", absenceID)
		return nil, apperrors.NewInternalError("failed to load decision history", err)
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return entries, nil
}
