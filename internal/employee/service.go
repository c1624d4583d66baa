package employee

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/access"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*Employee, error)
	GetByUserID(ctx context.Context, userID int64) (*Employee, error)
	GetAll(ctx context.Context) ([]*Employee, error)
	GetPage(ctx context.Context, q PageQuery) ([]*Employee, int64, error)
	Search(ctx context.Context, term string, q PageQuery) ([]*Employee, int64, error)
	Update(ctx context.Context, id int64, columns map[string]interface{}) error
}

type Service struct {
	repo   RepositoryAPI
	cache  *ListCache
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, cache *ListCache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *Service) Get(ctx context.Context, id access.Identity, employeeID int64) (*View, error) {
	e, err := s.fetch(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return Project(id, e), nil
}

// List returns every employee. The raw list is cached; the projection is not.
func (s *Service) List(ctx context.Context, id access.Identity) ([]*View, error) {
	records, gen, ok := s.cache.Get()
	if ok {
		return ProjectAll(id, records), nil
	}

	records, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, apperrors.NewInternalError("failed to list employees", err)
	}
	if !s.cache.Put(records, gen) {
		s.logger.Debug("employee list changed while loading, not cached")
	}
	return ProjectAll(id, records), nil
}

func (s *Service) ListPage(ctx context.Context, id access.Identity, q PageQuery) (*Page, error) {
	records, total, err := s.repo.GetPage(ctx, q)
	if err != nil {
		s.logger.Error("failed to page employees", "error", err, "page", q.Page, "size", q.Size)
		return nil, apperrors.NewInternalError("failed to list employees", err)
	}
	return newPage(ProjectAll(id, records), q, total), nil
}

// Search matches term case-insensitively against name, department and
// position. A blank term pages through everyone.
func (s *Service) Search(ctx context.Context, id access.Identity, term string, q PageQuery) (*Page, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.ListPage(ctx, id, q)
	}

	records, total, err := s.repo.Search(ctx, term, q)
	if err != nil {
		s.logger.Error("failed to search employees", "error", err, "term", term)
		return nil, apperrors.NewInternalError("failed to search employees", err)
	}
	return newPage(ProjectAll(id, records), q, total), nil
}

// Me returns the caller's own record.
func (s *Service) Me(ctx context.Context, id access.Identity) (*View, error) {
	e, err := s.repo.GetByUserID(ctx, id.SubjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		s.logger.Error("failed to load own profile", "error", err, "subject_id", id.SubjectID)
		return nil, apperrors.NewInternalError("failed to load employee", err)
	}
	return Project(id, e), nil
}

// Update applies the part of changes the caller may write and returns the
// caller's view of the result. Only the surviving fields are validated.
func (s *Service) Update(ctx context.Context, id access.Identity, employeeID int64, changes Changes) (*View, error) {
	e, err := s.fetch(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if !access.CanModifyEmployee(id, e) {
		s.logger.Warn("employee update denied", "employee_id", employeeID, "subject_id", id.SubjectID, "role", id.Role)
		return nil, apperrors.ErrAccessDenied
	}

	allowed := Narrow(id, e, changes)
	if dropped := len(changes.Columns()) - len(allowed.Columns()); dropped > 0 {
		s.logger.Info("employee update narrowed",
			"employee_id", employeeID,
			"subject_id", id.SubjectID,
			"dropped_fields", dropped)
	}
	if err := allowed.Validate(); err != nil {
		return nil, err
	}
	if allowed.IsEmpty() {
		return Project(id, e), nil
	}

	if err := s.repo.Update(ctx, employeeID, allowed.Columns()); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", employeeID)
		return nil, apperrors.NewInternalError("failed to update employee", err)
	}
	s.cache.Invalidate()

	updated, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		// the row was written; fall back to the in-memory result
		e.Apply(allowed)
		updated = e
	}

	s.logger.Info("employee updated",
		"employee_id", employeeID,
		"subject_id", id.SubjectID,
		"fields", allowed.Fields())

	return Project(id, updated), nil
}

// GetRecord returns the unprojected record for internal callers.
func (s *Service) GetRecord(ctx context.Context, employeeID int64) (*Employee, error) {
	return s.fetch(ctx, employeeID)
}

// Owner resolves the owning subject of an employee for other modules.
func (s *Service) Owner(ctx context.Context, employeeID int64) (access.Owned, error) {
	e, err := s.fetch(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DisplayName is the full name on the subject's own employee record.
func (s *Service) DisplayName(ctx context.Context, subjectID int64) (string, error) {
	e, err := s.repo.GetByUserID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			return "", apperrors.ErrEmployeeNotFound
		}
		s.logger.Error("failed to resolve display name", "error", err, "subject_id", subjectID)
		return "", apperrors.NewInternalError("failed to load employee", err)
	}
	return e.FullName(), nil
}

func (s *Service) fetch(ctx context.Context, employeeID int64) (*Employee, error) {
	e, err := s.repo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmployeeNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		s.logger.Error("failed to get employee", "error", err, "employee_id", employeeID)
		return nil, apperrors.NewInternalError("failed to get employee", err)
	}
	return e, nil
}
