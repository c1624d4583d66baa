package absence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/access"
	"github.com/frahmantamala/hr-records/internal/core/common/validation"
	"github.com/frahmantamala/hr-records/internal/core/events"
)

type RepositoryAPI interface {
	Create(ctx context.Context, a *Absence) error
	GetByID(ctx context.Context, id int64) (*Absence, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]*Absence, error)
	List(ctx context.Context, filter ListFilter) ([]*Absence, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	// SaveRevision writes the editable fields if the stored row is still
	// pending at version. It reports false when nothing matched.
	SaveRevision(ctx context.Context, a *Absence, version int) (bool, error)
	// SaveStatus writes status and the approval stamp if the stored row is
	// still at version, and additionally still pending when requirePending.
	SaveStatus(ctx context.Context, a *Absence, version int, requirePending bool) (bool, error)
}

// EmployeeLookup resolves the owner of an employee record.
type EmployeeLookup interface {
	Owner(ctx context.Context, employeeID int64) (access.Owned, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	employees EmployeeLookup
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, which decides "today" and decision stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo RepositoryAPI, employees EmployeeLookup, publisher Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		employees: employees,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create files a pending request for the caller's own employee record.
// Date validation runs before any permission check.
func (s *Service) Create(ctx context.Context, id access.Identity, employeeID int64, dto AbsenceRequestDTO) (*Absence, error) {
	now := s.now()
	submission, err := dto.Validate(validation.Day(now))
	if err != nil {
		s.logger.Warn("absence request rejected", "error", err, "employee_id", employeeID, "subject_id", id.SubjectID)
		return nil, err
	}

	owner, err := s.employees.Owner(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(id, owner) {
		s.logger.Warn("absence create denied", "employee_id", employeeID, "subject_id", id.SubjectID)
		return nil, apperrors.ErrAccessDenied
	}

	a := NewAbsence(employeeID, submission, now)
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("failed to create absence", "error", err, "employee_id", employeeID)
		return nil, apperrors.NewInternalError("failed to create absence request", err)
	}

	s.logger.Info("absence created",
		"absence_id", a.ID,
		"employee_id", employeeID,
		"type", a.Type,
		"start_date", a.StartDate.Format(validation.DateLayout),
		"end_date", a.EndDate.Format(validation.DateLayout))

	return a, nil
}

// Update edits a pending request. Only the owner may do it.
func (s *Service) Update(ctx context.Context, id access.Identity, absenceID int64, dto AbsenceRequestDTO) (*Absence, error) {
	a, err := s.ownedRequest(ctx, id, absenceID)
	if err != nil {
		return nil, err
	}
	if !a.IsPending() {
		s.logger.Warn("absence update on decided request", "absence_id", absenceID, "status", a.Status)
		return nil, apperrors.ErrAbsenceNotPending
	}

	now := s.now()
	submission, err := dto.Validate(validation.Day(now))
	if err != nil {
		return nil, err
	}

	version := a.Version
	a.Revise(submission)
	a.UpdatedAt = now

	ok, err := s.repo.SaveRevision(ctx, a, version)
	if err != nil {
		s.logger.Error("failed to update absence", "error", err, "absence_id", absenceID)
		return nil, apperrors.NewInternalError("failed to update absence request", err)
	}
	if !ok {
		return nil, s.lostRace(ctx, absenceID, true)
	}
	a.Version = version + 1

	s.logger.Info("absence updated", "absence_id", absenceID, "subject_id", id.SubjectID)
	return a, nil
}

// Cancel withdraws a pending request. The owner is recorded as the actor.
func (s *Service) Cancel(ctx context.Context, id access.Identity, absenceID int64) (*Absence, error) {
	a, err := s.ownedRequest(ctx, id, absenceID)
	if err != nil {
		return nil, err
	}
	if !a.IsPending() {
		s.logger.Warn("absence cancel on decided request", "absence_id", absenceID, "status", a.Status)
		return nil, apperrors.ErrAbsenceNotPending
	}

	previous := a.Status
	version := a.Version
	a.Settle(StatusCancelled, id.SubjectID, s.now())

	ok, err := s.repo.SaveStatus(ctx, a, version, true)
	if err != nil {
		s.logger.Error("failed to cancel absence", "error", err, "absence_id", absenceID)
		return nil, apperrors.NewInternalError("failed to cancel absence request", err)
	}
	if !ok {
		return nil, s.lostRace(ctx, absenceID, true)
	}
	a.Version = version + 1

	s.logger.Info("absence cancelled", "absence_id", absenceID, "subject_id", id.SubjectID)
	s.publishStatusChange(ctx, a, previous, id)
	return a, nil
}

// Decide approves or rejects a request. The current status is not checked,
// so a decision can be corrected later; every call re-stamps the approver.
func (s *Service) Decide(ctx context.Context, id access.Identity, absenceID int64, status Status) (*Absence, error) {
	if !access.CanDecideAbsence(id) {
		s.logger.Warn("absence decision denied", "absence_id", absenceID, "subject_id", id.SubjectID, "role", id.Role)
		return nil, apperrors.ErrAccessDenied
	}
	if !status.IsDecision() {
		return nil, apperrors.NewValidationFieldError("status", "status must be approved or rejected", apperrors.ErrCodeInvalidStatus)
	}

	a, err := s.fetch(ctx, absenceID)
	if err != nil {
		return nil, err
	}

	previous := a.Status
	version := a.Version
	a.Settle(status, id.SubjectID, s.now())

	ok, err := s.repo.SaveStatus(ctx, a, version, false)
	if err != nil {
		s.logger.Error("failed to save absence decision", "error", err, "absence_id", absenceID)
		return nil, apperrors.NewInternalError("failed to update absence status", err)
	}
	if !ok {
		return nil, s.lostRace(ctx, absenceID, false)
	}
	a.Version = version + 1

	s.logger.Info("absence decided",
		"absence_id", absenceID,
		"employee_id", a.EmployeeID,
		"previous_status", previous,
		"status", status,
		"subject_id", id.SubjectID)

	s.publishStatusChange(ctx, a, previous, id)
	return a, nil
}

// ListForEmployee returns one employee's requests, newest first. The workflow
// itself does not role-gate this read. This method also acts as the boundary
// that resolves employeeID, so it admits only the employee and privileged
// callers and returns ErrAccessDenied to everyone else.
func (s *Service) ListForEmployee(ctx context.Context, id access.Identity, employeeID int64) ([]*Absence, error) {
	owner, err := s.employees.Owner(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(id, owner) && !access.CanListAllAbsences(id) {
		s.logger.Warn("absence listing denied", "employee_id", employeeID, "subject_id", id.SubjectID)
		return nil, apperrors.ErrAccessDenied
	}

	list, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to list absences", "error", err, "employee_id", employeeID)
		return nil, apperrors.NewInternalError("failed to list absence requests", err)
	}
	return list, nil
}

func (s *Service) ListAll(ctx context.Context, id access.Identity, filter ListFilter) ([]*Absence, error) {
	if !access.CanListAllAbsences(id) {
		s.logger.Warn("absence listing denied", "subject_id", id.SubjectID, "role", id.Role)
		return nil, apperrors.ErrAccessDenied
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list absences", "error", err, "status", filter.Status)
		return nil, apperrors.NewInternalError("failed to list absence requests", err)
	}
	return list, nil
}

func (s *Service) PendingCount(ctx context.Context, id access.Identity) (int64, error) {
	if !access.CanListAllAbsences(id) {
		return 0, apperrors.ErrAccessDenied
	}

	n, err := s.repo.CountByStatus(ctx, StatusPending)
	if err != nil {
		s.logger.Error("failed to count pending absences", "error", err)
		return 0, apperrors.NewInternalError("failed to count absence requests", err)
	}
	return n, nil
}

func (s *Service) ownedRequest(ctx context.Context, id access.Identity, absenceID int64) (*Absence, error) {
	a, err := s.fetch(ctx, absenceID)
	if err != nil {
		return nil, err
	}

	owner, err := s.employees.Owner(ctx, a.EmployeeID)
	if err != nil && !errors.Is(err, apperrors.ErrEmployeeNotFound) {
		return nil, err
	}
	if !access.IsOwner(id, owner) {
		s.logger.Warn("absence change denied", "absence_id", absenceID, "subject_id", id.SubjectID)
		return nil, apperrors.ErrAccessDenied
	}
	return a, nil
}

func (s *Service) fetch(ctx context.Context, absenceID int64) (*Absence, error) {
	a, err := s.repo.GetByID(ctx, absenceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAbsenceNotFound) {
			return nil, apperrors.ErrAbsenceNotFound
		}
		s.logger.Error("failed to get absence", "error", err, "absence_id", absenceID)
		return nil, apperrors.NewInternalError("failed to get absence request", err)
	}
	return a, nil
}

// lostRace explains a guarded write that matched no row: the request was
// decided in the meantime, or it changed under us.
func (s *Service) lostRace(ctx context.Context, absenceID int64, needPending bool) error {
	current, err := s.fetch(ctx, absenceID)
	if err != nil {
		return err
	}
	s.logger.Warn("absence write lost a concurrent update",
		"absence_id", absenceID,
		"status", current.Status,
		"version", current.Version)
	if needPending && !current.IsPending() {
		return apperrors.ErrAbsenceNotPending
	}
	return apperrors.ErrAbsenceModifiedConcurrently
}

func (s *Service) publishStatusChange(ctx context.Context, a *Absence, previous Status, id access.Identity) {
	if s.publisher == nil {
		return
	}
	event := events.NewAbsenceStatusChangedEvent(a.ID, a.EmployeeID, string(previous), string(a.Status), id.SubjectID, *a.ApprovedAt)
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Error("failed to publish absence status change", "error", err, "absence_id", a.ID)
	}
}
