package postgres

import (
	"context"
	"errors"

	apperrors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/absence"
	absenceDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/absence"
	"gorm.io/gorm"
)

type AbsenceRepository struct {
	db *gorm.DB
}

func NewAbsenceRepository(db *gorm.DB) absence.RepositoryAPI {
	return &AbsenceRepository{db: db}
}

func (r *AbsenceRepository) Create(ctx context.Context, a *absence.Absence) error {
	row := absence.ToDataModel(a)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	a.ID = row.ID
	a.CreatedAt = row.CreatedAt
	a.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *AbsenceRepository) GetByID(ctx context.Context, id int64) (*absence.Absence, error) {
	var row absenceDatamodel.Absence
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAbsenceNotFound
		}
		return nil, err
	}
	return absence.FromDataModel(&row), nil
}

func (r *AbsenceRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*absence.Absence, error) {
	var rows []*absenceDatamodel.Absence
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return absence.FromDataModelSlice(rows), nil
}

func (r *AbsenceRepository) List(ctx context.Context, filter absence.ListFilter) ([]*absence.Absence, error) {
	q := r.db.WithContext(ctx)
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.EmployeeID != 0 {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}

	var rows []*absenceDatamodel.Absence
	if err := q.Order("start_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return absence.FromDataModelSlice(rows), nil
}

func (r *AbsenceRepository) CountByStatus(ctx context.Context, status absence.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&absenceDatamodel.Absence{}).
		Where("status = ?", string(status)).
		Count(&n).Error
	return n, err
}

func (r *AbsenceRepository) SaveRevision(ctx context.Context, a *absence.Absence, version int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&absenceDatamodel.Absence{}).
		Where("id = ? AND version = ? AND status = ?", a.ID, version, string(absence.StatusPending)).
		Updates(map[string]interface{}{
			"start_date":   a.StartDate,
			"end_date":     a.EndDate,
			"absence_type": string(a.Type),
			"reason":       a.Reason,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   a.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *AbsenceRepository) SaveStatus(ctx context.Context, a *absence.Absence, version int, requirePending bool) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&absenceDatamodel.Absence{}).
		Where("id = ? AND version = ?", a.ID, version)
	if requirePending {
		q = q.Where("status = ?", string(absence.StatusPending))
	}

	result := q.Updates(map[string]interface{}{
		"status":      string(a.Status),
		"approved_by": a.ApprovedBy,
		"approved_at": a.ApprovedAt,
		"version":     gorm.Expr("version + 1"),
		"updated_at":  a.UpdatedAt,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
