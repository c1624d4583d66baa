package postgres

import (
	"context"
	"errors"

	apperrors "github.com/frahmantamala/hr-records/internal"
	feedbackDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/feedback"
	"github.com/frahmantamala/hr-records/internal/feedback"
	"gorm.io/gorm"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) feedback.RepositoryAPI {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *feedback.Feedback) error {
	row := feedback.ToDataModel(f)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	f.ID = row.ID
	f.CreatedAt = row.CreatedAt
	f.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*feedback.Feedback, error) {
	var row feedbackDatamodel.Feedback
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFeedbackNotFound
		}
		return nil, err
	}
	return feedback.FromDataModel(&row), nil
}

func (r *FeedbackRepository) ListByEmployee(ctx context.Context, employeeID int64) ([]*feedback.Feedback, error) {
	var rows []*feedbackDatamodel.Feedback
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return feedback.FromDataModelSlice(rows), nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&feedbackDatamodel.Feedback{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrFeedbackNotFound
	}
	return nil
}
