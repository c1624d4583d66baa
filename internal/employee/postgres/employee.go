package postgres

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/frahmantamala/hr-records/internal"
	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-records/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employee.Employee, error) {
	var row employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&row), nil
}

func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID int64) (*employee.Employee, error) {
	var row employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&row), nil
}

func (r *EmployeeRepository) GetAll(ctx context.Context) ([]*employee.Employee, error) {
	var rows []*employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(rows), nil
}

func (r *EmployeeRepository) GetPage(ctx context.Context, q employee.PageQuery) ([]*employee.Employee, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}), q)
}

func (r *EmployeeRepository) Search(ctx context.Context, term string, q employee.PageQuery) ([]*employee.Employee, int64, error) {
	like := "%" + escapeLike(strings.ToLower(term)) + "%"
	scope := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).
		Where(`LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(department) LIKE ? ESCAPE '\' OR LOWER(position) LIKE ? ESCAPE '\'`,
			like, like, like, like)
	return r.page(scope, q)
}

func (r *EmployeeRepository) Update(ctx context.Context, id int64, columns map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) page(scope *gorm.DB, q employee.PageQuery) ([]*employee.Employee, int64, error) {
	var total int64
	if err := scope.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*employeeDatamodel.Employee
	if err := scope.Session(&gorm.Session{}).
		Order(q.OrderClause()).
		Limit(q.Size).
		Offset(q.Offset()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return employee.FromDataModelSlice(rows), total, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
