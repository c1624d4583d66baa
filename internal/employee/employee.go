package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/hr-records/internal/core/datamodel/employee"
)

// Employee is the full stored record. Confidential fields are pointers so an
// unset value stays distinguishable from a zero value.
type Employee struct {
	ID     int64
	UserID int64

	FirstName      string
	LastName       string
	Position       string
	Department     string
	PhotoURL       string
	Phone          string
	OfficeLocation string

	Salary           *float64
	DateOfBirth      *time.Time
	NationalID       *string
	BankAccount      *string
	Address          *string
	EmergencyContact *string
	HireDate         *time.Time
	ContractType     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnerSubjectID is the account that owns the record. It never changes after
// creation.
func (e *Employee) OwnerSubjectID() int64 {
	return e.UserID
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:               e.ID,
		UserID:           e.UserID,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		Position:         e.Position,
		Department:       e.Department,
		PhotoURL:         e.PhotoURL,
		Phone:            e.Phone,
		OfficeLocation:   e.OfficeLocation,
		Salary:           e.Salary,
		DateOfBirth:      e.DateOfBirth,
		NationalID:       e.NationalID,
		BankAccount:      e.BankAccount,
		Address:          e.Address,
		EmergencyContact: e.EmergencyContact,
		HireDate:         e.HireDate,
		ContractType:     e.ContractType,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:               e.ID,
		UserID:           e.UserID,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		Position:         e.Position,
		Department:       e.Department,
		PhotoURL:         e.PhotoURL,
		Phone:            e.Phone,
		OfficeLocation:   e.OfficeLocation,
		Salary:           e.Salary,
		DateOfBirth:      e.DateOfBirth,
		NationalID:       e.NationalID,
		BankAccount:      e.BankAccount,
		Address:          e.Address,
		EmergencyContact: e.EmergencyContact,
		HireDate:         e.HireDate,
		ContractType:     e.ContractType,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func FromDataModelSlice(employees []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(employees))
	for i, e := range employees {
		result[i] = FromDataModel(e)
	}
	return result
}
