package employee

import (
	"time"

	apperrors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/access"
)

const dateLayout = "2006-01-02"

// View is the caller-specific projection of an Employee. Confidential fields
// are nil, and omitted from JSON, unless the caller may see them.
type View struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Position       string `json:"position"`
	Department     string `json:"department"`
	PhotoURL       string `json:"photo_url"`
	Phone          string `json:"phone"`
	OfficeLocation string `json:"office_location"`

	Salary           *float64 `json:"salary,omitempty"`
	DateOfBirth      *string  `json:"date_of_birth,omitempty"`
	NationalID       *string  `json:"national_id,omitempty"`
	BankAccount      *string  `json:"bank_account,omitempty"`
	Address          *string  `json:"address,omitempty"`
	EmergencyContact *string  `json:"emergency_contact,omitempty"`
	HireDate         *string  `json:"hire_date,omitempty"`
	ContractType     *string  `json:"contract_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasConfidential reports whether any confidential field is present.
func (v *View) HasConfidential() bool {
	return v.Salary != nil || v.DateOfBirth != nil || v.NationalID != nil || v.BankAccount != nil ||
		v.Address != nil || v.EmergencyContact != nil || v.HireDate != nil || v.ContractType != nil
}

// Project builds the view of e visible to id. Every read path goes through
// here. The view never aliases the record's pointers.
func Project(id access.Identity, e *Employee) *View {
	v := &View{
		ID:             e.ID,
		UserID:         e.UserID,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Position:       e.Position,
		Department:     e.Department,
		PhotoURL:       e.PhotoURL,
		Phone:          e.Phone,
		OfficeLocation: e.OfficeLocation,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if !access.CanViewConfidential(id, e) {
		return v
	}

	v.Salary = copyPtr(e.Salary)
	v.DateOfBirth = formatDate(e.DateOfBirth)
	v.NationalID = copyPtr(e.NationalID)
	v.BankAccount = copyPtr(e.BankAccount)
	v.Address = copyPtr(e.Address)
	v.EmergencyContact = copyPtr(e.EmergencyContact)
	v.HireDate = formatDate(e.HireDate)
	v.ContractType = copyPtr(e.ContractType)
	return v
}

func ProjectAll(id access.Identity, employees []*Employee) []*View {
	views := make([]*View, len(employees))
	for i, e := range employees {
		views[i] = Project(id, e)
	}
	return views
}

// Changes is a partial update. A nil field means "leave unchanged"; fields
// cannot be cleared through it. The owner is not part of it.
type Changes struct {
	FirstName      *string
	LastName       *string
	Position       *string
	Department     *string
	PhotoURL       *string
	Phone          *string
	OfficeLocation *string

	Salary           *float64
	DateOfBirth      *time.Time
	NationalID       *string
	BankAccount      *string
	Address          *string
	EmergencyContact *string
	HireDate         *time.Time
	ContractType     *string

	// badDates holds parse failures for the date fields, which are then nil.
	// They travel with the proposal so Narrow can drop them with their field.
	badDates []*apperrors.AppError
}

// Narrow keeps the part of proposed that id may write to e. Privileged
// callers pass everything; a non-privileged owner keeps only the contact
// fields; anyone else keeps nothing. Dropped fields are not an error.
func Narrow(id access.Identity, e *Employee, proposed Changes) Changes {
	if id.IsPrivileged() {
		return proposed
	}
	if !access.CanModifyEmployee(id, e) {
		return Changes{}
	}
	return Changes{
		Phone:            proposed.Phone,
		OfficeLocation:   proposed.OfficeLocation,
		Address:          proposed.Address,
		EmergencyContact: proposed.EmergencyContact,
	}
}

func (c Changes) IsEmpty() bool {
	return len(c.Columns()) == 0
}

// Fields lists the present fields by column name, for logging.
func (c Changes) Fields() []string {
	cols := c.Columns()
	fields := make([]string, 0, len(cols))
	for _, name := range columnOrder {
		if _, ok := cols[name]; ok {
			fields = append(fields, name)
		}
	}
	return fields
}

var columnOrder = []string{
	"first_name", "last_name", "position", "department", "photo_url", "phone", "office_location",
	"salary", "date_of_birth", "national_id", "bank_account", "address", "emergency_contact",
	"hire_date", "contract_type",
}

// Columns maps the present fields to their storage columns.
func (c Changes) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	putString(cols, "first_name", c.FirstName)
	putString(cols, "last_name", c.LastName)
	putString(cols, "position", c.Position)
	putString(cols, "department", c.Department)
	putString(cols, "photo_url", c.PhotoURL)
	putString(cols, "phone", c.Phone)
	putString(cols, "office_location", c.OfficeLocation)
	if c.Salary != nil {
		cols["salary"] = *c.Salary
	}
	if c.DateOfBirth != nil {
		cols["date_of_birth"] = *c.DateOfBirth
	}
	putString(cols, "national_id", c.NationalID)
	putString(cols, "bank_account", c.BankAccount)
	putString(cols, "address", c.Address)
	putString(cols, "emergency_contact", c.EmergencyContact)
	if c.HireDate != nil {
		cols["hire_date"] = *c.HireDate
	}
	putString(cols, "contract_type", c.ContractType)
	return cols
}

// Apply writes the present fields onto e.
func (e *Employee) Apply(c Changes) {
	setString(&e.FirstName, c.FirstName)
	setString(&e.LastName, c.LastName)
	setString(&e.Position, c.Position)
	setString(&e.Department, c.Department)
	setString(&e.PhotoURL, c.PhotoURL)
	setString(&e.Phone, c.Phone)
	setString(&e.OfficeLocation, c.OfficeLocation)
	if c.Salary != nil {
		e.Salary = copyPtr(c.Salary)
	}
	if c.DateOfBirth != nil {
		e.DateOfBirth = copyPtr(c.DateOfBirth)
	}
	if c.NationalID != nil {
		e.NationalID = copyPtr(c.NationalID)
	}
	if c.BankAccount != nil {
		e.BankAccount = copyPtr(c.BankAccount)
	}
	if c.Address != nil {
		e.Address = copyPtr(c.Address)
	}
	if c.EmergencyContact != nil {
		e.EmergencyContact = copyPtr(c.EmergencyContact)
	}
	if c.HireDate != nil {
		e.HireDate = copyPtr(c.HireDate)
	}
	if c.ContractType != nil {
		e.ContractType = copyPtr(c.ContractType)
	}
}

func putString(cols map[string]interface{}, name string, v *string) {
	if v != nil {
		cols[name] = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
