package employee

import (
	"strconv"
	"strings"
	"time"

	errors "github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/internal/core/common/validation"
)

// UpdateEmployeeDTO is the PUT /employees/{id} payload. Omitted or null
// fields are left unchanged.
type UpdateEmployeeDTO struct {
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Position       *string `json:"position,omitempty"`
	Department     *string `json:"department,omitempty"`
	PhotoURL       *string `json:"photo_url,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	OfficeLocation *string `json:"office_location,omitempty"`

	Salary           *float64 `json:"salary,omitempty"`
	DateOfBirth      *string  `json:"date_of_birth,omitempty"`
	NationalID       *string  `json:"national_id,omitempty"`
	BankAccount      *string  `json:"bank_account,omitempty"`
	Address          *string  `json:"address,omitempty"`
	EmergencyContact *string  `json:"emergency_contact,omitempty"`
	HireDate         *string  `json:"hire_date,omitempty"`
	ContractType     *string  `json:"contract_type,omitempty"`
}

// ToChanges converts the payload into Changes. Values are not checked here:
// the service calls Changes.Validate once the fields the caller may not write
// have been dropped, so a rejected value in a dropped field is never reported.
func (dto UpdateEmployeeDTO) ToChanges() Changes {
	changes := Changes{
		FirstName:        dto.FirstName,
		LastName:         dto.LastName,
		Position:         dto.Position,
		Department:       dto.Department,
		PhotoURL:         dto.PhotoURL,
		Phone:            dto.Phone,
		OfficeLocation:   dto.OfficeLocation,
		Salary:           dto.Salary,
		NationalID:       dto.NationalID,
		BankAccount:      dto.BankAccount,
		Address:          dto.Address,
		EmergencyContact: dto.EmergencyContact,
		ContractType:     dto.ContractType,
	}
	changes.DateOfBirth = changes.parseDate("date_of_birth", dto.DateOfBirth)
	changes.HireDate = changes.parseDate("hire_date", dto.HireDate)
	return changes
}

func (c *Changes) parseDate(field string, value *string) *time.Time {
	if value == nil {
		return nil
	}
	d, err := validation.ParseDate(field, *value)
	if err != nil {
		c.badDates = append(c.badDates, err)
		return nil
	}
	return &d
}

// Validate checks the values present in c, including dates that failed to
// parse.
func (c Changes) Validate() error {
	if len(c.badDates) > 0 {
		return c.badDates[0]
	}

	v := validation.NewValidator()
	if c.FirstName != nil {
		v.Field("first_name", *c.FirstName).Required().MaxLength(100)
	}
	if c.LastName != nil {
		v.Field("last_name", *c.LastName).Required().MaxLength(100)
	}
	if c.Phone != nil {
		v.Field("phone", *c.Phone).MaxLength(30)
	}
	if c.Salary != nil && *c.Salary < 0 {
		return errors.NewValidationFieldError("salary", "salary cannot be negative", errors.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// sortColumns maps the accepted sortBy values to storage columns.
var sortColumns = map[string]string{
	"firstName":  "first_name",
	"lastName":   "last_name",
	"department": "department",
	"position":   "position",
	"hireDate":   "hire_date",
}

// PageQuery is a normalised page request. Page is zero based.
type PageQuery struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// NewPageQuery parses raw query values, falling back to defaults for
// anything missing. Unknown sort keys and out of range numbers are
// validation errors.
func NewPageQuery(page, size, sortBy, sortDir string) (PageQuery, error) {
	q := PageQuery{Page: 0, Size: DefaultPageSize, SortBy: "lastName", SortDir: "asc"}

	if page != "" {
		p, err := strconv.Atoi(page)
		if err != nil || p < 0 {
			return q, errors.NewValidationFieldError("page", "page must be a non-negative integer", errors.ErrCodeValidationFailed)
		}
		q.Page = p
	}
	if size != "" {
		s, err := strconv.Atoi(size)
		if err != nil || s < 1 || s > MaxPageSize {
			return q, errors.NewValidationFieldError("size", "size must be between 1 and 100", errors.ErrCodeValidationFailed)
		}
		q.Size = s
	}
	if sortBy != "" {
		if _, ok := sortColumns[sortBy]; !ok {
			return q, errors.NewValidationFieldError("sortBy", "sortBy must be one of firstName, lastName, department, position, hireDate", errors.ErrCodeValidationFailed)
		}
		q.SortBy = sortBy
	}
	if sortDir != "" {
		d := strings.ToLower(sortDir)
		if d != "asc" && d != "desc" {
			return q, errors.NewValidationFieldError("sortDir", "sortDir must be asc or desc", errors.ErrCodeValidationFailed)
		}
		q.SortDir = d
	}
	return q, nil
}

// OrderClause renders the sort as SQL, with id as a stable tiebreaker.
func (q PageQuery) OrderClause() string {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "last_name"
	}
	dir := "ASC"
	if q.SortDir == "desc" {
		dir = "DESC"
	}
	return col + " " + dir + ", id ASC"
}

func (q PageQuery) Offset() int {
	return q.Page * q.Size
}

type Page struct {
	Items      []*View `json:"items"`
	Page       int     `json:"page"`
	Size       int     `json:"size"`
	TotalItems int64   `json:"total_items"`
	TotalPages int     `json:"total_pages"`
}

func newPage(items []*View, q PageQuery, total int64) *Page {
	pages := 0
	if q.Size > 0 {
		pages = int((total + int64(q.Size) - 1) / int64(q.Size))
	}
	return &Page{Items: items, Page: q.Page, Size: q.Size, TotalItems: total, TotalPages: pages}
}
