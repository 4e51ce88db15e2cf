// Package position defines the flat position record that every other part of
// orgweaver reads and writes. Records carry no tree pointers; the hierarchy is
// reconstructed on demand from SupervisorID references.
package position

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Position is one seat in the organisation. A nil EmployeeName marks a vacancy.
type Position struct {
	ID                       string  `json:"id" yaml:"id" validate:"required"`
	EmployeeName             *string `json:"employeeName" yaml:"employeeName"`
	SupervisorID             *string `json:"supervisorId" yaml:"supervisorId"`
	PositionTitle            string  `json:"positionTitle" yaml:"positionTitle" validate:"required"`
	JobName                  string  `json:"jobName" yaml:"jobName" validate:"required"`
	PositionNumber           string  `json:"positionNumber,omitempty" yaml:"positionNumber,omitempty"`
	SupervisorPositionNumber *string `json:"supervisorPositionNumber,omitempty" yaml:"supervisorPositionNumber,omitempty"`
	Department               string  `json:"department,omitempty" yaml:"department,omitempty"`
	Location                 string  `json:"location,omitempty" yaml:"location,omitempty"`
	Grade                    string  `json:"grade,omitempty" yaml:"grade,omitempty"`
	EmployeeCategory         string  `json:"employeeCategory,omitempty" yaml:"employeeCategory,omitempty"`
	ProformaCost             float64 `json:"proformaCost" yaml:"proformaCost" validate:"gte=0"`
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// Ref returns a pointer to a copy of value. Handy for the optional fields.
func Ref(value string) *string {
	return &value
}

// Deref returns the pointed-to value or "".
func Deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// Vacant reports whether nobody currently holds the position.
func (p Position) Vacant() bool {
	return p.EmployeeName == nil
}

// DisplayName is the employee name, falling back to the position title.
func (p Position) DisplayName() string {
	if p.EmployeeName != nil {
		return *p.EmployeeName
	}
	return p.PositionTitle
}

// SupervisorKey returns the supervisor id or "" for a top-level record.
func (p Position) SupervisorKey() string {
	return Deref(p.SupervisorID)
}

// TopLevel reports whether the record declares no supervisor.
func (p Position) TopLevel() bool {
	return p.SupervisorKey() == ""
}

// Clone returns a deep copy so callers never share the optional pointers.
func (p Position) Clone() Position {
	clone := p
	clone.EmployeeName = cloneRef(p.EmployeeName)
	clone.SupervisorID = cloneRef(p.SupervisorID)
	clone.SupervisorPositionNumber = cloneRef(p.SupervisorPositionNumber)
	return clone
}

// Normalize trims every text field. Blank employee names and supervisor ids
// collapse to nil so that vacancies and top-level records have one spelling.
func (p Position) Normalize() Position {
	out := p.Clone()
	out.ID = strings.TrimSpace(out.ID)
	out.EmployeeName = trimRef(out.EmployeeName)
	out.SupervisorID = trimRef(out.SupervisorID)
	out.SupervisorPositionNumber = trimRef(out.SupervisorPositionNumber)
	out.PositionTitle = strings.TrimSpace(out.PositionTitle)
	out.JobName = strings.TrimSpace(out.JobName)
	out.PositionNumber = strings.TrimSpace(out.PositionNumber)
	out.Department = strings.TrimSpace(out.Department)
	out.Location = strings.TrimSpace(out.Location)
	out.Grade = strings.TrimSpace(out.Grade)
	out.EmployeeCategory = strings.TrimSpace(out.EmployeeCategory)
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the required fields and the cost bound.
func (p Position) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("position: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fieldLabel(fe.Field())))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be >= %s", fieldLabel(fe.Field()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fieldLabel(fe.Field()), fe.Tag()))
		}
	}
	return fmt.Errorf("position %q: %s", p.ID, strings.Join(msgs, "; "))
}

func fieldLabel(field string) string {
	switch field {
	case "ID":
		return "id"
	case "PositionTitle":
		return "position title"
	case "JobName":
		return "job name"
	case "ProformaCost":
		return "proforma cost"
	default:
		return strings.ToLower(field)
	}
}

func cloneRef(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func trimRef(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
