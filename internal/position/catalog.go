package position

import (
	"strconv"
	"strings"
)

// Option is a value/label pair offered by pickers.
type Option struct {
	Value string
	Label string
}

// EmployeeCategories lists the contract categories a position can carry.
var EmployeeCategories = []Option{
	{Value: "Staff", Label: "Staff"},
	{Value: "PSA", Label: "PSA (Professional Services)"},
	{Value: "LSC", Label: "LSC (Limited Service Contractor)"},
	{Value: "Intern", Label: "Intern"},
	{Value: "IndividualConsultant", Label: "Individual Consultant"},
	{Value: "Fellow", Label: "Fellow"},
}

// Grades lists the predefined grade ladder.
var Grades = []Option{
	{Value: "L1", Label: "L1 - Associate"},
	{Value: "L2", Label: "L2 - Analyst"},
	{Value: "L3", Label: "L3 - Senior Analyst"},
	{Value: "L4", Label: "L4 - Manager"},
	{Value: "L5", Label: "L5 - Senior Manager"},
	{Value: "L6", Label: "L6 - Director"},
	{Value: "L7", Label: "L7 - Senior Director"},
	{Value: "VP", Label: "VP - Vice President"},
	{Value: "SVP", Label: "SVP - Senior Vice President"},
	{Value: "CSuite", Label: "C-Suite"},
	{Value: "InternG", Label: "Intern Grade"},
	{Value: "ConsultantG", Label: "Consultant Grade"},
	{Value: "FellowG", Label: "Fellow Grade"},
	{Value: "N/A", Label: "N/A"},
}

// Locations lists the predefined office locations.
var Locations = []Option{
	{Value: "NewYork", Label: "New York, USA"},
	{Value: "London", Label: "London, UK"},
	{Value: "Tokyo", Label: "Tokyo, Japan"},
	{Value: "SanFrancisco", Label: "San Francisco, USA"},
	{Value: "Berlin", Label: "Berlin, Germany"},
	{Value: "Singapore", Label: "Singapore"},
	{Value: "Remote", Label: "Remote"},
	{Value: "N/A", Label: "N/A"},
}

// Attribute names a field that a chart card can show.
type Attribute string

const (
	AttrEmployeeNumber   Attribute = "employeeNumber"
	AttrEmployeeName     Attribute = "employeeName"
	AttrSupervisorID     Attribute = "supervisorId"
	AttrSupervisorName   Attribute = "supervisorName"
	AttrPositionTitle    Attribute = "positionTitle"
	AttrPositionNumber   Attribute = "positionNumber"
	AttrJobName          Attribute = "jobName"
	AttrGrade            Attribute = "grade"
	AttrDepartment       Attribute = "department"
	AttrLocation         Attribute = "location"
	AttrProformaCost     Attribute = "proformaCost"
	AttrEmployeeCategory Attribute = "employeeCategory"
)

// AttributeLabels maps every known attribute to its column label.
var AttributeLabels = map[Attribute]string{
	AttrEmployeeNumber:   "Employee No.",
	AttrEmployeeName:     "Name",
	AttrSupervisorID:     "Supervisor No.",
	AttrSupervisorName:   "Supervisor Name",
	AttrPositionTitle:    "Position Title",
	AttrPositionNumber:   "Position No.",
	AttrJobName:          "Job Name",
	AttrGrade:            "Grade",
	AttrDepartment:       "Department",
	AttrLocation:         "Location",
	AttrProformaCost:     "Proforma Cost",
	AttrEmployeeCategory: "Category",
}

// DefaultAttributes is the card layout used until the user picks another.
var DefaultAttributes = []Attribute{
	AttrEmployeeName,
	AttrPositionTitle,
	AttrDepartment,
	AttrProformaCost,
	AttrEmployeeCategory,
	AttrGrade,
	AttrLocation,
}

// KnownAttribute reports whether name is a recognised attribute key.
func KnownAttribute(name string) bool {
	_, ok := AttributeLabels[Attribute(strings.TrimSpace(name))]
	return ok
}

// AttributeValue renders one attribute of p. supervisorName is supplied by the
// caller because it is derived from the hierarchy, not stored on the record.
func (p Position) AttributeValue(attr Attribute, supervisorName string) string {
	switch attr {
	case AttrEmployeeNumber:
		return p.ID
	case AttrEmployeeName:
		if p.Vacant() {
			return "Vacant"
		}
		return *p.EmployeeName
	case AttrSupervisorID:
		return p.SupervisorKey()
	case AttrSupervisorName:
		return supervisorName
	case AttrPositionTitle:
		return p.PositionTitle
	case AttrPositionNumber:
		return p.PositionNumber
	case AttrJobName:
		return p.JobName
	case AttrGrade:
		return p.Grade
	case AttrDepartment:
		return p.Department
	case AttrLocation:
		return p.Location
	case AttrProformaCost:
		return FormatCost(p.ProformaCost)
	case AttrEmployeeCategory:
		return p.EmployeeCategory
	default:
		return ""
	}
}

// FormatCost renders a cost with thousands separators and no decimals.
func FormatCost(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	digits := strconv.FormatFloat(value, 'f', 0, 64)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if negative {
		return "-$" + b.String()
	}
	return "$" + b.String()
}
