package exchange

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kingrea/orgweaver/internal/position"
)

// Columns is the header row written by the tabular encoders, in order.
var Columns = []string{
	"id", "employeeName", "supervisorId", "positionTitle", "jobName",
	"positionNumber", "supervisorPositionNumber",
	"grade", "department", "location", "proformaCost", "employeeCategory",
}

// costColumn is the index of proformaCost in Columns.
const costColumn = 10

const (
	unknownTitle = "Unknown Position"
	unknownJob   = "Unknown Job"
)

func toRow(p position.Position) []string {
	return []string{
		p.ID,
		position.Deref(p.EmployeeName),
		position.Deref(p.SupervisorID),
		p.PositionTitle,
		p.JobName,
		p.PositionNumber,
		position.Deref(p.SupervisorPositionNumber),
		p.Grade,
		p.Department,
		p.Location,
		strconv.FormatFloat(p.ProformaCost, 'f', -1, 64),
		p.EmployeeCategory,
	}
}

func normalizeHeader(header []string) ([]string, error) {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if !utf8.ValidString(h) {
			return nil, fmt.Errorf("invalid header encoding")
		}
		out[i] = h
	}
	return out, nil
}

// fromRow maps one data row onto a record using the header positions. Unknown
// columns are ignored; "null" reads as empty.
func fromRow(header []string, row []string) position.Position {
	var p position.Position
	for i, name := range header {
		if i >= len(row) {
			break
		}
		value := strings.TrimSpace(row[i])
		if value == "null" {
			value = ""
		}
		switch name {
		case "id":
			p.ID = value
		case "employeeName":
			p.EmployeeName = optional(value)
		case "supervisorId":
			p.SupervisorID = optional(value)
		case "positionTitle":
			p.PositionTitle = value
		case "jobName":
			p.JobName = value
		case "positionNumber":
			p.PositionNumber = value
		case "supervisorPositionNumber":
			p.SupervisorPositionNumber = optional(value)
		case "grade":
			p.Grade = value
		case "department":
			p.Department = value
		case "location":
			p.Location = value
		case "proformaCost":
			p.ProformaCost = parseCost(value)
		case "employeeCategory":
			p.EmployeeCategory = value
		}
	}
	return p
}

func parseCost(value string) float64 {
	value = strings.NewReplacer("$", "", ",", "").Replace(value)
	cost, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return cost
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return position.Ref(value)
}

// finalize fills defaults, validates each record and then resolves missing
// supervisor position numbers from the imported set itself. where locates
// each record in the source for error messages.
func finalize(records []position.Position, where []string) ([]position.Position, error) {
	for i := range records {
		rec := records[i].Normalize()
		if rec.ID == "" {
			rec.ID = position.NewID()
		}
		if rec.PositionNumber == "" {
			rec.PositionNumber = "PN-" + rec.ID
		}
		if rec.PositionTitle == "" {
			rec.PositionTitle = unknownTitle
		}
		if rec.JobName == "" {
			rec.JobName = unknownJob
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", where[i], err)
		}
		records[i] = rec
	}

	numbers := make(map[string]string, len(records))
	for _, rec := range records {
		numbers[rec.ID] = rec.PositionNumber
	}
	for i, rec := range records {
		if rec.TopLevel() || rec.SupervisorPositionNumber != nil {
			continue
		}
		if number, ok := numbers[rec.SupervisorKey()]; ok {
			records[i].SupervisorPositionNumber = position.Ref(number)
		}
	}
	return records, nil
}
