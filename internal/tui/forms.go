package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/kingrea/orgweaver/internal/hierarchy"
	"github.com/kingrea/orgweaver/internal/position"
)

type formKind int

const (
	formAdd formKind = iota
	formEdit
	formDelete
	formGoals
	formImport
	formAttributes
)

// positionForm backs the add/edit dialog. Fields are strings so huh can bind
// to them directly.
type positionForm struct {
	editingID        string
	EmployeeName     string
	PositionTitle    string
	JobName          string
	PositionNumber   string
	SupervisorID     string
	Department       string
	Location         string
	Grade            string
	EmployeeCategory string
	ProformaCost     string
}

func newPositionForm(p position.Position) *positionForm {
	f := &positionForm{
		editingID:        p.ID,
		EmployeeName:     position.Deref(p.EmployeeName),
		PositionTitle:    p.PositionTitle,
		JobName:          p.JobName,
		PositionNumber:   p.PositionNumber,
		SupervisorID:     p.SupervisorKey(),
		Department:       p.Department,
		Location:         p.Location,
		Grade:            p.Grade,
		EmployeeCategory: p.EmployeeCategory,
	}
	if p.ProformaCost != 0 {
		f.ProformaCost = strconv.FormatFloat(p.ProformaCost, 'f', -1, 64)
	}
	return f
}

// position converts the form into a record. Blank employee names become
// vacancies.
func (f *positionForm) position() (position.Position, error) {
	cost, err := parseCostInput(f.ProformaCost)
	if err != nil {
		return position.Position{}, err
	}
	p := position.Position{
		ID:               f.editingID,
		EmployeeName:     position.Ref(f.EmployeeName),
		PositionTitle:    f.PositionTitle,
		JobName:          f.JobName,
		PositionNumber:   f.PositionNumber,
		Department:       f.Department,
		Location:         f.Location,
		Grade:            f.Grade,
		EmployeeCategory: f.EmployeeCategory,
		ProformaCost:     cost,
	}
	if f.SupervisorID != "" {
		p.SupervisorID = position.Ref(f.SupervisorID)
	}
	p = p.Normalize()
	if p.ID == "" {
		// validated again by the store once an id exists
		probe := p
		probe.ID = "new"
		return p, probe.Validate()
	}
	return p, p.Validate()
}

func parseCostInput(value string) (float64, error) {
	value = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(value))
	if value == "" {
		return 0, nil
	}
	cost, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("proforma cost must be a number")
	}
	if cost < 0 {
		return 0, fmt.Errorf("proforma cost must be >= 0")
	}
	return cost, nil
}

func required(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// supervisorOptions lists every record that can supervise editingID: the
// record itself and its descendants are excluded so edits cannot form cycles.
func supervisorOptions(records []position.Position, editingID string) []huh.Option[string] {
	excluded := map[string]bool{}
	if editingID != "" {
		b := hierarchy.NewBuilder(records)
		if node, ok := b.Focus(editingID); ok {
			hierarchy.Walk([]*hierarchy.Node{node}, func(n *hierarchy.Node) bool {
				excluded[n.ID] = true
				return true
			})
		}
		excluded[editingID] = true
	}
	opts := []huh.Option[string]{huh.NewOption("None (top level)", "")}
	for _, rec := range records {
		if excluded[rec.ID] {
			continue
		}
		label := rec.DisplayName()
		if !rec.Vacant() && rec.PositionTitle != "" {
			label += " · " + rec.PositionTitle
		}
		opts = append(opts, huh.NewOption(label, rec.ID))
	}
	return opts
}

// catalogOptions turns a fixed list into select options, keeping current when
// imported data uses a value outside the list.
func catalogOptions(catalog []position.Option, current string) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("(none)", "")}
	found := current == ""
	for _, o := range catalog {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
		if o.Value == current {
			found = true
		}
	}
	if !found {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

func (f *positionForm) build(records []position.Position) *huh.Form {
	title := "Add position"
	if f.editingID != "" {
		title = "Edit position"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(title),
			huh.NewInput().Title("Employee name").Placeholder("blank for a vacancy").Value(&f.EmployeeName),
			huh.NewInput().Title("Position title").Value(&f.PositionTitle).Validate(required("position title")),
			huh.NewInput().Title("Job name").Value(&f.JobName).Validate(required("job name")),
			huh.NewInput().Title("Position number").Value(&f.PositionNumber),
			huh.NewSelect[string]().Title("Supervisor").
				Options(supervisorOptions(records, f.editingID)...).
				Height(8).
				Value(&f.SupervisorID),
		),
		huh.NewGroup(
			huh.NewInput().Title("Department").Value(&f.Department),
			huh.NewSelect[string]().Title("Location").Options(catalogOptions(position.Locations, f.Location)...).Value(&f.Location),
			huh.NewSelect[string]().Title("Grade").Options(catalogOptions(position.Grades, f.Grade)...).Value(&f.Grade),
			huh.NewSelect[string]().Title("Employee category").Options(catalogOptions(position.EmployeeCategories, f.EmployeeCategory)...).Value(&f.EmployeeCategory),
			huh.NewInput().Title("Proforma cost").Value(&f.ProformaCost).Validate(func(s string) error {
				_, err := parseCostInput(s)
				return err
			}),
		),
	).WithShowHelp(true)
}

func newDeleteForm(rec position.Position, supervisorName string, confirm *bool) *huh.Form {
	dest := "the top level"
	if supervisorName != "" {
		dest = supervisorName
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", rec.DisplayName())).
				Description(fmt.Sprintf("Direct reports move to %s.", dest)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(confirm),
		),
	)
}

func newGoalsForm(goals *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Organisational goals").
				Description("Recommendations are tailored to these goals.").
				Lines(4).
				Value(goals).
				Validate(required("goals")),
		),
	)
}

func newImportForm(path *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Import file").
				Description("csv, json or xlsx; replaces the current chart").
				Value(path).
				Validate(required("path")),
		),
	)
}

func newAttributesForm(selected *[]string) *huh.Form {
	opts := make([]huh.Option[string], 0, len(position.AttributeLabels))
	for _, attr := range allAttributes {
		opts = append(opts, huh.NewOption(position.AttributeLabels[attr], string(attr)))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Card fields").
				Options(opts...).
				Value(selected).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one field")
					}
					return nil
				}),
		),
	)
}

var allAttributes = []position.Attribute{
	position.AttrEmployeeNumber,
	position.AttrEmployeeName,
	position.AttrSupervisorID,
	position.AttrSupervisorName,
	position.AttrPositionTitle,
	position.AttrPositionNumber,
	position.AttrJobName,
	position.AttrGrade,
	position.AttrDepartment,
	position.AttrLocation,
	position.AttrProformaCost,
	position.AttrEmployeeCategory,
}
