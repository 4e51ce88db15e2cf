// internal/tui/app.go
//
// The main TUI application using Bubbletea. The chart sits in the left box;
// details, statistics and advisor output sit in the right box.

package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/kingrea/orgweaver/internal/advisor"
	"github.com/kingrea/orgweaver/internal/config"
	"github.com/kingrea/orgweaver/internal/editor"
	"github.com/kingrea/orgweaver/internal/exchange"
	"github.com/kingrea/orgweaver/internal/logbook"
	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/snapshot"
)

// advisorTimeout bounds a single summary or recommendation request.
const advisorTimeout = 90 * time.Second

type appState int

const (
	stateChart appState = iota
	stateSearch
	stateForm
	stateVersions
)

// AppOption customizes App construction.
type AppOption func(*App)

// WithAdvisor replaces the advisor built from the project config.
func WithAdvisor(adv advisor.Advisor) AppOption {
	return func(a *App) {
		if adv != nil {
			a.advisor = adv
		}
	}
}

// WithRecords starts the session with records instead of the configured
// data source.
func WithRecords(records []position.Position) AppOption {
	return func(a *App) {
		a.initial = records
	}
}

// WithClock overrides the time source used for export file names.
func WithClock(clock func() time.Time) AppOption {
	return func(a *App) {
		if clock != nil {
			a.now = clock
		}
	}
}

// App is the main application model.
type App struct {
	state    appState
	config   *config.Config
	logbook  *logbook.Logbook
	session  *editor.Session
	advisor  advisor.Advisor
	versions *snapshot.Store
	now      func() time.Time
	initial  []position.Position

	keys        keyMap
	help        help.Model
	search      textinput.Model
	spinner     spinner.Model
	versionMenu list.Model

	// active huh dialog
	form          *huh.Form
	formKind      formKind
	positionForm  *positionForm
	deleteID      string
	confirmDelete bool
	goals         string
	importPath    string
	attributes    []string

	summary advisor.Slot[advisor.Summary]
	recs    advisor.Slot[advisor.Recommendations]

	cursorID  string
	statusMsg string

	width  int
	height int
}

type summaryMsg struct {
	summary advisor.Summary
	err     error
}

type recommendationsMsg struct {
	recs advisor.Recommendations
	err  error
}

// NewApp creates a new App instance for projectDir.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.Open(cfg.LogsDir())
	if err != nil {
		lb = nil
	}

	search := textinput.New()
	search.Placeholder = "name, title, job, department..."
	search.Prompt = "/ "
	search.CharLimit = 120

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	versionMenu := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	versionMenu.Title = "Saved versions"
	versionMenu.SetShowStatusBar(false)
	versionMenu.SetFilteringEnabled(false)

	app := &App{
		state:       stateChart,
		config:      cfg,
		logbook:     lb,
		versions:    snapshot.NewStore(cfg.VersionsDir()),
		now:         time.Now,
		keys:        defaultKeyMap(),
		help:        help.New(),
		search:      search,
		spinner:     spin,
		versionMenu: versionMenu,
		goals:       cfg.Goals(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.advisor == nil {
		app.advisor = advisor.New(cfg.Provider(), advisor.Options{
			APIKey:  cfg.APIKey(),
			Model:   cfg.Model(),
			BaseURL: cfg.BaseURL(),
		})
	}

	records := app.initial
	source := "demo organisation"
	if records == nil {
		records = position.Sample()
		if path := cfg.DataSource(); path != "" {
			loaded, err := exchange.ReadFile(path)
			if err != nil {
				app.logError("Load %s failed: %v", path, err)
				app.statusMsg = fmt.Sprintf("Could not load %s; showing the demo organisation", filepath.Base(path))
			} else {
				records = loaded
				source = path
			}
		}
	}
	app.session = editor.New(records)
	app.logInfo("Session opened · %d positions from %s", app.session.Len(), source)
	if _, ok := app.advisor.(advisor.Unavailable); ok {
		app.logWarn("Advisor offline: summaries use local figures only")
	}
	return app, nil
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts. The first summary describes
// the loaded organisation.
func (a *App) Init() tea.Cmd {
	return a.requestSummary()
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.versionMenu.SetSize(max(20, msg.Width/2), max(6, msg.Height-12))
		return a, nil

	case summaryMsg:
		if msg.err != nil {
			a.summary = a.summary.Fail(msg.err)
			a.logWarn("Summary failed: %v", msg.err)
		} else {
			a.summary = a.summary.Resolve(msg.summary)
		}
		return a, nil

	case recommendationsMsg:
		if msg.err != nil {
			a.recs = a.recs.Fail(msg.err)
			a.logWarn("Recommendations failed: %v", msg.err)
		} else {
			a.recs = a.recs.Resolve(msg.recs)
			a.logInfo("Received %d recommendations", len(msg.recs.Recommendations))
		}
		return a, nil

	case spinner.TickMsg:
		if !a.summary.Loading() && !a.recs.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	switch a.state {
	case stateForm:
		return a.updateForm(msg)
	case stateSearch:
		return a.updateSearch(msg)
	case stateVersions:
		return a.updateVersions(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch {
	case key.Matches(keyMsg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(keyMsg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(keyMsg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(keyMsg, a.keys.Open):
		a.openCursor()
	case key.Matches(keyMsg, a.keys.Back):
		a.goUp()
	case key.Matches(keyMsg, a.keys.Search):
		a.state = stateSearch
		a.search.SetValue(a.session.State().Search)
		a.search.CursorEnd()
		return a, a.search.Focus()
	case key.Matches(keyMsg, a.keys.Add):
		return a.beginAdd()
	case key.Matches(keyMsg, a.keys.Edit):
		return a.beginEdit()
	case key.Matches(keyMsg, a.keys.Delete):
		return a.beginDelete()
	case key.Matches(keyMsg, a.keys.Summary):
		a.statusMsg = "Summarising..."
		return a, a.requestSummary()
	case key.Matches(keyMsg, a.keys.Recommend):
		return a.openForm(formGoals, newGoalsForm(&a.goals))
	case key.Matches(keyMsg, a.keys.Save):
		a.saveVersion()
	case key.Matches(keyMsg, a.keys.Versions):
		return a.openVersions()
	case key.Matches(keyMsg, a.keys.Export):
		a.exportRecords()
	case key.Matches(keyMsg, a.keys.Import):
		a.importPath = a.config.DataSource()
		return a.openForm(formImport, newImportForm(&a.importPath))
	case key.Matches(keyMsg, a.keys.Attributes):
		a.attributes = a.attributes[:0]
		for _, attr := range a.config.DisplayAttributes() {
			a.attributes = append(a.attributes, string(attr))
		}
		return a.openForm(formAttributes, newAttributesForm(&a.attributes))
	}
	return a, nil
}

func (a *App) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			a.search.SetValue("")
			a.session.SetSearch("")
			a.search.Blur()
			a.state = stateChart
			a.statusMsg = ""
			return a, nil
		case "enter":
			a.search.Blur()
			a.state = stateChart
			a.reportSearch()
			return a, nil
		case "ctrl+c":
			return a, tea.Quit
		}
	}
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if a.search.Value() != a.session.State().Search {
		a.session.SetSearch(a.search.Value())
		a.cursorID = ""
	}
	return a, cmd
}

func (a *App) reportSearch() {
	term := a.session.State().Search
	if term == "" {
		a.statusMsg = ""
		return
	}
	if len(a.rows()) == 0 {
		a.statusMsg = fmt.Sprintf("No positions match %q", term)
		return
	}
	a.statusMsg = fmt.Sprintf("Showing matches for %q · esc clears", term)
}

func (a *App) openForm(kind formKind, form *huh.Form) (tea.Model, tea.Cmd) {
	a.form = form
	a.formKind = kind
	a.state = stateForm
	if a.width > 0 {
		a.form = a.form.WithWidth(max(30, a.width/2))
	}
	return a, a.form.Init()
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		a.closeForm()
		a.statusMsg = "Cancelled"
		return a, nil
	}
	model, cmd := a.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		a.form = form
	}
	switch a.form.State {
	case huh.StateCompleted:
		return a, tea.Batch(cmd, a.submitForm())
	case huh.StateAborted:
		a.closeForm()
		a.statusMsg = "Cancelled"
		return a, nil
	}
	return a, cmd
}

func (a *App) closeForm() {
	a.form = nil
	a.positionForm = nil
	a.deleteID = ""
	a.state = stateChart
}

// submitForm applies the completed dialog.
func (a *App) submitForm() tea.Cmd {
	kind := a.formKind
	defer a.closeForm()
	switch kind {
	case formAdd, formEdit:
		return a.savePosition()
	case formDelete:
		if !a.confirmDelete {
			a.statusMsg = "Delete cancelled"
			return nil
		}
		return a.deletePosition(a.deleteID)
	case formGoals:
		return a.requestRecommendations()
	case formImport:
		return a.importFile(a.importPath)
	case formAttributes:
		a.applyAttributes()
	}
	return nil
}

func (a *App) beginAdd() (tea.Model, tea.Cmd) {
	draft := position.Position{}
	if rec, ok := a.cursorRecord(); ok {
		draft.SupervisorID = position.Ref(rec.ID)
		draft.Department = rec.Department
		draft.Location = rec.Location
	}
	a.positionForm = newPositionForm(draft)
	return a.openForm(formAdd, a.positionForm.build(a.session.Records()))
}

func (a *App) beginEdit() (tea.Model, tea.Cmd) {
	rec, ok := a.cursorRecord()
	if !ok {
		a.statusMsg = "Nothing to edit"
		return a, nil
	}
	a.positionForm = newPositionForm(rec)
	return a.openForm(formEdit, a.positionForm.build(a.session.Records()))
}

func (a *App) beginDelete() (tea.Model, tea.Cmd) {
	rec, ok := a.cursorRecord()
	if !ok {
		a.statusMsg = "Nothing to delete"
		return a, nil
	}
	supervisorName := ""
	if sup, ok := a.session.Get(rec.SupervisorKey()); ok {
		supervisorName = sup.DisplayName()
	}
	a.deleteID = rec.ID
	a.confirmDelete = false
	return a.openForm(formDelete, newDeleteForm(rec, supervisorName, &a.confirmDelete))
}

// savePosition adds or updates the record held by the position form and
// starts a fresh summary.
func (a *App) savePosition() tea.Cmd {
	if a.positionForm == nil {
		return nil
	}
	draft, err := a.positionForm.position()
	if err != nil {
		a.statusMsg = fmt.Sprintf("Not saved: %v", err)
		a.logWarn("Save rejected: %v", err)
		return nil
	}
	if draft.ID == "" {
		rec, _ := a.session.Add(draft)
		a.cursorID = rec.ID
		a.statusMsg = fmt.Sprintf("Added %s", rec.DisplayName())
		a.logInfo("Added %s (%s)", rec.DisplayName(), rec.ID)
		return a.requestSummary()
	}
	rec, ok := a.session.Update(draft)
	if !ok {
		a.statusMsg = fmt.Sprintf("Position %s no longer exists", draft.ID)
		a.logWarn("Update of missing position %s ignored", draft.ID)
		return nil
	}
	a.statusMsg = fmt.Sprintf("Updated %s", rec.DisplayName())
	a.logInfo("Updated %s (%s)", rec.DisplayName(), rec.ID)
	return a.requestSummary()
}

func (a *App) deletePosition(id string) tea.Cmd {
	deletion, ok := a.session.Delete(id)
	if !ok {
		a.statusMsg = fmt.Sprintf("Position %s no longer exists", id)
		return nil
	}
	name := deletion.Removed.DisplayName()
	a.cursorID = position.Deref(deletion.NewSupervisorID)
	a.statusMsg = fmt.Sprintf("Deleted %s", name)
	if n := len(deletion.Reparented); n > 0 {
		a.statusMsg += fmt.Sprintf(" · %d direct reports moved up", n)
	}
	a.logInfo("Deleted %s (%s), reparented %d", name, id, len(deletion.Reparented))
	a.syncSearch()
	return a.requestSummary()
}

func (a *App) importFile(path string) tea.Cmd {
	path = strings.TrimSpace(path)
	records, err := exchange.ReadFile(path)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Import failed: %v", err)
		a.logError("Import %s failed: %v", path, err)
		return nil
	}
	a.session.Import(records)
	a.cursorID = ""
	a.syncSearch()
	a.statusMsg = fmt.Sprintf("Imported %d positions from %s", len(records), filepath.Base(path))
	a.logInfo("Imported %d positions from %s", len(records), path)
	return a.requestSummary()
}

func (a *App) applyAttributes() {
	attrs := make([]position.Attribute, 0, len(a.attributes))
	for _, name := range a.attributes {
		attrs = append(attrs, position.Attribute(name))
	}
	if err := a.config.SetDisplayAttributes(attrs); err != nil {
		a.statusMsg = fmt.Sprintf("Card fields not saved: %v", err)
		a.logError("Save card fields failed: %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("Showing %d card fields", len(attrs))
	a.logInfo("Card fields set to %s", strings.Join(a.attributes, ", "))
}

func (a *App) saveVersion() {
	records := a.session.Records()
	label := fmt.Sprintf("%d positions", len(records))
	meta, err := a.versions.Save(label, records, nil)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Save failed: %v", err)
		a.logError("Save version failed: %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("Saved version %s", meta.ID)
	a.logInfo("Saved version %s (%d positions)", meta.ID, meta.Count)
}

func (a *App) exportRecords() {
	format := a.config.ExportFormat()
	name := fmt.Sprintf("orgweaver-%s.%s", a.now().UTC().Format("20060102-150405"), format.Extension())
	path := filepath.Join(a.config.ExportsDir(), name)
	if err := exchange.WriteFile(path, format, a.session.Records()); err != nil {
		a.statusMsg = fmt.Sprintf("Export failed: %v", err)
		a.logError("Export failed: %v", err)
		return
	}
	a.statusMsg = fmt.Sprintf("Exported %d positions to %s", a.session.Len(), path)
	a.logInfo("Exported %d positions to %s", a.session.Len(), path)
}

// requestSummary snapshots the records now and asks the advisor in the
// background. Every call settles the summary slot exactly once.
func (a *App) requestSummary() tea.Cmd {
	before, after, ok := a.session.SummaryInputs()
	adv := a.advisor
	a.summary = a.summary.Begin()
	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), advisorTimeout)
		defer cancel()
		summary, err := editor.Summarize(ctx, adv, before, after, ok)
		return summaryMsg{summary: summary, err: err}
	}
	return tea.Batch(fetch, a.spinner.Tick)
}

func (a *App) requestRecommendations() tea.Cmd {
	goals := strings.TrimSpace(a.goals)
	if goals != a.config.Goals() {
		if err := a.config.SetGoals(goals); err != nil {
			a.logWarn("Goals not saved: %v", err)
		}
	}
	records := a.session.Records()
	adv := a.advisor
	a.recs = a.recs.Begin()
	a.statusMsg = "Requesting recommendations..."
	a.logInfo("Requested recommendations for %d positions", len(records))
	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), advisorTimeout)
		defer cancel()
		recs, err := adv.Recommend(ctx, records, goals)
		return recommendationsMsg{recs: recs, err: err}
	}
	return tea.Batch(fetch, a.spinner.Tick)
}

func (a *App) openVersions() (tea.Model, tea.Cmd) {
	metas, err := a.versions.List()
	if err != nil {
		a.statusMsg = fmt.Sprintf("Versions unavailable: %v", err)
		a.logError("List versions failed: %v", err)
		return a, nil
	}
	if len(metas) == 0 {
		a.statusMsg = "No saved versions yet · press v to save one"
		return a, nil
	}
	items := make([]list.Item, 0, len(metas))
	for _, meta := range metas {
		items = append(items, versionItem{meta: meta})
	}
	a.versionMenu.SetItems(items)
	a.versionMenu.Select(0)
	if a.width > 0 {
		a.versionMenu.SetSize(max(20, a.width/2), max(6, a.height-12))
	} else {
		a.versionMenu.SetSize(60, 16)
	}
	a.state = stateVersions
	return a, nil
}

func (a *App) updateVersions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			a.state = stateChart
			return a, nil
		case "enter":
			item, ok := a.versionMenu.SelectedItem().(versionItem)
			a.state = stateChart
			if !ok {
				return a, nil
			}
			return a, a.restoreVersion(item.meta.ID)
		}
	}
	var cmd tea.Cmd
	a.versionMenu, cmd = a.versionMenu.Update(msg)
	return a, cmd
}

func (a *App) restoreVersion(id string) tea.Cmd {
	records, meta, err := a.versions.Load(id)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, snapshot.ErrNotFound) {
			msg = "version not found"
		}
		a.statusMsg = fmt.Sprintf("Restore failed: %s", msg)
		a.logError("Restore %s failed: %v", id, err)
		return nil
	}
	a.session.Import(records)
	a.cursorID = ""
	a.syncSearch()
	a.statusMsg = fmt.Sprintf("Restored version %s", meta.ID)
	a.logInfo("Restored version %s (%d positions)", meta.ID, meta.Count)
	return a.requestSummary()
}

func (a *App) openCursor() {
	rec, ok := a.cursorRecord()
	if !ok {
		return
	}
	a.session.Select(rec.ID)
	a.cursorID = rec.ID
	a.syncSearch()
	a.statusMsg = ""
}

func (a *App) goUp() {
	state := a.session.State()
	if !state.CanGoUp() {
		return
	}
	a.session.GoUp()
	a.syncSearch()
	a.statusMsg = ""
	if !state.Searching {
		a.cursorID = a.session.State().Top()
	}
}

// syncSearch mirrors the session's search term into the input, which can
// change under it when a selection or import clears the search.
func (a *App) syncSearch() {
	if term := a.session.State().Search; term != a.search.Value() {
		a.search.SetValue(term)
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(32, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
		rightWidth = 0
	}
	var content string
	switch a.state {
	case stateForm:
		content = a.form.View()
	case stateVersions:
		content = a.versionMenu.View()
	default:
		content = a.renderChart(leftWidth - 4)
	}
	return a.renderStatusBoard(content, leftWidth, rightWidth)
}

type versionItem struct {
	meta snapshot.Metadata
}

func (i versionItem) Title() string {
	if i.meta.Label != "" {
		return i.meta.Label
	}
	return i.meta.ID
}

func (i versionItem) Description() string {
	return fmt.Sprintf("%s · %d positions · %s",
		i.meta.CreatedAt.Local().Format("2006-01-02 15:04"),
		i.meta.Count,
		position.FormatCost(i.meta.TotalCost),
	)
}

func (i versionItem) FilterValue() string { return i.meta.ID }
