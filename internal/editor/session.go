// Package editor ties the record store, the navigation state and the summary
// baseline into the single session the UI and CLI drive.
package editor

import (
	"context"

	"github.com/kingrea/orgweaver/internal/advisor"
	"github.com/kingrea/orgweaver/internal/hierarchy"
	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/rollup"
	"github.com/kingrea/orgweaver/internal/store"
	"github.com/kingrea/orgweaver/internal/view"
)

// Session is one editing session. It is not safe for concurrent use; hand
// copies from Records or SummaryInputs to background work instead.
type Session struct {
	store    *store.Store
	state    view.State
	baseline []position.Position
}

// New starts a session over records with no summary baseline.
func New(records []position.Position, opts ...store.Option) *Session {
	return &Session{store: store.New(records, opts...)}
}

// Records returns a copy of the current record set.
func (s *Session) Records() []position.Position {
	return s.store.All()
}

// Get returns the record with id.
func (s *Session) Get(id string) (position.Position, bool) {
	return s.store.Get(id)
}

// Len returns the number of records.
func (s *Session) Len() int {
	return s.store.Len()
}

// State returns the navigation state.
func (s *Session) State() view.State {
	return s.state
}

// Add inserts p, or updates the record when p's id already exists.
func (s *Session) Add(p position.Position) (position.Position, store.Outcome) {
	before := s.store.All()
	rec, outcome := s.store.Add(p)
	s.baseline = before
	return rec, outcome
}

// Update replaces an existing record. Unknown ids change nothing.
func (s *Session) Update(p position.Position) (position.Position, bool) {
	before := s.store.All()
	rec, ok := s.store.Update(p)
	if ok {
		s.baseline = before
	}
	return rec, ok
}

// Delete removes id, re-parents its reports and repairs the navigation state.
func (s *Session) Delete(id string) (store.Deletion, bool) {
	before := s.store.All()
	del, ok := s.store.Delete(id)
	if !ok {
		return store.Deletion{}, false
	}
	s.baseline = before
	s.state = view.Reduce(s.state, view.DeleteEvent{ID: del.Removed.ID}, s.store)
	return del, true
}

// Import swaps in a new record set and returns to the top level.
func (s *Session) Import(records []position.Position) {
	before := s.store.All()
	s.store.Replace(records)
	s.baseline = before
	s.state = view.Reduce(s.state, view.ResetEvent{}, s.store)
}

// Select clicks on id.
func (s *Session) Select(id string) {
	s.state = view.Reduce(s.state, view.SelectEvent{ID: id}, s.store)
}

// GoUp leaves the current drill-down level or search.
func (s *Session) GoUp() {
	s.state = view.Reduce(s.state, view.GoUpEvent{}, s.store)
}

// SetSearch replaces the search term.
func (s *Session) SetSearch(term string) {
	s.state = view.Reduce(s.state, view.SearchEvent{Term: term}, s.store)
}

// View returns the nodes to display for the current state.
func (s *Session) View() []*hierarchy.Node {
	return view.Resolve(s.store.All(), s.state)
}

// Breadcrumbs returns the drill-down trail.
func (s *Session) Breadcrumbs() []view.Crumb {
	return view.Breadcrumbs(s.store.All(), s.state)
}

// Selected returns the selected record, if it still exists.
func (s *Session) Selected() (position.Position, bool) {
	if s.state.Selected == "" {
		return position.Position{}, false
	}
	return s.store.Get(s.state.Selected)
}

// SummaryInputs returns the baseline and the current records. ok is false
// until the first mutation or import.
func (s *Session) SummaryInputs() (before, after []position.Position, ok bool) {
	after = s.store.All()
	if s.baseline == nil {
		return nil, after, false
	}
	before = make([]position.Position, len(s.baseline))
	for i, rec := range s.baseline {
		before[i] = rec.Clone()
	}
	return before, after, true
}

// Summarize describes the latest change. Without a baseline it answers
// locally and never calls summarizer.
func (s *Session) Summarize(ctx context.Context, summarizer advisor.Summarizer) (advisor.Summary, error) {
	before, after, ok := s.SummaryInputs()
	return Summarize(ctx, summarizer, before, after, ok)
}

// Summarize is the detached form of Session.Summarize for background work.
func Summarize(ctx context.Context, summarizer advisor.Summarizer, before, after []position.Position, hasBaseline bool) (advisor.Summary, error) {
	if !hasBaseline {
		return rollup.LocalSummary(after), nil
	}
	return summarizer.Summarize(ctx, before, after)
}

// Stats returns rollup statistics for the current records.
func (s *Session) Stats() rollup.Stats {
	return rollup.Compute(s.store.All())
}
