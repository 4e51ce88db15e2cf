// Package view holds the navigation state of the chart (drill-down stack,
// search term, selection) and derives the nodes to display from it. State is
// a plain value; every transition returns a new State and leaves the receiver
// untouched.
package view

import (
	"strings"

	"github.com/kingrea/orgweaver/internal/hierarchy"
	"github.com/kingrea/orgweaver/internal/position"
)

// Graph answers the questions transitions ask about the record set.
type Graph interface {
	Exists(id string) bool
	HasChildren(id string) bool
}

// State is the navigation state of one chart session.
type State struct {
	// Stack holds drill-down roots, outermost first. Empty means top level.
	Stack []string
	// Search is the raw search box contents.
	Search string
	// Searching mirrors whether Search was non-blank at the last settle.
	Searching bool
	// Pending is a drill-down requested from search results, applied once the
	// search has been cleared.
	Pending string
	// Selected is the highlighted record, "" for none.
	Selected string
}

// Top returns the current drill-down root or "".
func (s State) Top() string {
	if len(s.Stack) == 0 {
		return ""
	}
	return s.Stack[len(s.Stack)-1]
}

// CanGoUp reports whether GoUp would change anything.
func (s State) CanGoUp() bool {
	return len(s.Stack) > 0 || s.Searching
}

// Select marks id as selected and drills into it when it has reports. While
// searching the drill is deferred: the search is cleared and the pending id
// becomes the sole stack entry.
func (s State) Select(id string, g Graph) State {
	next := s.clone()
	next.Selected = id
	if !g.HasChildren(id) || next.Top() == id {
		return next
	}
	if next.Searching {
		next.Pending = id
		next.Search = ""
		return next.settle(g)
	}
	next.Stack = append(next.Stack, id)
	return next
}

// GoUp pops one drill-down level. At the top of search results it clears the
// search instead.
func (s State) GoUp(g Graph) State {
	next := s.clone()
	if next.Searching && len(next.Stack) == 0 {
		next.Search = ""
		return next.settle(g)
	}
	if len(next.Stack) > 0 {
		next.Stack = next.Stack[:len(next.Stack)-1]
	}
	next.Selected = next.Top()
	return next
}

// SetSearch replaces the search term and applies the search transition rule.
func (s State) SetSearch(term string, g Graph) State {
	next := s.clone()
	next.Search = term
	return next.settle(g)
}

// AfterDelete repairs the state once id has been removed from the record set.
func (s State) AfterDelete(id string, g Graph) State {
	next := s.clone()
	wasStacked := false
	kept := next.Stack[:0]
	for _, entry := range next.Stack {
		if entry == id {
			wasStacked = true
			continue
		}
		kept = append(kept, entry)
	}
	next.Stack = kept
	if wasStacked && len(next.Stack) > 0 && !g.Exists(next.Top()) {
		next.Stack = nil
	}
	if next.Selected == id || (next.Selected != "" && !g.Exists(next.Selected)) {
		next.Selected = next.Top()
	}
	if next.Pending == id {
		next.Pending = ""
	}
	return next
}

// Reset returns to the unfiltered top level with nothing selected, as an
// import does.
func (s State) Reset() State {
	return State{}
}

// settle applies the transition rule: a flip of the searching flag resets the
// stack, and clearing the search consumes the pending drill-down exactly once.
func (s State) settle(g Graph) State {
	searching := strings.TrimSpace(s.Search) != ""
	if searching != s.Searching {
		s.Stack = nil
		s.Searching = searching
	}
	if !searching && s.Pending != "" {
		if g.Exists(s.Pending) {
			s.Stack = []string{s.Pending}
		} else {
			s.Stack = nil
		}
		s.Pending = ""
	}
	return s
}

func (s State) clone() State {
	out := s
	if s.Stack != nil {
		out.Stack = append([]string(nil), s.Stack...)
	}
	return out
}

// Resolve derives the nodes to display. It is a pure function of its inputs.
func Resolve(records []position.Position, s State) []*hierarchy.Node {
	b := hierarchy.NewBuilder(records)
	if s.Searching {
		matching := hierarchy.MatchingIDs(records, s.Search)
		if len(matching) == 0 {
			return nil
		}
		forest := b.BuildFiltered(matching, hierarchy.TopLevel, 0)
		if top := s.Top(); top != "" {
			if node := hierarchy.Find(forest, top); node != nil {
				return []*hierarchy.Node{node}
			}
		}
		return forest
	}
	top := s.Top()
	if top == "" {
		return b.Build(hierarchy.TopLevel, 0)
	}
	node, ok := b.Focus(top)
	if !ok {
		return b.Build(hierarchy.TopLevel, 0)
	}
	return []*hierarchy.Node{node}
}

// Crumb is one entry of the drill-down trail.
type Crumb struct {
	ID   string
	Name string
}

// Breadcrumbs names each stack entry that still resolves to a record.
func Breadcrumbs(records []position.Position, s State) []Crumb {
	b := hierarchy.NewBuilder(records)
	crumbs := make([]Crumb, 0, len(s.Stack))
	for _, id := range s.Stack {
		rec, ok := b.Lookup(id)
		if !ok {
			continue
		}
		crumbs = append(crumbs, Crumb{ID: id, Name: rec.DisplayName()})
	}
	return crumbs
}
