package view

// Event is a user action that moves the navigation state.
type Event interface {
	isEvent()
}

// SelectEvent clicks a node.
type SelectEvent struct{ ID string }

// GoUpEvent leaves the current drill-down level or search.
type GoUpEvent struct{}

// SearchEvent replaces the search term.
type SearchEvent struct{ Term string }

// DeleteEvent reports that a record has been removed from the store.
type DeleteEvent struct{ ID string }

// ResetEvent returns to the unfiltered top level.
type ResetEvent struct{}

func (SelectEvent) isEvent() {}
func (GoUpEvent) isEvent()   {}
func (SearchEvent) isEvent() {}
func (DeleteEvent) isEvent() {}
func (ResetEvent) isEvent()  {}

// Reduce applies ev to s. Unknown events leave the state as it was.
func Reduce(s State, ev Event, g Graph) State {
	switch e := ev.(type) {
	case SelectEvent:
		return s.Select(e.ID, g)
	case GoUpEvent:
		return s.GoUp(g)
	case SearchEvent:
		return s.SetSearch(e.Term, g)
	case DeleteEvent:
		return s.AfterDelete(e.ID, g)
	case ResetEvent:
		return s.Reset()
	default:
		return s.clone()
	}
}
