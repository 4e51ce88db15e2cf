// Package store holds the authoritative flat set of position records and the
// mutations that edit it. It never keeps tree pointers; readers rebuild the
// hierarchy from the flat slice on every query.
package store

import (
	"strings"

	"github.com/kingrea/orgweaver/internal/position"
)

// Outcome reports what Add did with the record it was given.
type Outcome int

const (
	OutcomeAdded Outcome = iota
	OutcomeUpdated
)

func (o Outcome) String() string {
	if o == OutcomeUpdated {
		return "updated"
	}
	return "added"
}

// Deletion describes a completed Delete.
type Deletion struct {
	Removed    position.Position
	Reparented []string
	// NewSupervisorID is where the removed record's direct reports now point.
	NewSupervisorID *string
}

// Store is an insertion-ordered record set with an id index.
type Store struct {
	records []position.Position
	index   map[string]int
	newID   func() string
}

// Option customizes a Store during construction.
type Option func(*Store)

// WithIDGenerator overrides the id generator used by Add.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New builds a store seeded with records. Duplicate ids collapse with upsert
// semantics: the later record replaces the earlier one in place.
func New(records []position.Position, opts ...Option) *Store {
	s := &Store{newID: position.NewID}
	for _, opt := range opts {
		opt(s)
	}
	s.Replace(records)
	return s
}

// Replace swaps the whole record set, as an import does.
func (s *Store) Replace(records []position.Position) {
	s.records = make([]position.Position, 0, len(records))
	s.index = make(map[string]int, len(records))
	for _, rec := range records {
		rec = rec.Normalize()
		if rec.ID == "" {
			rec.ID = s.newID()
		}
		if idx, ok := s.index[rec.ID]; ok {
			s.records[idx] = rec
			continue
		}
		s.index[rec.ID] = len(s.records)
		s.records = append(s.records, rec)
	}
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// All returns a deep copy of the records in insertion order.
func (s *Store) All() []position.Position {
	out := make([]position.Position, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(id string) (position.Position, bool) {
	idx, ok := s.index[strings.TrimSpace(id)]
	if !ok {
		return position.Position{}, false
	}
	return s.records[idx].Clone(), true
}

// Exists reports whether id names a record.
func (s *Store) Exists(id string) bool {
	_, ok := s.index[strings.TrimSpace(id)]
	return ok
}

// HasChildren reports whether any record names id as its supervisor.
func (s *Store) HasChildren(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	for _, rec := range s.records {
		if rec.SupervisorKey() == id {
			return true
		}
	}
	return false
}

// Add inserts p, generating an id when it has none. An id that already exists
// turns the insert into an in-place update.
func (s *Store) Add(p position.Position) (position.Position, Outcome) {
	rec := p.Normalize()
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	rec.SupervisorPositionNumber = s.supervisorNumber(rec.SupervisorID)
	if idx, ok := s.index[rec.ID]; ok {
		s.records[idx] = rec
		return rec.Clone(), OutcomeUpdated
	}
	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	return rec.Clone(), OutcomeAdded
}

// Update replaces the record with p's id. Unknown ids are ignored.
func (s *Store) Update(p position.Position) (position.Position, bool) {
	rec := p.Normalize()
	idx, ok := s.index[rec.ID]
	if !ok {
		return position.Position{}, false
	}
	rec.SupervisorPositionNumber = s.supervisorNumber(rec.SupervisorID)
	s.records[idx] = rec
	return rec.Clone(), true
}

// Delete removes id and hands its direct reports to its own supervisor.
// Deleting an unknown id does nothing.
func (s *Store) Delete(id string) (Deletion, bool) {
	id = strings.TrimSpace(id)
	idx, ok := s.index[id]
	if !ok {
		return Deletion{}, false
	}
	removed := s.records[idx]
	newSupervisor := removed.SupervisorID
	newNumber := s.supervisorNumber(newSupervisor)

	kept := make([]position.Position, 0, len(s.records)-1)
	var reparented []string
	for i, rec := range s.records {
		if i == idx {
			continue
		}
		if rec.SupervisorKey() == id {
			rec.SupervisorID = cloneRef(newSupervisor)
			rec.SupervisorPositionNumber = cloneRef(newNumber)
			reparented = append(reparented, rec.ID)
		}
		kept = append(kept, rec)
	}
	s.records = kept
	s.reindex()
	return Deletion{
		Removed:         removed.Clone(),
		Reparented:      reparented,
		NewSupervisorID: cloneRef(newSupervisor),
	}, true
}

// supervisorNumber snapshots the supervisor's position number. The value is
// not refreshed when the supervisor is later renumbered.
func (s *Store) supervisorNumber(supervisorID *string) *string {
	key := position.Deref(supervisorID)
	if key == "" {
		return nil
	}
	idx, ok := s.index[key]
	if !ok {
		return nil
	}
	number := s.records[idx].PositionNumber
	if number == "" {
		return nil
	}
	return &number
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.records))
	for i, rec := range s.records {
		s.index[rec.ID] = i
	}
}

func cloneRef(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
