package hierarchy

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/kingrea/orgweaver/internal/position"
)

// Matches reports whether term occurs, ignoring case, in any searchable field
// of p. A blank term matches nothing.
func Matches(p position.Position, term string) bool {
	m := newMatcher(term)
	return m != nil && m.match(p)
}

// MatchingIDs returns the ids of every record that matches term, or nil when
// term is blank.
func MatchingIDs(records []position.Position, term string) map[string]struct{} {
	m := newMatcher(term)
	if m == nil {
		return nil
	}
	ids := make(map[string]struct{})
	for _, rec := range records {
		if m.match(rec) {
			ids[rec.ID] = struct{}{}
		}
	}
	return ids
}

type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(term string) *matcher {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	fold := cases.Fold()
	return &matcher{fold: fold, needle: fold.String(term)}
}

func (m *matcher) match(p position.Position) bool {
	fields := [...]string{
		p.DisplayName(),
		p.PositionTitle,
		p.JobName,
		p.Department,
		p.ID,
		p.PositionNumber,
		p.EmployeeCategory,
		p.Grade,
		p.Location,
	}
	for _, field := range fields {
		if field == "" {
			continue
		}
		if strings.Contains(m.fold.String(field), m.needle) {
			return true
		}
	}
	return false
}
