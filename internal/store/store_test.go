package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/orgweaver/internal/position"
)

func chain() []position.Position {
	return []position.Position{
		{ID: "1", EmployeeName: position.Ref("Root"), PositionTitle: "CEO", JobName: "Exec", PositionNumber: "PN-1"},
		{ID: "2", EmployeeName: position.Ref("Mid"), SupervisorID: position.Ref("1"), PositionTitle: "CTO", JobName: "Tech", PositionNumber: "PN-2"},
		{ID: "3", EmployeeName: position.Ref("Leaf"), SupervisorID: position.Ref("2"), PositionTitle: "Dev", JobName: "Eng", PositionNumber: "PN-3"},
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func TestNewCollapsesDuplicateIDs(t *testing.T) {
	records := chain()
	dup := records[1]
	dup.PositionTitle = "Chief Technologist"
	s := New(append(records, dup))

	require.Equal(t, 3, s.Len())
	got, ok := s.Get("2")
	require.True(t, ok)
	assert.Equal(t, "Chief Technologist", got.PositionTitle)
	assert.Equal(t, "2", s.All()[1].ID, "upsert keeps the original slot")
}

func TestAddGeneratesIDAndResolvesSupervisorNumber(t *testing.T) {
	s := New(chain(), WithIDGenerator(sequentialIDs()))
	rec, outcome := s.Add(position.Position{
		SupervisorID:  position.Ref("2"),
		PositionTitle: "QA",
		JobName:       "Eng",
	})

	assert.Equal(t, OutcomeAdded, outcome)
	assert.Equal(t, "gen-1", rec.ID)
	require.NotNil(t, rec.SupervisorPositionNumber)
	assert.Equal(t, "PN-2", *rec.SupervisorPositionNumber)
	assert.Equal(t, 4, s.Len())
	assert.True(t, rec.Vacant())
}

func TestAddWithExistingIDUpserts(t *testing.T) {
	s := New(chain())
	_, outcome := s.Add(position.Position{ID: "3", PositionTitle: "Senior Dev", JobName: "Eng", SupervisorID: position.Ref("1")})

	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, 3, s.Len())
	got, _ := s.Get("3")
	assert.Equal(t, "Senior Dev", got.PositionTitle)
	assert.Equal(t, "PN-1", *got.SupervisorPositionNumber)
	assert.Equal(t, "3", s.All()[2].ID)
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	s := New(chain())
	_, ok := s.Update(position.Position{ID: "404", PositionTitle: "X", JobName: "Y"})
	assert.False(t, ok)
	assert.Equal(t, 3, s.Len())
}

func TestSupervisorNumberIsPointInTime(t *testing.T) {
	s := New(chain())
	s.Add(position.Position{ID: "4", SupervisorID: position.Ref("2"), PositionTitle: "Ops", JobName: "Ops"})

	mid, _ := s.Get("2")
	mid.PositionNumber = "PN-200"
	_, ok := s.Update(mid)
	require.True(t, ok)

	sub, _ := s.Get("4")
	assert.Equal(t, "PN-2", *sub.SupervisorPositionNumber, "cached number goes stale on renumbering")
}

func TestDeleteReparentsDirectReports(t *testing.T) {
	s := New(chain())
	s.Add(position.Position{ID: "4", SupervisorID: position.Ref("2"), PositionTitle: "Ops", JobName: "Ops"})

	del, ok := s.Delete("2")
	require.True(t, ok)
	assert.Equal(t, "2", del.Removed.ID)
	assert.ElementsMatch(t, []string{"3", "4"}, del.Reparented)
	assert.False(t, s.Exists("2"))

	for _, id := range []string{"3", "4"} {
		rec, _ := s.Get(id)
		require.NotNil(t, rec.SupervisorID)
		assert.Equal(t, "1", *rec.SupervisorID)
		assert.Equal(t, "PN-1", *rec.SupervisorPositionNumber)
	}
}

func TestDeleteTopLevelPromotesReportsToTopLevel(t *testing.T) {
	s := New(chain())
	_, ok := s.Delete("1")
	require.True(t, ok)
	mid, _ := s.Get("2")
	assert.True(t, mid.TopLevel())
	assert.Nil(t, mid.SupervisorPositionNumber)
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	s := New(chain())
	_, ok := s.Delete("404")
	assert.False(t, ok)
	assert.Equal(t, 3, s.Len())
}

func TestHasChildren(t *testing.T) {
	s := New(chain())
	assert.True(t, s.HasChildren("1"))
	assert.True(t, s.HasChildren("2"))
	assert.False(t, s.HasChildren("3"))
	assert.False(t, s.HasChildren(""))
}

func TestAllReturnsCopies(t *testing.T) {
	s := New(chain())
	all := s.All()
	*all[1].SupervisorID = "mutated"
	rec, _ := s.Get("2")
	assert.Equal(t, "1", *rec.SupervisorID)
}
