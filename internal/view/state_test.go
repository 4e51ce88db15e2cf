package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/orgweaver/internal/hierarchy"
	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/store"
)

func rec(id, name, sup string) position.Position {
	p := position.Position{ID: id, EmployeeName: position.Ref(name), PositionTitle: "T" + id, JobName: "J" + id}
	if sup != "" {
		p.SupervisorID = position.Ref(sup)
	}
	return p
}

func fixture() *store.Store {
	return store.New([]position.Position{
		rec("1", "Ada", ""),
		rec("2", "Grace", "1"),
		rec("3", "Linus", "2"),
		rec("4", "Margaret", "1"),
	})
}

func ids(nodes []*hierarchy.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestResolveTopLevel(t *testing.T) {
	s := fixture()
	nodes := Resolve(s.All(), State{})
	assert.Equal(t, []string{"1"}, ids(nodes))
	assert.Equal(t, 3, nodes[0].TotalReportCount)
}

func TestSelectDrillsIntoNodeWithReports(t *testing.T) {
	s := fixture()
	st := State{}.Select("1", s).Select("2", s)

	assert.Equal(t, []string{"1", "2"}, st.Stack)
	assert.Equal(t, "2", st.Selected)

	nodes := Resolve(s.All(), st)
	require.Len(t, nodes, 1)
	assert.Equal(t, "2", nodes[0].ID)
	assert.Equal(t, 1, nodes[0].Level)
	assert.Equal(t, "Ada", nodes[0].SupervisorName)
	assert.Equal(t, 1, nodes[0].TotalReportCount)
	assert.Equal(t, 2, nodes[0].Children[0].Level)
}

func TestSelectLeafOnlySelects(t *testing.T) {
	s := fixture()
	st := State{}.Select("3", s)
	assert.Empty(t, st.Stack)
	assert.Equal(t, "3", st.Selected)
}

func TestSelectCurrentRootDoesNotPushTwice(t *testing.T) {
	s := fixture()
	st := State{}.Select("1", s).Select("1", s)
	assert.Equal(t, []string{"1"}, st.Stack)
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	s := fixture()
	base := State{}.Select("1", s)
	_ = base.Select("2", s)
	_ = base.GoUp(s)
	assert.Equal(t, []string{"1"}, base.Stack)
}

func TestGoUpPopsAndReselects(t *testing.T) {
	s := fixture()
	st := State{}.Select("1", s).Select("2", s).GoUp(s)
	assert.Equal(t, []string{"1"}, st.Stack)
	assert.Equal(t, "1", st.Selected)

	st = st.GoUp(s)
	assert.Empty(t, st.Stack)
	assert.Empty(t, st.Selected)
	assert.False(t, st.CanGoUp())
}

func TestSearchFlipResetsStack(t *testing.T) {
	s := fixture()
	st := State{}.Select("1", s).SetSearch("linus", s)
	assert.True(t, st.Searching)
	assert.Empty(t, st.Stack)

	st = st.SetSearch("lin", s)
	assert.True(t, st.Searching)

	st = st.SetSearch("  ", s)
	assert.False(t, st.Searching)
	assert.Empty(t, st.Stack)
}

func TestSearchRetainsAncestorsOfMatches(t *testing.T) {
	s := fixture()
	st := State{}.SetSearch("linus", s)
	nodes := Resolve(s.All(), st)

	require.Equal(t, []string{"1"}, ids(nodes))
	require.Equal(t, []string{"2"}, ids(nodes[0].Children))
	assert.Equal(t, []string{"3"}, ids(nodes[0].Children[0].Children))
	assert.Equal(t, 2, nodes[0].TotalReportCount)
}

func TestSearchWithoutMatchesIsEmpty(t *testing.T) {
	s := fixture()
	st := State{}.SetSearch("nobody", s)
	assert.Empty(t, Resolve(s.All(), st))
}

func TestSelectWhileSearchingDefersDrillDown(t *testing.T) {
	s := fixture()
	st := State{}.SetSearch("grace", s).Select("2", s)

	assert.False(t, st.Searching)
	assert.Empty(t, st.Search)
	assert.Empty(t, st.Pending, "pending drill-down is consumed once")
	assert.Equal(t, []string{"2"}, st.Stack)
	assert.Equal(t, "2", st.Selected)

	nodes := Resolve(s.All(), st)
	require.Len(t, nodes, 1)
	assert.Equal(t, "2", nodes[0].ID)
}

func TestPendingDrillDownDroppedWhenRecordVanished(t *testing.T) {
	s := fixture()
	st := State{Search: "x", Searching: true, Pending: "404"}
	st = st.SetSearch("", s)
	assert.Empty(t, st.Stack)
	assert.Empty(t, st.Pending)
}

func TestGoUpAtTopOfSearchClearsSearch(t *testing.T) {
	s := fixture()
	st := State{}.SetSearch("linus", s)
	require.True(t, st.CanGoUp())

	st = st.GoUp(s)
	assert.False(t, st.Searching)
	assert.Empty(t, st.Search)
	assert.Equal(t, []string{"1"}, ids(Resolve(s.All(), st)))
}

func TestSearchFocusFallsBackToForestWhenNarrowed(t *testing.T) {
	s := fixture()
	st := State{Search: "a", Searching: true, Stack: []string{"4"}}
	nodes := Resolve(s.All(), st)
	require.Len(t, nodes, 1)
	assert.Equal(t, "4", nodes[0].ID)

	st = st.SetSearch("linus", s)
	st.Stack = []string{"4"}
	nodes = Resolve(s.All(), st)
	assert.Equal(t, []string{"1"}, ids(nodes), "focus id no longer in results")
}

func TestResolveDeletedFocusFallsBackToTopLevel(t *testing.T) {
	s := fixture()
	st := State{Stack: []string{"2"}}
	s.Delete("2")
	assert.Equal(t, []string{"1"}, ids(Resolve(s.All(), st)))
}

func TestResolveIsIdempotent(t *testing.T) {
	s := fixture()
	records := s.All()
	for _, st := range []State{
		{},
		State{}.Select("1", s),
		State{}.SetSearch("a", s),
	} {
		first := hierarchy.Flatten(Resolve(records, st))
		second := hierarchy.Flatten(Resolve(records, st))
		assert.Equal(t, first, second)
	}
}

func TestAfterDeleteRepairsStackAndSelection(t *testing.T) {
	s := fixture()
	st := State{}.Select("1", s).Select("2", s)
	s.Delete("2")
	st = st.AfterDelete("2", s)

	assert.Equal(t, []string{"1"}, st.Stack)
	assert.Equal(t, "1", st.Selected)
}

func TestAfterDeleteOfUnrelatedRecordKeepsState(t *testing.T) {
	s := fixture()
	st := State{}.Select("1", s).Select("2", s)
	s.Delete("4")
	st = st.AfterDelete("4", s)
	assert.Equal(t, []string{"1", "2"}, st.Stack)
	assert.Equal(t, "2", st.Selected)
}

func TestAfterDeleteResetsInvalidStack(t *testing.T) {
	s := fixture()
	st := State{Stack: []string{"gone", "2"}, Selected: "2"}
	s.Delete("2")
	st = st.AfterDelete("2", s)
	assert.Empty(t, st.Stack)
	assert.Empty(t, st.Selected)
}

func TestReduceDispatchesEvents(t *testing.T) {
	s := fixture()
	st := State{}
	for _, ev := range []Event{SelectEvent{ID: "1"}, SelectEvent{ID: "2"}, GoUpEvent{}} {
		st = Reduce(st, ev, s)
	}
	assert.Equal(t, []string{"1"}, st.Stack)

	st = Reduce(st, SearchEvent{Term: "lin"}, s)
	assert.True(t, st.Searching)
	assert.Empty(t, st.Stack)

	st = Reduce(st, ResetEvent{}, s)
	assert.Equal(t, State{}, st)
}

func TestBreadcrumbsSkipMissingEntries(t *testing.T) {
	s := fixture()
	st := State{Stack: []string{"1", "gone", "2"}}
	crumbs := Breadcrumbs(s.All(), st)
	assert.Equal(t, []Crumb{{ID: "1", Name: "Ada"}, {ID: "2", Name: "Grace"}}, crumbs)
}
