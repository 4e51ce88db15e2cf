package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/orgweaver/internal/position"
)

func TestMatchesSearchesEveryField(t *testing.T) {
	p := position.Position{
		ID:               "E-42",
		EmployeeName:     position.Ref("Grace Hopper"),
		PositionTitle:    "Rear Admiral",
		JobName:          "Compiler Pioneer",
		PositionNumber:   "PN-777",
		Department:       "Navy",
		Location:         "Arlington",
		Grade:            "VP",
		EmployeeCategory: "Fellow",
	}
	for _, term := range []string{"hopper", "ADMIRAL", "pioneer", "navy", "e-42", "pn-777", "fellow", "vp", "arling"} {
		assert.True(t, Matches(p, term), term)
	}
	assert.False(t, Matches(p, "babbage"))
	assert.False(t, Matches(p, "   "))
}

func TestMatchingIDsBlankTermIsNil(t *testing.T) {
	assert.Nil(t, MatchingIDs(chain(), " "))
	assert.Equal(t, map[string]struct{}{"3": {}}, MatchingIDs(chain(), "linus"))
}

func TestFilteredTreeRetainsAncestors(t *testing.T) {
	records := chain()
	matching := MatchingIDs(records, "linus")
	roots := BuildFilteredTree(records, matching, TopLevel, 0)

	require.Len(t, roots, 1)
	assert.Equal(t, "1", roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "2", roots[0].Children[0].ID)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "3", roots[0].Children[0].Children[0].ID)
}

func TestFilteredTreeCountsOnlyKeptDescendants(t *testing.T) {
	records := append(chain(), rec("4", "Margaret", "1"), rec("5", "Ken", "4"))
	roots := BuildFilteredTree(records, MatchingIDs(records, "linus"), TopLevel, 0)

	require.Len(t, roots, 1)
	assert.Equal(t, 1, roots[0].DirectReportCount)
	assert.Equal(t, 2, roots[0].TotalReportCount)
	assertAggregates(t, roots)

	full := BuildTree(records, TopLevel, 0)
	assert.Equal(t, 4, full[0].TotalReportCount)
}

func TestFilteredTreeInclusionProperty(t *testing.T) {
	records := position.Sample()
	for _, term := range []string{"intern", "operations", "london", "staff", "x-no-match"} {
		matching := MatchingIDs(records, term)
		included := map[string]struct{}{}
		for _, p := range Flatten(BuildFilteredTree(records, matching, TopLevel, 0)) {
			included[p.ID] = struct{}{}
		}

		b := NewBuilder(records)
		for _, r := range records {
			expect := hasMatchInSubtree(b, r.ID, matching)
			_, got := included[r.ID]
			assert.Equal(t, expect, got, "term %q record %s", term, r.ID)
		}
	}
}

func hasMatchInSubtree(b *Builder, id string, matching map[string]struct{}) bool {
	if _, ok := matching[id]; ok {
		return true
	}
	node, ok := b.Focus(id)
	if !ok {
		return false
	}
	found := false
	Walk(node.Children, func(n *Node) bool {
		if _, ok := matching[n.ID]; ok {
			found = true
		}
		return !found
	})
	return found
}

func TestFilteredTreeLevelsStayAbsolute(t *testing.T) {
	records := chain()
	roots := BuildFilteredTree(records, MatchingIDs(records, "linus"), TopLevel, 0)
	leaf := Find(roots, "3")
	require.NotNil(t, leaf)
	assert.Equal(t, 2, leaf.Level)
}
