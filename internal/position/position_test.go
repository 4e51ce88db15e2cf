package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayNameFallsBackToTitleForVacancy(t *testing.T) {
	filled := Position{ID: "1", EmployeeName: Ref("Ada"), PositionTitle: "CEO"}
	vacant := Position{ID: "2", PositionTitle: "CTO"}

	assert.Equal(t, "Ada", filled.DisplayName())
	assert.False(t, filled.Vacant())
	assert.Equal(t, "CTO", vacant.DisplayName())
	assert.True(t, vacant.Vacant())
}

func TestNormalizeCollapsesBlankOptionalFields(t *testing.T) {
	p := Position{
		ID:            "  7 ",
		EmployeeName:  Ref("   "),
		SupervisorID:  Ref(""),
		PositionTitle: " Analyst ",
		JobName:       "Ops",
	}
	out := p.Normalize()

	assert.Equal(t, "7", out.ID)
	assert.Nil(t, out.EmployeeName)
	assert.Nil(t, out.SupervisorID)
	assert.True(t, out.TopLevel())
	assert.Equal(t, "Analyst", out.PositionTitle)
	// the input is left untouched
	assert.Equal(t, "   ", *p.EmployeeName)
}

func TestCloneDoesNotShareOptionalPointers(t *testing.T) {
	p := Position{ID: "1", SupervisorID: Ref("9")}
	clone := p.Clone()
	*clone.SupervisorID = "10"
	assert.Equal(t, "9", *p.SupervisorID)
}

func TestValidateReportsMissingFields(t *testing.T) {
	err := Position{ID: "x", ProformaCost: -1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position title is required")
	assert.Contains(t, err.Error(), "job name is required")
	assert.Contains(t, err.Error(), "proforma cost must be >= 0")

	require.NoError(t, Position{ID: "x", PositionTitle: "CEO", JobName: "Exec"}.Validate())
}

func TestNewIDIsUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id := NewID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestAttributeValue(t *testing.T) {
	p := Position{ID: "5", PositionTitle: "Lead", ProformaCost: 1234567}
	assert.Equal(t, "Vacant", p.AttributeValue(AttrEmployeeName, ""))
	assert.Equal(t, "$1,234,567", p.AttributeValue(AttrProformaCost, ""))
	assert.Equal(t, "Boss", p.AttributeValue(AttrSupervisorName, "Boss"))
	assert.Equal(t, "5", p.AttributeValue(AttrEmployeeNumber, ""))
	assert.True(t, KnownAttribute("grade"))
	assert.False(t, KnownAttribute("salary"))
}

func TestSampleIsConsistent(t *testing.T) {
	records := Sample()
	ids := map[string]struct{}{}
	for _, r := range records {
		require.NoError(t, r.Validate())
		ids[r.ID] = struct{}{}
	}
	require.Len(t, ids, len(records))
	for _, r := range records {
		if r.TopLevel() {
			continue
		}
		_, ok := ids[r.SupervisorKey()]
		assert.True(t, ok, "supervisor of %s must exist", r.ID)
	}
}
