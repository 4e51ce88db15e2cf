package exchange

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/orgweaver/internal/position"
)

func TestRoundTripEveryFormat(t *testing.T) {
	sample := position.Sample()
	vacant := position.Position{
		ID: "15", PositionTitle: "Designer, Senior", JobName: "Designer",
		PositionNumber: "PN-15", SupervisorID: position.Ref("2"), SupervisorPositionNumber: position.Ref("PN-2"),
		ProformaCost: 1234.5,
	}
	sample = append(sample, vacant)

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, f, sample))

			got, err := Decode(&buf, f)
			require.NoError(t, err)
			assert.Equal(t, sample, got)
			assert.True(t, got[len(got)-1].Vacant())
		})
	}
}

func TestCSVHeaderOnlyWritesColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatCSV, nil))
	assert.Equal(t, strings.Join(Columns, ",")+"\r\n", buf.String())
}

func TestCSVDecodeAppliesDefaults(t *testing.T) {
	input := "\ufeffid,employeeName,supervisorId,positionTitle,jobName,positionNumber,proformaCost\n" +
		"1,Ada,null,CEO,Chief,,\"1,000\"\n" +
		"2,,1,,,X-2,abc\n" +
		",Linus,2,Eng,Engineer,,50\n"

	got, err := Decode(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	require.Len(t, got, 3)

	ada := got[0]
	assert.Equal(t, "1", ada.ID)
	assert.True(t, ada.TopLevel())
	assert.Equal(t, "PN-1", ada.PositionNumber)
	assert.InDelta(t, 1000, ada.ProformaCost, 1e-9)

	vacancy := got[1]
	assert.True(t, vacancy.Vacant())
	assert.Equal(t, unknownTitle, vacancy.PositionTitle)
	assert.Equal(t, unknownJob, vacancy.JobName)
	assert.Zero(t, vacancy.ProformaCost)
	assert.Equal(t, "PN-1", position.Deref(vacancy.SupervisorPositionNumber))

	linus := got[2]
	assert.NotEmpty(t, linus.ID)
	assert.Equal(t, "PN-"+linus.ID, linus.PositionNumber)
	assert.Equal(t, "X-2", position.Deref(linus.SupervisorPositionNumber))
}

func TestCSVDecodeKeepsExplicitSupervisorNumber(t *testing.T) {
	input := "id,supervisorId,supervisorPositionNumber,positionTitle,jobName\n" +
		"1,,,CEO,Chief\n" +
		"2,1,OLD-1,CTO,Tech\n" +
		"3,404,,Orphan,Job\n"
	got, err := Decode(strings.NewReader(input), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "OLD-1", position.Deref(got[1].SupervisorPositionNumber))
	assert.Nil(t, got[2].SupervisorPositionNumber, "dangling supervisor has no number to copy")
}

func TestCSVDecodeRejectsInvalidRow(t *testing.T) {
	input := "id,positionTitle,jobName,proformaCost\n1,CEO,Chief,10\n\n2,CTO,Tech,-5\n"
	_, err := Decode(strings.NewReader(input), FormatCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")
	assert.Contains(t, err.Error(), "proforma cost")
}

func TestDecodeEmptyInputs(t *testing.T) {
	for _, input := range []struct {
		format Format
		data   string
	}{
		{FormatCSV, ""},
		{FormatCSV, "id,positionTitle\n"},
		{FormatJSON, "[]"},
		{FormatJSON, ""},
	} {
		got, err := Decode(strings.NewReader(input.data), input.format)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	}
}

func TestJSONDecodeRejectsInvalidRecord(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"id":"1","positionTitle":"A","jobName":"B"},{"id":"2","proformaCost":-1}]`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")

	_, err = Decode(strings.NewReader(`{"id":"1"}`), FormatJSON)
	require.Error(t, err)
}

func TestJSONDecodeNullEmployeeIsVacant(t *testing.T) {
	got, err := Decode(strings.NewReader(`[{"id":"1","employeeName":null,"supervisorId":null,"positionTitle":"CEO","jobName":"Chief"}]`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Vacant())
	assert.Equal(t, "CEO", got[0].DisplayName())
}

func TestFormats(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	assert.Equal(t, ".xlsx", f.Extension())

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	f, err = FormatFromPath("/tmp/org.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatFromPath("/tmp/org")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.ErrorIs(t, Encode(&bytes.Buffer{}, Format("pdf"), nil), ErrUnsupportedFormat)
	_, err = Decode(strings.NewReader(""), Format("pdf"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteAndReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exports", "org.xlsx")
	require.NoError(t, WriteFile(path, FormatXLSX, position.Sample()))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 14)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
