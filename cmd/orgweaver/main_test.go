package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/orgweaver/internal/advisor"
	"github.com/kingrea/orgweaver/internal/config"
	"github.com/kingrea/orgweaver/internal/exchange"
	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/rollup"
)

func TestTreePrintsSampleHierarchy(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "tree")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 14 {
		t.Fatalf("got %d lines, want 14:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "Alice Wonderland · CEO") || !strings.HasSuffix(lines[0], "[3/13]") {
		t.Fatalf("unexpected root line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  ") {
		t.Fatalf("child lines should be indented: %q", lines[1])
	}
}

func TestTreeSearchWithinRoot(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "tree", "--search", "intern", "--root", "2", "--json")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	var nodes []treeJSON
	if err := json.Unmarshal([]byte(out), &nodes); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(nodes) != 1 || nodes[0].ID != "2" || nodes[0].Level != 1 {
		t.Fatalf("expected the CTO branch at level 1, got %+v", nodes)
	}
	var ids []string
	var walk func([]treeJSON)
	walk = func(ns []treeJSON) {
		for _, n := range ns {
			ids = append(ids, n.ID)
			walk(n.Children)
		}
	}
	walk(nodes)
	if strings.Join(ids, ",") != "2,4,6,9" {
		t.Fatalf("unexpected filtered branch %v", ids)
	}
}

func TestTreeUnknownRootIsUsageError(t *testing.T) {
	_, err := execute(t, t.TempDir(), "tree", "--root", "nope")
	if exitCode(err) != exitUsage {
		t.Fatalf("exit code = %d, want %d (%v)", exitCode(err), exitUsage, err)
	}
}

func TestExportAndReadBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "org.xlsx")
	out, err := execute(t, dir, "export", "--out", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "exported 14 positions") {
		t.Fatalf("unexpected output %q", out)
	}
	records, err := exchange.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(records) != 14 {
		t.Fatalf("got %d records, want 14", len(records))
	}

	out, err = execute(t, dir, "tree", "--in", path, "--search", "kevin")
	if err != nil {
		t.Fatalf("tree from export: %v", err)
	}
	if !strings.Contains(out, "Kevin Kandidate") {
		t.Fatalf("expected Kevin in %q", out)
	}
}

func TestExportToStdoutUsesFormatFlag(t *testing.T) {
	out, err := execute(t, t.TempDir(), "export", "--out", "-", "--format", "json")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	records, err := exchange.Decode(strings.NewReader(out), exchange.FormatJSON)
	if err != nil || len(records) != 14 {
		t.Fatalf("decode stdout: %d records, %v", len(records), err)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, t.TempDir(), "export", "--out", "-", "--format", "pdf")
	if exitCode(err) != exitUsage || !errors.Is(err, exchange.ErrUnsupportedFormat) {
		t.Fatalf("unexpected error %v (code %d)", err, exitCode(err))
	}
}

func TestInvalidImportIsValidationError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	bad := []position.Position{{ID: "x", PositionTitle: "Lead", JobName: "Lead", ProformaCost: -1}}
	if err := exchange.WriteFile(path, exchange.FormatJSON, bad); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := execute(t, dir, "stats", "--in", path)
	if exitCode(err) != exitValidation {
		t.Fatalf("exit code = %d, want %d (%v)", exitCode(err), exitValidation, err)
	}
}

func TestRepeatedIDKeepsLastRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "org.csv")
	csv := "id,employeeName,supervisorId,positionTitle,jobName,proformaCost\n" +
		"1,Ann,,CEO,CEO,100\n" +
		"2,Bob,1,CTO,CTO,50\n" +
		"2,Bob Again,1,CTO,CTO,50\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := execute(t, dir, "tree", "--in", path)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasSuffix(lines[0], "[1/1]") || !strings.HasPrefix(strings.TrimSpace(lines[1]), "Bob Again") {
		t.Fatalf("expected only the last record for id 2:\n%s", out)
	}

	out, err = execute(t, dir, "stats", "--in", path, "--json")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats rollup.Stats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if stats.Positions != 2 || stats.TotalCost != 150 || stats.MaxSpan != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestVersionsSaveListAndLoad(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, dir, "versions")
	if err != nil || !strings.Contains(out, "no saved versions") {
		t.Fatalf("empty list: %q, %v", out, err)
	}
	out, err = execute(t, dir, "versions", "save", "--label", "baseline")
	if err != nil || !strings.Contains(out, "saved version") {
		t.Fatalf("save: %q, %v", out, err)
	}
	out, err = execute(t, dir, "versions")
	if err != nil || !strings.Contains(out, "baseline") || !strings.Contains(out, "$2,030,000") {
		t.Fatalf("list: %q, %v", out, err)
	}
	out, err = execute(t, dir, "stats", "--in", "latest", "--json")
	if err != nil {
		t.Fatalf("stats from version: %v", err)
	}
	if !strings.Contains(out, `"Positions": 14`) {
		t.Fatalf("unexpected stats %s", out)
	}
}

func TestUnknownSourceIsUsageError(t *testing.T) {
	_, err := execute(t, t.TempDir(), "stats", "--in", "does-not-exist")
	if exitCode(err) != exitUsage {
		t.Fatalf("exit code = %d, want %d (%v)", exitCode(err), exitUsage, err)
	}
}

func TestSummaryWithoutBeforeIsLocal(t *testing.T) {
	stubAdvisor(t, &stubAdvisorImpl{err: errors.New("must not be called")})
	out, err := execute(t, t.TempDir(), "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	var summary advisor.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.CostChange != 2030000 || len(summary.JobsCovered) != 14 {
		t.Fatalf("unexpected local summary %+v", summary)
	}
}

func TestSummaryComparesSources(t *testing.T) {
	dir := t.TempDir()
	after := position.Sample()[:13]
	path := filepath.Join(dir, "after.csv")
	if err := exchange.WriteFile(path, exchange.FormatCSV, after); err != nil {
		t.Fatalf("write: %v", err)
	}
	stub := &stubAdvisorImpl{summary: advisor.Summary{Summary: "Removed the HR intern.", CostChange: -35000}}
	stubAdvisor(t, stub)
	out, err := execute(t, dir, "summary", "--before", "sample", "--after", path)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if stub.before != 14 || stub.after != 13 {
		t.Fatalf("advisor saw %d -> %d records", stub.before, stub.after)
	}
	if !strings.Contains(out, "Removed the HR intern.") {
		t.Fatalf("unexpected output %s", out)
	}

	out, err = execute(t, dir, "summary", "--before", "sample", "--after", path, "--local")
	if err != nil {
		t.Fatalf("local summary: %v", err)
	}
	var local advisor.Summary
	if err := json.Unmarshal([]byte(out), &local); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if local.CostChange != -35000 || len(local.JobsRemoved) != 1 || local.JobsRemoved[0] != "Intern HR" {
		t.Fatalf("unexpected local diff %+v", local)
	}
}

func TestRecommendOfflineExitCode(t *testing.T) {
	stubAdvisor(t, advisor.Unavailable{})
	_, err := execute(t, t.TempDir(), "recommend")
	if exitCode(err) != exitAdvisor || !errors.Is(err, advisor.ErrUnavailable) {
		t.Fatalf("unexpected error %v (code %d)", err, exitCode(err))
	}
}

func TestRecommendPassesGoals(t *testing.T) {
	stub := &stubAdvisorImpl{recs: advisor.Recommendations{Summary: "ok"}}
	stubAdvisor(t, stub)
	if _, err := execute(t, t.TempDir(), "recommend"); err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if stub.goals != config.DefaultGoals {
		t.Fatalf("goals = %q, want config default", stub.goals)
	}
	if _, err := execute(t, t.TempDir(), "recommend", "--goals", "Grow sales"); err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if stub.goals != "Grow sales" {
		t.Fatalf("goals = %q", stub.goals)
	}
}

func TestExitCodeDefaults(t *testing.T) {
	if exitCode(nil) != exitOK {
		t.Fatalf("nil error must exit 0")
	}
	if exitCode(errors.New("plain")) != 1 {
		t.Fatalf("plain errors exit 1")
	}
	wrapped := fmt.Errorf("outer: %w", withCode(exitIO, errors.New("disk")))
	if exitCode(wrapped) != exitIO {
		t.Fatalf("wrapped cli errors keep their code")
	}
}

type stubAdvisorImpl struct {
	summary advisor.Summary
	recs    advisor.Recommendations
	err     error
	before  int
	after   int
	goals   string
}

func (s *stubAdvisorImpl) Summarize(_ context.Context, before, after []position.Position) (advisor.Summary, error) {
	s.before, s.after = len(before), len(after)
	return s.summary, s.err
}

func (s *stubAdvisorImpl) Recommend(_ context.Context, _ []position.Position, goals string) (advisor.Recommendations, error) {
	s.goals = goals
	return s.recs, s.err
}

func stubAdvisor(t *testing.T, adv advisor.Advisor) {
	t.Helper()
	prev := newAdvisor
	newAdvisor = func(*config.Config) advisor.Advisor { return adv }
	t.Cleanup(func() { newAdvisor = prev })
}

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}
