// Package rollup computes the organisation-wide figures used by summaries:
// total cost, the set of jobs covered and how both change between versions.
package rollup

import (
	"math"
	"sort"
	"strings"

	"github.com/kingrea/orgweaver/internal/position"
)

// TotalCost sums proforma cost, counting NaN or infinite values as 0.
func TotalCost(records []position.Position) float64 {
	total := 0.0
	for _, rec := range records {
		total += costOf(rec)
	}
	return total
}

func costOf(rec position.Position) float64 {
	c := rec.ProformaCost
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	return c
}

// DistinctJobNames returns every non-blank job name once, sorted.
func DistinctJobNames(records []position.Position) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec.JobName)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// JobDelta lists job names present only in after (added) and only in before
// (removed).
func JobDelta(before, after []position.Position) (added, removed []string) {
	prev := toSet(DistinctJobNames(before))
	next := toSet(DistinctJobNames(after))
	added = []string{}
	removed = []string{}
	for _, name := range DistinctJobNames(after) {
		if _, ok := prev[name]; !ok {
			added = append(added, name)
		}
	}
	for _, name := range DistinctJobNames(before) {
		if _, ok := next[name]; !ok {
			removed = append(removed, name)
		}
	}
	return added, removed
}

// FallbackSummaryText is the narrative used when there is no earlier record
// set to compare with.
const FallbackSummaryText = "Initial organization structure loaded or no previous version for comparison."

// Impact describes how an organisation changed between two record sets.
type Impact struct {
	Summary     string   `json:"summary"`
	CostChange  float64  `json:"costChange"`
	JobsAdded   []string `json:"jobsAdded"`
	JobsRemoved []string `json:"jobsRemoved"`
	JobsCovered []string `json:"jobsCovered"`
}

// LocalSummary is the impact reported for records without a baseline: no cost
// change, nothing added or removed, every job covered.
func LocalSummary(records []position.Position) Impact {
	return Impact{
		Summary:     FallbackSummaryText,
		JobsAdded:   []string{},
		JobsRemoved: []string{},
		JobsCovered: DistinctJobNames(records),
	}
}

// Diff computes the numeric part of an Impact. Summary is left empty.
func Diff(before, after []position.Position) Impact {
	added, removed := JobDelta(before, after)
	return Impact{
		CostChange:  TotalCost(after) - TotalCost(before),
		JobsAdded:   added,
		JobsRemoved: removed,
		JobsCovered: DistinctJobNames(after),
	}
}

// CountVacancies returns how many records have no employee.
func CountVacancies(records []position.Position) int {
	n := 0
	for _, rec := range records {
		if rec.Vacant() {
			n++
		}
	}
	return n
}

// SpanOfControl maps each supervisor id present in records to its number of
// direct reports. Dangling supervisor references are not counted.
func SpanOfControl(records []position.Position) map[string]int {
	ids := make(map[string]struct{}, len(records))
	for _, rec := range records {
		ids[rec.ID] = struct{}{}
	}
	spans := map[string]int{}
	for _, rec := range records {
		key := rec.SupervisorKey()
		if key == "" {
			continue
		}
		if _, ok := ids[key]; ok {
			spans[key]++
		}
	}
	return spans
}

// Stats describes the shape of a record set.
type Stats struct {
	Positions     int
	Vacancies     int
	TopLevel      int
	Managers      int
	MaxSpan       int
	AverageSpan   float64
	TotalCost     float64
	VacancyCost   float64
	ByDepartment  map[string]float64
	JobsCovered   []string
	DanglingLinks int
}

// Compute gathers Stats for records.
func Compute(records []position.Position) Stats {
	spans := SpanOfControl(records)
	st := Stats{
		Positions:    len(records),
		ByDepartment: map[string]float64{},
		JobsCovered:  DistinctJobNames(records),
	}
	for _, rec := range records {
		cost := costOf(rec)
		st.TotalCost += cost
		dept := rec.Department
		if dept == "" {
			dept = "Unassigned"
		}
		st.ByDepartment[dept] += cost
		if rec.Vacant() {
			st.Vacancies++
			st.VacancyCost += cost
		}
		switch {
		case rec.TopLevel():
			st.TopLevel++
		case spans[rec.SupervisorKey()] == 0:
			st.DanglingLinks++
		}
	}
	st.Managers = len(spans)
	reports := 0
	for _, n := range spans {
		reports += n
		if n > st.MaxSpan {
			st.MaxSpan = n
		}
	}
	if st.Managers > 0 {
		st.AverageSpan = float64(reports) / float64(st.Managers)
	}
	return st
}

func toSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
