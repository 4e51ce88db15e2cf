package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kingrea/orgweaver/internal/config"
	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/rollup"
)

type statsOptions struct {
	input  string
	asJSON bool
}

func newStatsCmd(global *globalOptions) *cobra.Command {
	var opts statsOptions
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print head-count, vacancy and cost figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			return runStats(cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.input, "in", "", "Record source: file, saved version id or 'sample' (default: configured data source)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the figures as JSON")
	return cmd
}

func runStats(w io.Writer, cfg *config.Config, opts statsOptions) error {
	records, source, err := loadRecords(cfg, opts.input)
	if err != nil {
		return err
	}
	stats := rollup.Compute(records)
	if opts.asJSON {
		return writeJSON(w, stats)
	}

	summary := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Figure", "Value").
		Row("Source", source).
		Row("Positions", strconv.Itoa(stats.Positions)).
		Row("Vacancies", strconv.Itoa(stats.Vacancies)).
		Row("Top level", strconv.Itoa(stats.TopLevel)).
		Row("Managers", strconv.Itoa(stats.Managers)).
		Row("Max span", strconv.Itoa(stats.MaxSpan)).
		Row("Average span", strconv.FormatFloat(stats.AverageSpan, 'f', 1, 64)).
		Row("Total cost", position.FormatCost(stats.TotalCost)).
		Row("Vacancy cost", position.FormatCost(stats.VacancyCost)).
		Row("Jobs covered", strconv.Itoa(len(stats.JobsCovered))).
		Row("Dangling links", strconv.Itoa(stats.DanglingLinks))
	if _, err := fmt.Fprintln(w, summary.String()); err != nil {
		return err
	}

	departments := make([]string, 0, len(stats.ByDepartment))
	for dept := range stats.ByDepartment {
		departments = append(departments, dept)
	}
	sort.Strings(departments)
	byDept := table.New().Border(lipgloss.NormalBorder()).Headers("Department", "Cost")
	for _, dept := range departments {
		byDept.Row(dept, position.FormatCost(stats.ByDepartment[dept]))
	}
	_, err = fmt.Fprintln(w, byDept.String())
	return err
}
