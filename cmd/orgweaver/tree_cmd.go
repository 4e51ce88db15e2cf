package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/orgweaver/internal/config"
	"github.com/kingrea/orgweaver/internal/hierarchy"
	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/view"
)

type treeOptions struct {
	input  string
	search string
	root   string
	asJSON bool
}

func newTreeCmd(global *globalOptions) *cobra.Command {
	var opts treeOptions
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the reporting tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			return runTree(cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.input, "in", "", "Record source: file, saved version id or 'sample' (default: configured data source)")
	cmd.Flags().StringVar(&opts.search, "search", "", "Only show matching positions and their ancestors")
	cmd.Flags().StringVar(&opts.root, "root", "", "Start the tree at this position id")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the tree as JSON")
	return cmd
}

func runTree(w io.Writer, cfg *config.Config, opts treeOptions) error {
	records, _, err := loadRecords(cfg, opts.input)
	if err != nil {
		return err
	}
	state := view.State{Search: opts.search, Searching: strings.TrimSpace(opts.search) != ""}
	if root := strings.TrimSpace(opts.root); root != "" {
		if _, ok := hierarchy.NewBuilder(records).Lookup(root); !ok {
			return withCode(exitUsage, fmt.Errorf("unknown --root %q", root))
		}
		state.Stack = []string{root}
	}
	nodes := view.Resolve(records, state)
	if opts.asJSON {
		return writeJSON(w, toTreeJSON(nodes))
	}
	if len(nodes) == 0 {
		_, err := fmt.Fprintln(w, "no matching positions")
		return err
	}
	attrs := cfg.DisplayAttributes()
	var writeErr error
	var visit func(nodes []*hierarchy.Node, depth int)
	visit = func(nodes []*hierarchy.Node, depth int) {
		for _, n := range nodes {
			if writeErr != nil {
				return
			}
			_, writeErr = fmt.Fprintln(w, treeLine(n, depth, attrs))
			visit(n.Children, depth+1)
		}
	}
	visit(nodes, 0)
	return writeErr
}

func treeLine(n *hierarchy.Node, depth int, attrs []position.Attribute) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.DisplayName())
	if n.Vacant() {
		b.WriteString(" (vacant)")
	}
	for _, attr := range attrs {
		if attr == position.AttrEmployeeName {
			continue
		}
		if value := n.AttributeValue(attr, n.SupervisorName); value != "" {
			b.WriteString(" · ")
			b.WriteString(value)
		}
	}
	if n.TotalReportCount > 0 {
		fmt.Fprintf(&b, " [%d/%d]", n.DirectReportCount, n.TotalReportCount)
	}
	return b.String()
}

type treeJSON struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	PositionTitle     string     `json:"positionTitle"`
	Vacant            bool       `json:"vacant"`
	SupervisorName    string     `json:"supervisorName,omitempty"`
	Level             int        `json:"level"`
	DirectReportCount int        `json:"directReportCount"`
	TotalReportCount  int        `json:"totalReportCount"`
	Children          []treeJSON `json:"children"`
}

func toTreeJSON(nodes []*hierarchy.Node) []treeJSON {
	out := make([]treeJSON, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, treeJSON{
			ID:                n.ID,
			Name:              n.DisplayName(),
			PositionTitle:     n.PositionTitle,
			Vacant:            n.Vacant(),
			SupervisorName:    n.SupervisorName,
			Level:             n.Level,
			DirectReportCount: n.DirectReportCount,
			TotalReportCount:  n.TotalReportCount,
			Children:          toTreeJSON(n.Children),
		})
	}
	return out
}
