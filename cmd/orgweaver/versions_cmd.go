package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kingrea/orgweaver/internal/config"
	"github.com/kingrea/orgweaver/internal/position"
	"github.com/kingrea/orgweaver/internal/snapshot"
)

func newVersionsCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List saved versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			return runVersionsList(cmd.OutOrStdout(), cfg)
		},
	}
	cmd.AddCommand(newVersionsSaveCmd(global))
	return cmd
}

type versionsSaveOptions struct {
	input string
	label string
}

func newVersionsSaveCmd(global *globalOptions) *cobra.Command {
	var opts versionsSaveOptions
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the records as a new version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			return runVersionsSave(cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.input, "in", "", "Record source: file, saved version id or 'sample' (default: configured data source)")
	cmd.Flags().StringVar(&opts.label, "label", "", "Label stored with the version")
	return cmd
}

func runVersionsList(w io.Writer, cfg *config.Config) error {
	metas, err := snapshot.NewStore(cfg.VersionsDir()).List()
	if err != nil {
		return withCode(exitIO, err)
	}
	if len(metas) == 0 {
		_, err := fmt.Fprintln(w, "no saved versions")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Label", "Created", "Positions", "Total cost")
	for _, meta := range metas {
		t.Row(
			meta.ID,
			meta.Label,
			meta.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			strconv.Itoa(meta.Count),
			position.FormatCost(meta.TotalCost),
		)
	}
	_, err = fmt.Fprintln(w, t.String())
	return err
}

func runVersionsSave(w io.Writer, cfg *config.Config, opts versionsSaveOptions) error {
	records, source, err := loadRecords(cfg, opts.input)
	if err != nil {
		return err
	}
	meta, err := snapshot.NewStore(cfg.VersionsDir()).Save(opts.label, records, map[string]string{"source": source})
	if err != nil {
		return withCode(exitIO, err)
	}
	_, err = fmt.Fprintf(w, "saved version %s (%d positions)\n", meta.ID, meta.Count)
	return err
}
