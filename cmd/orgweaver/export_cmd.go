package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kingrea/orgweaver/internal/config"
	"github.com/kingrea/orgweaver/internal/exchange"
)

type exportOptions struct {
	input  string
	format string
	output string
}

func newExportCmd(global *globalOptions) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the records as csv, json or xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			return runExport(cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.input, "in", "", "Record source: file, saved version id or 'sample' (default: configured data source)")
	cmd.Flags().StringVar(&opts.format, "format", "", "csv, json or xlsx (default: from --out, then export.format)")
	cmd.Flags().StringVar(&opts.output, "out", "", "Output file, or - for stdout (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runExport(w io.Writer, cfg *config.Config, opts exportOptions) error {
	output := strings.TrimSpace(opts.output)
	if output == "" {
		return withCode(exitUsage, fmt.Errorf("--out is required"))
	}
	format, err := exportFormat(cfg, opts.format, output)
	if err != nil {
		return withCode(exitUsage, err)
	}
	records, _, err := loadRecords(cfg, opts.input)
	if err != nil {
		return err
	}
	if output == "-" {
		if err := exchange.Encode(w, format, records); err != nil {
			return withCode(exitIO, err)
		}
		return nil
	}
	if err := exchange.WriteFile(output, format, records); err != nil {
		return withCode(exitIO, err)
	}
	_, err = fmt.Fprintf(w, "exported %d positions to %s\n", len(records), output)
	return err
}

// exportFormat picks the explicit --format, then the output extension, then
// the configured default.
func exportFormat(cfg *config.Config, flag, output string) (exchange.Format, error) {
	if strings.TrimSpace(flag) != "" {
		return exchange.ParseFormat(flag)
	}
	if output != "-" {
		if f, err := exchange.FormatFromPath(output); err == nil {
			return f, nil
		}
	}
	return cfg.ExportFormat(), nil
}
