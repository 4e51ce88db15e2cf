package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/orgweaver/internal/config"
	"github.com/kingrea/orgweaver/internal/tui"
)

type globalOptions struct {
	projectDir string
}

func newRootCmd() *cobra.Command {
	var opts globalOptions
	cmd := &cobra.Command{
		Use:           "orgweaver",
		Short:         "Browse, edit and analyse an organisation chart",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.projectDir, "dir", "", "Project directory holding .orgweaver (default: current directory)")

	cmd.AddCommand(newTreeCmd(&opts))
	cmd.AddCommand(newStatsCmd(&opts))
	cmd.AddCommand(newExportCmd(&opts))
	cmd.AddCommand(newVersionsCmd(&opts))
	cmd.AddCommand(newSummaryCmd(&opts))
	cmd.AddCommand(newRecommendCmd(&opts))
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}

func runTUI(opts globalOptions) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	app, err := tui.NewApp(cfg.ProjectDir)
	if err != nil {
		return withCode(exitUsage, err)
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// config prepares .orgweaver in the project directory and loads it.
func (o globalOptions) config() (*config.Config, error) {
	dir := o.projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, withCode(exitIO, fmt.Errorf("get working directory: %w", err))
		}
		dir = cwd
	}
	if err := config.InitDir(dir); err != nil {
		return nil, withCode(exitIO, fmt.Errorf("init %s: %w", config.Dir, err))
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	return cfg, nil
}
