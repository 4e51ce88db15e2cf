package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/orgweaver/internal/advisor"
	"github.com/kingrea/orgweaver/internal/config"
	"github.com/kingrea/orgweaver/internal/editor"
	"github.com/kingrea/orgweaver/internal/rollup"
)

const advisorTimeout = 90 * time.Second

type summaryOptions struct {
	before string
	after  string
	local  bool
}

func newSummaryCmd(global *globalOptions) *cobra.Command {
	var opts summaryOptions
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Describe the impact of moving from one record set to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			return runSummary(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.before, "before", "", "Earlier record source; omit to describe --after on its own")
	cmd.Flags().StringVar(&opts.after, "after", "", "Later record source (default: configured data source)")
	cmd.Flags().BoolVar(&opts.local, "local", false, "Compute the figures locally without the advisor")
	return cmd
}

func runSummary(ctx context.Context, w io.Writer, cfg *config.Config, opts summaryOptions) error {
	after, _, err := loadRecords(cfg, opts.after)
	if err != nil {
		return err
	}
	hasBefore := strings.TrimSpace(opts.before) != ""
	var summary advisor.Summary
	switch {
	case !hasBefore:
		summary = rollup.LocalSummary(after)
	case opts.local:
		before, _, err := loadRecords(cfg, opts.before)
		if err != nil {
			return err
		}
		summary = rollup.Diff(before, after)
	default:
		before, _, err := loadRecords(cfg, opts.before)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(contextOrBackground(ctx), advisorTimeout)
		defer cancel()
		summary, err = editor.Summarize(ctx, newAdvisor(cfg), before, after, true)
		if err != nil {
			return withCode(exitAdvisor, advisorError(cfg, err))
		}
	}
	return writeJSON(w, summary)
}

type recommendOptions struct {
	input string
	goals string
}

func newRecommendCmd(global *globalOptions) *cobra.Command {
	var opts recommendOptions
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Ask the advisor for structural recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.config()
			if err != nil {
				return err
			}
			return runRecommend(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&opts.input, "in", "", "Record source: file, saved version id or 'sample' (default: configured data source)")
	cmd.Flags().StringVar(&opts.goals, "goals", "", "Organisational goals (default: goals from config)")
	return cmd
}

func runRecommend(ctx context.Context, w io.Writer, cfg *config.Config, opts recommendOptions) error {
	records, _, err := loadRecords(cfg, opts.input)
	if err != nil {
		return err
	}
	goals := strings.TrimSpace(opts.goals)
	if goals == "" {
		goals = cfg.Goals()
	}
	ctx, cancel := context.WithTimeout(contextOrBackground(ctx), advisorTimeout)
	defer cancel()
	recs, err := newAdvisor(cfg).Recommend(ctx, records, goals)
	if err != nil {
		return withCode(exitAdvisor, advisorError(cfg, err))
	}
	return writeJSON(w, recs)
}

func advisorError(cfg *config.Config, err error) error {
	if errors.Is(err, advisor.ErrUnavailable) {
		return fmt.Errorf("%w (set %s, or advisor.provider in %s)", err, cfg.Project.Advisor.APIKeyEnv, cfg.ProjectConfigPath())
	}
	return err
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return withCode(exitIO, fmt.Errorf("json encode: %w", err))
	}
	return nil
}
