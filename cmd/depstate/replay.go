package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/vango-dev/depstate/internal/errors"
	"github.com/vango-dev/depstate/internal/scenario"
	"github.com/vango-dev/depstate/internal/telemetry"
	"github.com/vango-dev/depstate/pkg/metrics"
)

func replayCmd(c *cli) *cobra.Command {
	var (
		showMetrics bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay a scenario file",
		Long: `Replay a scenario against a fresh component and check each step's
expectations.

The scenario is JSON (.json) or YAML (.yaml, .yml). Every step prints the
state the component rendered with and its render count. The command exits
with an error when any expectation fails.

Examples:
  depstate replay counter.yaml
  depstate replay counter.yaml --metrics
  depstate replay reset.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), c, cmd.OutOrStdout(), args[0], showMetrics, asJSON)
		},
	}

	cmd.Flags().BoolVarP(&showMetrics, "metrics", "m", false, "Print Prometheus metrics after the replay")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func runReplay(ctx context.Context, c *cli, out io.Writer, path string, showMetrics, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := telemetry.Setup(ctx, c.cfg.Trace)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			c.logger.Warn("trace shutdown failed", slog.Any("error", err))
		}
	}()

	s, err := scenario.Load(path)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(
		metrics.WithRegistry(reg),
		metrics.WithNamespace(c.cfg.Metrics.Namespace),
	)

	report, err := scenario.Replay(ctx, s,
		scenario.WithLogger(c.logger),
		scenario.WithObserver(m),
		scenario.WithRenderObserver(m),
		scenario.WithMaxFlushPasses(c.cfg.Render.MaxFlushPasses),
	)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(out, report)
	}

	if showMetrics {
		if err := writeMetrics(out, reg); err != nil {
			return err
		}
	}

	if failed := report.Failed(); failed > 0 {
		return errors.New("E123").
			WithDetailf("%d of %d steps in %s failed", failed, len(report.Results), path)
	}
	return nil
}

func printReport(out io.Writer, report *scenario.Report) {
	fmt.Fprintf(out, "%s\n", report.Name)
	for _, res := range report.Results {
		mark := "ok  "
		if !res.Passed() {
			mark = "FAIL"
		}
		fmt.Fprintf(out, "%s %3d  %-40s state=%s renders=%d\n", mark, res.Index, res.Step, formatState(res.State), res.Renders)
		if !res.Passed() {
			fmt.Fprintf(out, "          %s\n", res.Error)
		}
	}
	fmt.Fprintf(out, "%d steps, %d failed\n", len(report.Results), report.Failed())
}

func writeMetrics(out io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	fmt.Fprintln(out)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

// formatState prints state as JSON, falling back to Go syntax for values
// JSON cannot hold, such as NaN.
func formatState(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
