package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ai-stats/ai-stats-go/core/cost"
	"github.com/ai-stats/ai-stats-go/core/devtools"
	"github.com/ai-stats/ai-stats-go/internal/utils"
)

func newInfoCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the capture session and entry count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInfo(cmd.OutOrStdout(), devtools.ResolveDirectory(*dir))
		},
	}
}

func runInfo(stdout io.Writer, dir string) error {
	entries, err := devtools.ReadEntries(dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "directory:   %s\n", dir)
	meta, err := devtools.ReadSessionMetadata(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(stdout, "session:     none")
	case err != nil:
		return err
	default:
		fmt.Fprintf(stdout, "session:     %s\n", meta.SessionID)
		fmt.Fprintf(stdout, "started:     %s\n", formatMillis(meta.StartedAt))
		fmt.Fprintf(stdout, "sdk:         %s %s\n", meta.SDK, meta.SDKVersion)
		fmt.Fprintf(stdout, "platform:    %s\n", meta.Platform)
	}
	fmt.Fprintf(stdout, "entries:     %d\n", len(entries))
	return nil
}

func newStatsCmd(dir *string) *cobra.Command {
	var (
		asJSON  bool
		pricing string
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise requests, errors, tokens and cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd.OutOrStdout(), devtools.ResolveDirectory(*dir), pricing, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().StringVar(&pricing, "pricing", "", "JSON pricing table for entries captured without cost")
	return cmd
}

func runStats(stdout io.Writer, dir, pricing string, asJSON bool) error {
	entries, err := devtools.ReadEntries(dir)
	if err != nil {
		return err
	}
	if pricing != "" {
		table, err := cost.LoadTable(pricing)
		if err != nil {
			return err
		}
		for i := range entries {
			if entries[i].Metadata.Cost == nil {
				entries[i].Metadata.Cost = devtools.EstimateCost(&entries[i], table)
			}
		}
	}
	stats := devtools.ComputeStats(entries)

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Fprintf(stdout, "requests: %d  errors: %d  tokens: %d  cost: $%.6f  time: %s\n",
		stats.TotalRequests, stats.TotalErrors, stats.TotalTokens, stats.TotalCost,
		time.Duration(stats.TotalDurationMs)*time.Millisecond)
	if len(stats.ByEndpoint) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENDPOINT\tCALLS\tERRORS\tAVG MS\tCOST")
	for _, name := range stats.Endpoints() {
		ep := stats.ByEndpoint[name]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\t$%.6f\n", name, ep.Count, ep.Errors, ep.AvgDurationMs, ep.TotalCost)
	}
	return tw.Flush()
}

func newTailCmd(dir *string) *cobra.Command {
	var (
		n      int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print the most recent entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if n < 0 {
				return fmt.Errorf("%w: tail: --lines must not be negative", errUsage)
			}
			return runTail(cmd.OutOrStdout(), devtools.ResolveDirectory(*dir), n, asJSON)
		},
	}
	cmd.Flags().IntVarP(&n, "lines", "n", 10, "number of entries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw entries as JSON lines")
	return cmd
}

func runTail(stdout io.Writer, dir string, n int, asJSON bool) error {
	entries, err := devtools.ReadEntries(dir)
	if err != nil {
		return err
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	if asJSON {
		return writeJSONL(stdout, entries)
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tSTATUS\tMS\tTOKENS\tMODEL\tERROR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			formatMillis(e.Timestamp),
			entryType(e),
			status(e),
			e.DurationMs,
			e.Metadata.Usage.Total(),
			e.Metadata.Model,
			errorText(e),
		)
	}
	return tw.Flush()
}

func newExportCmd(dir *string) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every entry as csv or jsonl",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "csv" && format != "jsonl" {
				return fmt.Errorf("%w: export: unknown format %q", errUsage, format)
			}
			return runExport(cmd.OutOrStdout(), devtools.ResolveDirectory(*dir), format, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "csv or jsonl")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runExport(stdout io.Writer, dir, format, out string) (err error) {
	entries, err := devtools.ReadEntries(dir)
	if err != nil {
		return err
	}

	w := stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("error creating %s: %w", out, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("error closing %s: %w", out, cerr)
			}
		}()
		w = f
	}

	if format == "csv" {
		return devtools.WriteCSV(w, entries)
	}
	return writeJSONL(w, entries)
}

func newClearCmd(dir *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the event log and session metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := devtools.ResolveDirectory(*dir)
			if !yes {
				return fmt.Errorf("%w: clear: refusing to delete %s without --yes", errUsage, target)
			}
			if err := devtools.Clear(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", target)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

func writeJSONL(w io.Writer, entries []devtools.Entry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("error encoding entry: %w", err)
		}
	}
	return nil
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func entryType(e devtools.Entry) string {
	if e.Metadata.Stream {
		return e.Type + " (stream)"
	}
	return e.Type
}

func status(e devtools.Entry) string {
	if e.Metadata.StatusCode == nil {
		return "-"
	}
	return fmt.Sprint(*e.Metadata.StatusCode)
}

func errorText(e devtools.Entry) string {
	if e.Error == nil {
		return ""
	}
	msg := strings.ReplaceAll(e.Error.Message, "\n", " ")
	return e.Error.Type + ": " + utils.TruncateString(msg, 60)
}
