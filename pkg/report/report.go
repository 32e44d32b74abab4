// Package report renders run results for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/boa-dev/ghpages-tools/pkg/benchfilter"
	"github.com/boa-dev/ghpages-tools/pkg/compact"
	"github.com/boa-dev/ghpages-tools/pkg/conformance"
	"github.com/boa-dev/ghpages-tools/pkg/database"
)

const shortCommitLen = 8

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
)

// Success prints a green check line
func Success(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ "+format+"\n", args...)
}

// Failure prints a red cross line
func Failure(w io.Writer, format string, args ...any) {
	failureColor.Fprintf(w, "✗ "+format+"\n", args...)
}

// Warning prints a yellow line
func Warning(w io.Writer, format string, args ...any) {
	warningColor.Fprintf(w, "! "+format+"\n", args...)
}

// Bytes formats a byte count
func Bytes(n int64) string {
	return humanize.IBytes(uint64(max(n, 0)))
}

// Percent returns part/total as a percentage string
func Percent(part, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", float64(part)*100/float64(total))
}

// Conformance is the share of tests whose outcome is O, the passing code.
func Conformance(c conformance.Counters) string {
	return Percent(c.Outdated, c.Total)
}

func short(commit string) string {
	if len(commit) > shortCommitLen {
		return commit[:shortCommitLen]
	}
	return commit
}

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	return tbl
}

// CompactTable prints one row per ref of a compaction report
func CompactTable(w io.Writer, rep *compact.Report) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Ref", "Commit", "Total", "Outdated", "Ignored", "Partial", "Conformance", "latest.json", "results.json"})
	for _, ref := range rep.Refs {
		tbl.AppendRow(table.Row{
			ref.Ref,
			short(ref.Commit),
			humanize.Comma(int64(ref.Aggregate.Total)),
			ref.Aggregate.Outdated,
			ref.Aggregate.Ignored,
			ref.Aggregate.Partial,
			Conformance(ref.Aggregate),
			fmt.Sprintf("%s → %s", Bytes(ref.LatestBefore), Bytes(ref.LatestAfter)),
			fmt.Sprintf("%s → %s", Bytes(ref.ResultsBefore), Bytes(ref.ResultsAfter)),
		})
	}
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%d refs", len(rep.Refs)), "", "", "", "", "", "",
		fmt.Sprintf("%s → %s", Bytes(rep.BytesBefore()), Bytes(rep.BytesAfter())),
	})
	tbl.Render()
}

// BenchTable prints one row per benchmark collection
func BenchTable(w io.Writer, stats *benchfilter.Stats) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Collection", "Before", "Stale", "Outliers", "After"})
	for _, c := range stats.Collections {
		tbl.AppendRow(table.Row{c.Name, c.Before, c.Stale, c.Outliers, c.After})
	}
	tbl.AppendFooter(table.Row{
		"Total", stats.EntriesBefore(), "", "",
		stats.EntriesAfter(),
	})
	tbl.Render()
	fmt.Fprintf(w, "Measurements dropped: %d of %d\n", stats.MeasurementsDropped, stats.MeasurementsBefore)
}

// RunsTable prints recorded runs
func RunsTable(w io.Writer, runs []*database.Run) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"ID", "Tool", "Started", "Duration", "Status", "Before", "After", "Input", "Notes"})
	for _, run := range runs {
		duration := "-"
		if run.CompletedAt != nil {
			duration = run.CompletedAt.Sub(run.StartedAt).String()
		}
		tbl.AppendRow(table.Row{
			run.ID,
			run.Tool,
			humanize.Time(run.StartedAt),
			duration,
			statusText(run.Status),
			run.EntriesBefore,
			run.EntriesAfter,
			run.InputPath,
			run.Notes,
		})
	}
	tbl.Render()
}

// RefsTable prints recorded ref summaries
func RefsTable(w io.Writer, summaries []*database.RefSummary) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Run", "Ref", "Commit", "Test262", "Total", "Outdated", "Ignored", "Partial", "Conformance", "Size"})
	for _, rs := range summaries {
		tbl.AppendRow(table.Row{
			rs.RunID,
			rs.Ref,
			short(rs.CommitID),
			short(rs.Test262Commit),
			humanize.Comma(int64(rs.Total)),
			rs.Outdated,
			rs.Ignored,
			rs.Partial,
			Conformance(conformance.Counters{
				Total:    rs.Total,
				Outdated: rs.Outdated,
				Ignored:  rs.Ignored,
				Partial:  rs.Partial,
			}),
			fmt.Sprintf("%s → %s", Bytes(rs.BytesBefore), Bytes(rs.BytesAfter)),
		})
	}
	tbl.Render()
}

// OperationsTable prints the git operations of a run
func OperationsTable(w io.Writer, ops []*database.Operation) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"ID", "Operation", "Started", "Duration", "Status", "Error"})
	for _, op := range ops {
		tbl.AppendRow(table.Row{
			op.ID,
			op.Operation,
			op.StartedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.3fs", float64(op.DurationMs)/1000.0),
			statusText(op.Status),
			op.Error,
		})
	}
	tbl.Render()
}

func statusText(status string) string {
	switch status {
	case database.StatusCompleted, "success":
		return successColor.Sprint(status)
	case database.StatusFailed:
		return failureColor.Sprint(status)
	default:
		return warningColor.Sprint(status)
	}
}
