package report

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/boa-dev/ghpages-tools/pkg/conformance"
)

// Labels names the two sides of a comparison in table headers.
type Labels struct {
	Base string
	New  string
}

// DefaultLabels compares the main branch against a pull request.
var DefaultLabels = Labels{Base: "main", New: "PR"}

func absComma(n int) string {
	if n < 0 {
		n = -n
	}
	return humanize.Comma(int64(n))
}

// DiffText formats a count difference with its sign and thousands
// separators. Non-zero differences are bold in markdown.
func DiffText(diff int, markdown bool) string {
	sign := ""
	switch {
	case diff > 0:
		sign = "+"
	case diff < 0:
		sign = "-"
	}
	s := sign + absComma(diff)
	if markdown && diff != 0 {
		return "**" + s + "**"
	}
	return s
}

// ConformanceDiffText formats a change in conformance percentage.
func ConformanceDiffText(diff float64, markdown bool) string {
	sign := ""
	if diff > 0 {
		sign = "+"
	}
	s := fmt.Sprintf("%s%.2f%%", sign, diff)
	if markdown && math.Abs(diff) > 1e-9 {
		return "**" + s + "**"
	}
	return s
}

type compareRow struct {
	name string
	base int
	next int
}

func compareRows(cmp *conformance.Comparison) []compareRow {
	return []compareRow{
		{"Total", cmp.Base.Total, cmp.New.Total},
		{"Passed", cmp.Base.Passed(), cmp.New.Passed()},
		{"Ignored", cmp.Base.Ignored, cmp.New.Ignored},
		{"Failed", cmp.Base.Failed(), cmp.New.Failed()},
		{"Panics", cmp.Base.Panics(), cmp.New.Panics()},
	}
}

// CompareMarkdown prints a comparison as a markdown table followed by a
// collapsible block per non-empty change list, ready for a PR comment.
func CompareMarkdown(w io.Writer, cmp *conformance.Comparison, labels Labels) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.Style().Format.Header = text.FormatDefault
	tbl.SetColumnConfigs(centered(4))
	tbl.AppendHeader(table.Row{"Test result", labels.Base + " count", labels.New + " count", "difference"})
	for _, row := range compareRows(cmp) {
		tbl.AppendRow(table.Row{row.name, absComma(row.base), absComma(row.next), DiffText(row.next-row.base, true)})
	}
	base, next := cmp.Base.ConformancePercent(), cmp.New.ConformancePercent()
	tbl.AppendRow(table.Row{
		"Conformance",
		fmt.Sprintf("%.2f%%", base),
		fmt.Sprintf("%.2f%%", next),
		ConformanceDiffText(next-base, true),
	})
	tbl.RenderMarkdown()

	for _, list := range changeLists(cmp) {
		if len(list.tests) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n<details><summary><b>%s (%d):</b></summary>\n\n```\n", list.title, len(list.tests))
		for _, test := range list.tests {
			fmt.Fprintln(w, test)
		}
		fmt.Fprint(w, "```\n</details>\n")
	}
}

// CompareTable prints a comparison for the terminal.
func CompareTable(w io.Writer, cmp *conformance.Comparison, labels Labels) {
	fmt.Fprintln(w, "Test262 conformance changes:")
	tbl := newTable(w)
	tbl.SetColumnConfigs(centered(4))
	tbl.AppendHeader(table.Row{"Test result", labels.Base, labels.New, "difference"})
	for _, row := range compareRows(cmp)[1:] {
		tbl.AppendRow(table.Row{row.name, row.base, row.next, DiffText(row.next-row.base, false)})
	}
	tbl.AppendFooter(table.Row{
		"Conformance",
		Conformance(cmp.Base),
		Conformance(cmp.New),
		ConformanceDiffText(cmp.New.ConformancePercent()-cmp.Base.ConformancePercent(), false),
	})
	tbl.Render()

	for _, list := range changeLists(cmp) {
		if len(list.tests) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d):\n", list.title, len(list.tests))
		for _, test := range list.tests {
			fmt.Fprintln(w, test)
		}
	}
}

type changeList struct {
	title string
	tests []string
}

func changeLists(cmp *conformance.Comparison) []changeList {
	return []changeList{
		{"Fixed tests", cmp.Changes.Fixed},
		{"Broken tests", cmp.Changes.Broken},
		{"New panics", cmp.Changes.NewPanics},
		{"Fixed panics", cmp.Changes.PanicFixes},
	}
}

func centered(columns int) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, columns)
	for i := range configs {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignCenter,
			AlignHeader: text.AlignCenter,
			AlignFooter: text.AlignCenter,
		}
	}
	return configs
}
