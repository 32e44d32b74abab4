package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boa-dev/ghpages-tools/pkg/conformance"
)

func sampleComparison() *conformance.Comparison {
	return &conformance.Comparison{
		Base: conformance.Counters{Total: 1000, Outdated: 500, Ignored: 100, Partial: 2},
		New:  conformance.Counters{Total: 1000, Outdated: 510, Ignored: 100, Partial: 1},
		Changes: conformance.Changes{
			Fixed:      []string{"test/a/x.js (previously Failed)"},
			PanicFixes: []string{"test/a/y.js (previously Panic)"},
		},
	}
}

func TestDiffText(t *testing.T) {
	assert.Equal(t, "0", DiffText(0, true))
	assert.Equal(t, "**+1,234**", DiffText(1234, true))
	assert.Equal(t, "**-12**", DiffText(-12, true))
	assert.Equal(t, "-12", DiffText(-12, false))
}

func TestConformanceDiffText(t *testing.T) {
	assert.Equal(t, "**+1.00%**", ConformanceDiffText(1, true))
	assert.Equal(t, "**-0.50%**", ConformanceDiffText(-0.5, true))
	assert.Equal(t, "0.00%", ConformanceDiffText(0, true))
	assert.Equal(t, "+1.00%", ConformanceDiffText(1, false))
}

func TestCompareMarkdown(t *testing.T) {
	var buf bytes.Buffer
	CompareMarkdown(&buf, sampleComparison(), DefaultLabels)
	out := buf.String()

	assert.Contains(t, out, "| Test result | main count | PR count | difference |")
	assert.Contains(t, out, "| Total | 1,000 | 1,000 | 0 |")
	assert.Contains(t, out, "| Passed | 500 | 510 | **+10** |")
	assert.Contains(t, out, "| Failed | 400 | 390 | **-10** |")
	assert.Contains(t, out, "| Panics | 2 | 1 | **-1** |")
	assert.Contains(t, out, "| Conformance | 50.00% | 51.00% | **+1.00%** |")
	assert.Contains(t, out, "<details><summary><b>Fixed tests (1):</b></summary>\n\n```\ntest/a/x.js (previously Failed)\n```\n</details>")
	assert.Contains(t, out, "<b>Fixed panics (1):</b>")
	assert.NotContains(t, out, "Broken tests")
	assert.NotContains(t, out, "New panics")
}

func TestCompareTable(t *testing.T) {
	var buf bytes.Buffer
	CompareTable(&buf, sampleComparison(), Labels{Base: "v0.17", New: "HEAD"})
	out := buf.String()

	assert.Contains(t, out, "Test262 conformance changes:")
	assert.Contains(t, out, "V0.17")
	assert.Contains(t, out, "+10")
	assert.Contains(t, out, "+1.00%")
	assert.Contains(t, out, "\nFixed tests (1):\ntest/a/x.js (previously Failed)\n")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "<details>")
}
