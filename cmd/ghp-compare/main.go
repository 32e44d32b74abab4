package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/boa-dev/ghpages-tools/pkg/conformance"
	"github.com/boa-dev/ghpages-tools/pkg/report"
)

var version = "dev" // Set by -ldflags during build

func main() {
	var (
		showVersion      bool
		showHelp         bool
		debug            bool
		markdown         bool
		baseLabel        string
		newLabel         string
		failOnRegression bool
	)

	pflag.BoolVarP(&showVersion, "version", "V", false, "Show version and exit")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show this help message")
	pflag.BoolVarP(&debug, "debug", "d", false, "Enable debug output")
	pflag.BoolVarP(&debug, "verbose", "v", false, "Enable verbose output (alias for --debug)")
	pflag.BoolVarP(&markdown, "markdown", "m", false, "Print a markdown table for a pull request comment")
	pflag.StringVar(&baseLabel, "base-label", report.DefaultLabels.Base, "Name of the base results in the table")
	pflag.StringVar(&newLabel, "new-label", report.DefaultLabels.New, "Name of the new results in the table")
	pflag.BoolVar(&failOnRegression, "fail-on-regression", false, "Exit with status 1 if any test broke or started panicking")

	pflag.Parse()

	if showVersion {
		fmt.Printf("ghp-compare version %s\n", version)
		os.Exit(0)
	}

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	if pflag.NArg() != 2 {
		report.Failure(os.Stderr, "Error: expected BASE and NEW result files, got %d arguments", pflag.NArg())
		fmt.Fprintf(os.Stderr, "Run 'ghp-compare --help' for usage\n")
		os.Exit(1)
	}
	basePath, newPath := pflag.Arg(0), pflag.Arg(1)

	if debug {
		fmt.Printf("Comparing %s against %s\n", newPath, basePath)
	}

	cmp, err := conformance.CompareFiles(basePath, newPath)
	if err != nil {
		report.Failure(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}

	labels := report.Labels{Base: baseLabel, New: newLabel}
	if markdown {
		report.CompareMarkdown(os.Stdout, cmp, labels)
	} else {
		report.CompareTable(os.Stdout, cmp, labels)
	}

	if failOnRegression {
		regressions := len(cmp.Changes.Broken) + len(cmp.Changes.NewPanics)
		if regressions > 0 {
			report.Failure(os.Stderr, "REGRESSION DETECTED: %d broken tests, %d new panics",
				len(cmp.Changes.Broken), len(cmp.Changes.NewPanics))
			os.Exit(1)
		}
	}
}

func printHelp() {
	fmt.Printf("ghp-compare - Compare two test262 conformance result files\n\n")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Printf("DESCRIPTION:\n")
	fmt.Printf("  Loads two latest.json files, in the runner's form or already compacted,\n")
	fmt.Printf("  and prints how the totals changed along with the tests that were fixed,\n")
	fmt.Printf("  broke, started panicking or stopped panicking. Suites and tests present\n")
	fmt.Printf("  in only one of the files are not compared.\n\n")

	fmt.Printf("USAGE:\n")
	fmt.Printf("  ghp-compare [OPTIONS] BASE NEW\n\n")

	fmt.Printf("OPTIONS:\n")
	pflag.PrintDefaults()

	fmt.Printf("\nEXAMPLES:\n")
	fmt.Printf("  # Compare a pull request run against main\n")
	fmt.Printf("  ghp-compare refs/heads/main/latest.json pr/latest.json\n\n")

	fmt.Printf("  # Produce the pull request comment\n")
	fmt.Printf("  ghp-compare --markdown refs/heads/main/latest.json pr/latest.json > comment.md\n\n")

	fmt.Printf("  # Compare two releases and fail on regressions\n")
	fmt.Printf("  ghp-compare --base-label v0.16 --new-label v0.17 --fail-on-regression \\\n")
	fmt.Printf("    refs/tags/v0.16/latest.json refs/tags/v0.17/latest.json\n")
}
