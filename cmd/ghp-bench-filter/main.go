package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/boa-dev/ghpages-tools/pkg/benchfilter"
	"github.com/boa-dev/ghpages-tools/pkg/config"
	"github.com/boa-dev/ghpages-tools/pkg/database"
	"github.com/boa-dev/ghpages-tools/pkg/report"
)

var version = "dev" // Set by -ldflags during build

func main() {
	var (
		showVersion bool
		showHelp    bool
		debug       bool
		input       string
		output      string
		maxAge      float64
		outliers    []string
		irrelevant  []string
		dbPath      string
		noHistory   bool
	)

	pflag.BoolVarP(&showVersion, "version", "V", false, "Show version and exit")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show this help message")
	pflag.BoolVarP(&debug, "debug", "d", false, "Enable debug output")
	pflag.BoolVarP(&debug, "verbose", "v", false, "Enable verbose output (alias for --debug)")
	pflag.StringVarP(&input, "input", "i", "", "Benchmark history to read (default from config)")
	pflag.StringVarP(&output, "output", "o", "", "Filtered history to write (default from config)")
	pflag.Float64Var(&maxAge, "max-age", 0, "Drop entries older than this many years (default from config)")
	pflag.StringArrayVar(&outliers, "outlier", nil, "Commit id to drop, in addition to the configured ones (repeatable)")
	pflag.StringArrayVar(&irrelevant, "irrelevant", nil, "Benchmark name to drop, in addition to the configured ones (repeatable)")
	pflag.StringVar(&dbPath, "db", "", "Path to SQLite database (default from config)")
	pflag.BoolVar(&noHistory, "no-history", false, "Do not record this run in the database")

	pflag.Parse()

	if showVersion {
		fmt.Printf("ghp-bench-filter version %s\n", version)
		os.Exit(0)
	}

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if input != "" {
		cfg.BenchInput = input
	}
	if output != "" {
		cfg.BenchOutput = output
	}
	if maxAge != 0 {
		cfg.BenchMaxAgeYears = maxAge
	}
	cfg.OutlierCommits = append(cfg.OutlierCommits, outliers...)
	cfg.IrrelevantBenches = append(cfg.IrrelevantBenches, irrelevant...)
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if noHistory {
		cfg.RecordHistory = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	var (
		db  *database.DB
		run *database.Run
	)
	if cfg.RecordHistory {
		db, err = database.Open(cfg.GetDatabasePath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		run, err = db.StartRun("bench-filter", cfg.BenchInput)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording run: %v\n", err)
			os.Exit(1)
		}
		if debug {
			fmt.Printf("Recording as run %d in %s\n", run.ID, cfg.GetDatabasePath())
		}
	}

	stats, size, err := filter(cfg, debug)
	if run != nil {
		if stats != nil {
			run.EntriesBefore = stats.EntriesBefore()
			run.EntriesAfter = stats.EntriesAfter()
		}
		if finishErr := db.FinishRun(run, err); finishErr != nil {
			report.Warning(os.Stderr, "failed to record run result: %v", finishErr)
		}
	}
	if err != nil {
		report.Failure(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}

	if debug {
		report.BenchTable(os.Stdout, stats)
	}
	report.Success(os.Stdout, "Kept %d of %d entries, wrote %s (%s)",
		stats.EntriesAfter(), stats.EntriesBefore(), cfg.BenchOutput, report.Bytes(size))
}

// filter loads the input, prints its entry count and writes the filtered
// document. Stats are returned once the input has been filtered, even when
// the write fails.
func filter(cfg *config.Config, debug bool) (*benchfilter.Stats, int64, error) {
	doc, err := benchfilter.Load(cfg.BenchInput)
	if err != nil {
		return nil, 0, err
	}

	fmt.Println(doc.Len())

	f := &benchfilter.Filter{
		Now:         time.Now(),
		MaxAgeYears: cfg.BenchMaxAgeYears,
		Outliers:    cfg.OutlierSet(),
		Irrelevant:  cfg.IrrelevantSet(),
	}
	if debug {
		fmt.Printf("Dropping entries older than %v years, %d outlier commits, %d irrelevant benchmarks\n",
			f.MaxAgeYears, len(f.Outliers), len(f.Irrelevant))
	}

	stats, err := f.Apply(doc)
	if err != nil {
		return nil, 0, err
	}

	size, err := benchfilter.Write(cfg.BenchOutput, doc)
	if err != nil {
		return stats, 0, err
	}
	return stats, size, nil
}

func printHelp() {
	fmt.Printf("ghp-bench-filter - Trim the benchmark history published on gh-pages\n\n")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Printf("DESCRIPTION:\n")
	fmt.Printf("  Reads the benchmark history written by the benchmark action, drops entries\n")
	fmt.Printf("  older than the maximum age or made at an outlier commit, removes irrelevant\n")
	fmt.Printf("  measurements from the remaining entries and writes the result with 2-space\n")
	fmt.Printf("  indentation. The number of entries before filtering is printed first.\n")
	fmt.Printf("  A data.js file (window.BENCHMARK_DATA = ...) is accepted and written back\n")
	fmt.Printf("  in the same form.\n\n")

	fmt.Printf("USAGE:\n")
	fmt.Printf("  ghp-bench-filter [OPTIONS]\n\n")

	fmt.Printf("OPTIONS:\n")
	pflag.PrintDefaults()

	fmt.Printf("\nEXAMPLES:\n")
	fmt.Printf("  # Filter dev/bench/data.json into dev/bench/data.min.json\n")
	fmt.Printf("  ghp-bench-filter\n\n")

	fmt.Printf("  # Keep two years and drop an extra outlier commit\n")
	fmt.Printf("  ghp-bench-filter --max-age 2 --outlier 8ff8a2a2d0f4c1a6b7bd1f2c0c4f5a3e9d2b1c00\n\n")

	fmt.Printf("  # Filter the deployed page data without recording history\n")
	fmt.Printf("  ghp-bench-filter -i dev/bench/data.js -o dev/bench/data.js --no-history\n")
}
