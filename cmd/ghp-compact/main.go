package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/boa-dev/ghpages-tools/pkg/compact"
	"github.com/boa-dev/ghpages-tools/pkg/config"
	"github.com/boa-dev/ghpages-tools/pkg/database"
	"github.com/boa-dev/ghpages-tools/pkg/git"
	"github.com/boa-dev/ghpages-tools/pkg/report"
)

var version = "dev" // Set by -ldflags during build

type options struct {
	debug   bool
	pull    bool
	commit  string
	summary bool
}

func main() {
	var (
		showVersion bool
		showHelp    bool
		opts        options
		root        string
		dbPath      string
		noHistory   bool
	)

	pflag.BoolVarP(&showVersion, "version", "V", false, "Show version and exit")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show this help message")
	pflag.BoolVarP(&opts.debug, "debug", "d", false, "Enable debug output")
	pflag.BoolVarP(&opts.debug, "verbose", "v", false, "Enable verbose output (alias for --debug)")
	pflag.StringVarP(&root, "root", "r", "", "Results directory holding refs/ (default from config)")
	pflag.BoolVar(&opts.pull, "pull", false, "Fast-forward the gh-pages checkout before compacting")
	pflag.StringVarP(&opts.commit, "commit", "m", "", "Commit the rewritten files with this message")
	pflag.BoolVarP(&opts.summary, "summary", "s", false, "Print a table of the compacted refs")
	pflag.StringVar(&dbPath, "db", "", "Path to SQLite database (default from config)")
	pflag.BoolVar(&noHistory, "no-history", false, "Do not record this run in the database")

	pflag.Parse()

	if showVersion {
		fmt.Printf("ghp-compact version %s\n", version)
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

	if root != "" {
		cfg.Test262Root = root
	}
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

	root = cfg.GetTest262Root()
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: results directory %s does not exist\n", root)
		os.Exit(1)
	}

	gitCtx := &git.Context{Debug: opts.debug, RepoDir: root}

	var run *database.Run
	if cfg.RecordHistory {
		db, err := database.Open(cfg.GetDatabasePath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		run, err = db.StartRun("compact", root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error recording run: %v\n", err)
			os.Exit(1)
		}
		gitCtx.DB = db
		gitCtx.RunID = run.ID
		if opts.debug {
			fmt.Printf("Recording as run %d in %s\n", run.ID, cfg.GetDatabasePath())
		}
	}

	rep, err := compactTree(gitCtx, root, opts)
	if run != nil {
		recordRun(gitCtx.DB, run, rep, err)
	}
	if err != nil {
		report.Failure(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}

	if opts.summary {
		report.CompactTable(os.Stdout, rep)
	}
	report.Success(os.Stdout, "Compacted %d refs (%s → %s)",
		len(rep.Refs), report.Bytes(rep.BytesBefore()), report.Bytes(rep.BytesAfter()))
}

// compactTree pulls, compacts and commits as requested. The report covers the
// refs rewritten before any failure.
func compactTree(gitCtx *git.Context, root string, opts options) (*compact.Report, error) {
	if opts.pull {
		if err := gitCtx.Pull(); err != nil {
			return nil, err
		}
		report.Success(os.Stdout, "Pulled %s", root)
	}

	c := compact.New(compact.Options{Root: root, Out: os.Stdout, Debug: opts.debug})
	rep, err := c.Run()
	if err != nil {
		return rep, err
	}

	if opts.commit != "" {
		committed, err := gitCtx.Commit(opts.commit)
		if err != nil {
			return rep, err
		}
		if !committed {
			report.Warning(os.Stdout, "Nothing to commit")
			return rep, nil
		}
		head, err := gitCtx.HeadCommit()
		if err != nil {
			return rep, err
		}
		report.Success(os.Stdout, "Committed %s", head)
	}
	return rep, nil
}

func recordRun(db *database.DB, run *database.Run, rep *compact.Report, runErr error) {
	if rep != nil {
		for _, ref := range rep.Refs {
			rs := &database.RefSummary{
				RunID:         run.ID,
				Ref:           ref.Ref,
				CommitID:      ref.Commit,
				Test262Commit: ref.Test262Commit,
				Total:         ref.Aggregate.Total,
				Outdated:      ref.Aggregate.Outdated,
				Ignored:       ref.Aggregate.Ignored,
				Partial:       ref.Aggregate.Partial,
				BytesBefore:   ref.LatestBefore + ref.ResultsBefore,
				BytesAfter:    ref.LatestAfter + ref.ResultsAfter,
			}
			if err := db.CreateRefSummary(rs); err != nil {
				report.Warning(os.Stderr, "failed to record %s: %v", ref.Ref, err)
			}
		}
		run.EntriesBefore = len(rep.Refs)
		run.EntriesAfter = len(rep.Refs)
	}

	if err := db.FinishRun(run, runErr); err != nil {
		report.Warning(os.Stderr, "failed to record run result: %v", err)
	}
}

func printHelp() {
	fmt.Printf("ghp-compact - Compact the test262 results published on gh-pages\n\n")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Printf("DESCRIPTION:\n")
	fmt.Printf("  For every tag under refs/tags, then for refs/heads/main, merges duplicate\n")
	fmt.Printf("  test records in latest.json, recomputes the suite and version totals and\n")
	fmt.Printf("  writes the file back compactly. results.json is reduced to one summary per\n")
	fmt.Printf("  tag, and main keeps its history with the last record refreshed.\n")
	fmt.Printf("  features.json is removed. The name of each tag is printed as it is processed.\n\n")
	fmt.Printf("  Every file is replaced atomically, but a failure part-way leaves the refs\n")
	fmt.Printf("  processed so far rewritten.\n\n")

	fmt.Printf("USAGE:\n")
	fmt.Printf("  ghp-compact [OPTIONS]\n\n")

	fmt.Printf("OPTIONS:\n")
	pflag.PrintDefaults()

	fmt.Printf("\nEXAMPLES:\n")
	fmt.Printf("  # Compact ./test262 in a gh-pages checkout\n")
	fmt.Printf("  ghp-compact\n\n")

	fmt.Printf("  # Update the checkout, compact, commit and show the totals\n")
	fmt.Printf("  ghp-compact -r ~/src/boa-gh-pages/test262 --pull -m \"Compact test262 results\" -s\n\n")

	fmt.Printf("  # Inspect the recorded runs afterwards\n")
	fmt.Printf("  ghp-history runs --tool compact\n")
}
