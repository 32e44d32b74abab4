package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

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
		dbPath      string
	)

	pflag.BoolVarP(&showVersion, "version", "V", false, "Show version and exit")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show this help message")
	pflag.BoolVarP(&debug, "debug", "d", false, "Enable debug output")
	pflag.BoolVarP(&debug, "verbose", "v", false, "Enable verbose output (alias for --debug)")
	pflag.StringVar(&dbPath, "db", "", "Path to SQLite database (default from config)")

	// Stop parsing at first non-flag argument (the subcommand)
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if showVersion {
		fmt.Printf("ghp-history version %s\n", version)
		os.Exit(0)
	}

	args := pflag.Args()
	if len(args) == 0 || showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if dbPath == "" {
		dbPath = cfg.GetDatabasePath()
	}

	if debug {
		fmt.Printf("Using database: %s\n", dbPath)
	}

	if _, err := os.Stat(dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: no run history at %s\n", dbPath)
		os.Exit(1)
	}

	db, err := database.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	switch args[0] {
	case "runs":
		err = handleRuns(db, args[1:])
	case "show":
		err = handleShow(db, args[1:])
	case "refs":
		err = handleRefs(db, args[1:])
	case "operations":
		err = handleOperations(db, args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown subcommand '%s'\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		report.Failure(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}
}

func handleRuns(db *database.DB, args []string) error {
	fs := pflag.NewFlagSet("runs", pflag.ExitOnError)
	tool := fs.String("tool", "", "Only show runs of this tool (bench-filter, compact)")
	limit := fs.IntP("limit", "n", 20, "Maximum number of runs to show (0 for all)")
	fs.Parse(args)

	runs, err := db.ListRuns(*tool, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	report.RunsTable(os.Stdout, runs)
	return nil
}

func handleShow(db *database.DB, args []string) error {
	runID, err := parseRunID("show", args)
	if err != nil {
		return err
	}

	run, err := db.GetRun(runID)
	if err != nil {
		return err
	}
	report.RunsTable(os.Stdout, []*database.Run{run})

	summaries, err := db.ListRefSummaries(runID)
	if err != nil {
		return err
	}
	if len(summaries) > 0 {
		fmt.Println()
		report.RefsTable(os.Stdout, summaries)
	}

	ops, err := db.ListOperations(runID)
	if err != nil {
		return err
	}
	if len(ops) > 0 {
		fmt.Println()
		report.OperationsTable(os.Stdout, ops)
	}
	return nil
}

func handleRefs(db *database.DB, args []string) error {
	fs := pflag.NewFlagSet("refs", pflag.ExitOnError)
	runID := fs.Int64("run", 0, "Show the refs compacted by this run")
	ref := fs.String("ref", "", "Show every recorded summary of this ref (e.g. refs/heads/main)")
	fs.Parse(args)

	var (
		summaries []*database.RefSummary
		err       error
	)
	switch {
	case *ref != "":
		summaries, err = db.RefHistory(*ref)
	case *runID != 0:
		summaries, err = db.ListRefSummaries(*runID)
	default:
		runs, listErr := db.ListRuns("compact", 1)
		if listErr != nil {
			return listErr
		}
		if len(runs) == 0 {
			fmt.Println("No compact runs recorded")
			return nil
		}
		summaries, err = db.ListRefSummaries(runs[0].ID)
	}
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No ref summaries recorded")
		return nil
	}
	report.RefsTable(os.Stdout, summaries)
	return nil
}

func handleOperations(db *database.DB, args []string) error {
	runID, err := parseRunID("operations", args)
	if err != nil {
		return err
	}

	ops, err := db.ListOperations(runID)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		fmt.Printf("No operations recorded for run %d\n", runID)
		return nil
	}
	report.OperationsTable(os.Stdout, ops)
	return nil
}

func parseRunID(subcommand string, args []string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("'%s' requires a RUN_ID argument", subcommand)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run id '%s': %w", args[0], err)
	}
	return id, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: ghp-history [OPTIONS] SUBCOMMAND [ARGS]\n\n")
	fmt.Fprintf(os.Stderr, "Subcommands:\n")
	fmt.Fprintf(os.Stderr, "  runs                List recorded runs\n")
	fmt.Fprintf(os.Stderr, "  show RUN_ID         Show a run with its refs and operations\n")
	fmt.Fprintf(os.Stderr, "  refs                Show compacted ref summaries\n")
	fmt.Fprintf(os.Stderr, "  operations RUN_ID   Show git operations of a run\n\n")
	pflag.PrintDefaults()
}

func printHelp() {
	fmt.Printf("ghp-history - Query the run history of the gh-pages tools\n\n")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Printf("DESCRIPTION:\n")
	fmt.Printf("  ghp-bench-filter and ghp-compact record every run in a SQLite database.\n")
	fmt.Printf("  This command reports on those runs, the totals of every compacted ref,\n")
	fmt.Printf("  and the git commands issued against the gh-pages checkout.\n\n")

	fmt.Printf("USAGE:\n")
	fmt.Printf("  ghp-history [OPTIONS] SUBCOMMAND [ARGS]\n\n")

	fmt.Printf("SUBCOMMANDS:\n")
	fmt.Printf("  runs [--tool NAME] [-n N]      List recorded runs, newest first\n")
	fmt.Printf("  show RUN_ID                    Show a run with its refs and operations\n")
	fmt.Printf("  refs [--run ID | --ref REF]    Show ref summaries (default: latest compact run)\n")
	fmt.Printf("  operations RUN_ID              Show git operations of a run\n\n")

	fmt.Printf("OPTIONS:\n")
	pflag.PrintDefaults()

	fmt.Printf("\nEXAMPLES:\n")
	fmt.Printf("  # Last five compactions\n")
	fmt.Printf("  ghp-history runs --tool compact -n 5\n\n")

	fmt.Printf("  # How main's totals evolved across runs\n")
	fmt.Printf("  ghp-history refs --ref refs/heads/main\n\n")

	fmt.Printf("  # Timing of the git pull and commit of run 12\n")
	fmt.Printf("  ghp-history operations 12\n")
}
