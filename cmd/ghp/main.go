package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/boa-dev/ghpages-tools/pkg/report"
)

var version = "dev" // Set by -ldflags during build

type subcommand struct {
	name        string
	description string
}

var subcommands = []subcommand{
	{"bench-filter", "Trim the benchmark history"},
	{"compact", "Compact the test262 results tree"},
	{"compare", "Compare two test262 result files"},
	{"config", "Manage configuration"},
	{"history", "Query the run history"},
}

func lookup(name string) (subcommand, bool) {
	for _, sc := range subcommands {
		if sc.name == name {
			return sc, true
		}
	}
	return subcommand{}, false
}

func (sc subcommand) binary() string {
	return "ghp-" + sc.name
}

// findCommand prefers a tool installed next to the running ghp over one on
// PATH, so a build directory can be used without installing.
func findCommand(self, binary string) (string, error) {
	if self != "" {
		sibling := filepath.Join(filepath.Dir(self), binary)
		if info, err := os.Stat(sibling); err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
			return sibling, nil
		}
	}
	return exec.LookPath(binary)
}

func selfPath() string {
	self, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(self); err == nil {
		return resolved
	}
	return self
}

func main() {
	args := os.Args[1:]

	if len(args) == 0 {
		printHelp(os.Stdout)
		os.Exit(0)
	}

	switch args[0] {
	case "-V", "--version":
		fmt.Printf("ghp version %s\n", version)
		os.Exit(0)
	case "-h", "--help":
		printHelp(os.Stdout)
		os.Exit(0)
	case "help":
		if len(args) == 1 {
			printHelp(os.Stdout)
			os.Exit(0)
		}
		args = []string{args[1], "--help"}
	}

	sc, ok := lookup(args[0])
	if !ok {
		report.Failure(os.Stderr, "Error: unknown command '%s'", args[0])
		printCommands(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "\nRun 'ghp --help' for usage\n")
		os.Exit(1)
	}

	os.Exit(dispatch(sc, args[1:]))
}

// dispatch runs the tool behind sc and returns the exit code to leave with.
func dispatch(sc subcommand, args []string) int {
	path, err := findCommand(selfPath(), sc.binary())
	if err != nil {
		report.Failure(os.Stderr, "Error: %s is not installed", sc.binary())
		fmt.Fprintf(os.Stderr, "Build it with: go install ./cmd/%s\n", sc.binary())
		return 1
	}

	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		report.Failure(os.Stderr, "Error running %s: %v", sc.binary(), err)
		return 1
	}
	return 0
}

// printCommands lists the subcommands, marking those whose tool cannot be
// found. An empty self skips the check.
func printCommands(w io.Writer, self string) {
	missing := color.New(color.FgYellow)
	for _, sc := range subcommands {
		fmt.Fprintf(w, "  %-14s %s", sc.name, sc.description)
		if self != "" {
			if _, err := findCommand(self, sc.binary()); err != nil {
				missing.Fprintf(w, " (not installed)")
			}
		}
		fmt.Fprintln(w)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, "ghp - gh-pages maintenance tools\n\n")
	fmt.Fprintf(w, "Version: %s\n\n", version)

	fmt.Fprintf(w, "DESCRIPTION:\n")
	fmt.Fprintf(w, "  Keeps the benchmark and conformance data published on the gh-pages branch\n")
	fmt.Fprintf(w, "  small. Each command runs the ghp-<command> tool found next to ghp or on PATH.\n\n")

	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "  ghp <command> [options]\n")
	fmt.Fprintf(w, "  ghp help <command>\n\n")

	fmt.Fprintf(w, "COMMANDS:\n")
	printCommands(w, selfPath())

	fmt.Fprintf(w, "\nEXAMPLES:\n")
	fmt.Fprintf(w, "  # Point the tools at a gh-pages checkout\n")
	fmt.Fprintf(w, "  ghp config set test262_root ~/src/boa-gh-pages/test262\n\n")

	fmt.Fprintf(w, "  # Compact the conformance results and commit them\n")
	fmt.Fprintf(w, "  ghp compact --pull --commit \"Compact test262 results\"\n\n")

	fmt.Fprintf(w, "  # Comment on a pull request with its conformance changes\n")
	fmt.Fprintf(w, "  ghp compare --markdown main/latest.json pr/latest.json\n")
}
