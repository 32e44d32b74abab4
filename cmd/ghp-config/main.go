package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/boa-dev/ghpages-tools/pkg/config"
	"github.com/boa-dev/ghpages-tools/pkg/report"
)

var version = "dev" // Set by -ldflags during build

// envOverrides maps environment variables to the key they override
var envOverrides = []struct {
	name string
	key  string
}{
	{"GHP_DB", "database"},
	{"GHP_RECORD_HISTORY", "record_history"},
	{"GHP_BENCH_INPUT", "bench_input"},
	{"GHP_BENCH_OUTPUT", "bench_output"},
	{"GHP_TEST262_ROOT", "test262_root"},
}

func main() {
	var (
		showVersion bool
		showHelp    bool
		configPath  string
	)

	pflag.BoolVarP(&showVersion, "version", "V", false, "Show version and exit")
	pflag.BoolVarP(&showHelp, "help", "h", false, "Show this help message")
	pflag.StringVar(&configPath, "config", "", "Path to config file (default: ~/.ghp-tools.yaml)")

	pflag.Parse()

	if showVersion {
		fmt.Printf("ghp-config version %s\n", version)
		os.Exit(0)
	}

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	args := pflag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: subcommand required\n\n")
		printUsage()
		os.Exit(1)
	}

	if configPath != "" {
		os.Setenv("GHP_CONFIG", configPath)
	}

	switch args[0] {
	case "init":
		handleInit(args[1:])
	case "set":
		handleSet(args[1:])
	case "get":
		handleGet(args[1:])
	case "show":
		handleShow()
	case "path":
		fmt.Println(config.GetConfigPath())
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown subcommand '%s'\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func handleInit(args []string) {
	var force bool
	flags := pflag.NewFlagSet("init", pflag.ExitOnError)
	flags.BoolVarP(&force, "force", "f", false, "Overwrite existing config file")
	flags.Parse(args)

	configPath := config.GetConfigPath()

	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Fprintf(os.Stderr, "Error: config file already exists at %s\n", configPath)
		fmt.Fprintf(os.Stderr, "Use --force to overwrite\n")
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save config: %v\n", err)
		os.Exit(1)
	}

	report.Success(os.Stdout, "Created config file at %s", configPath)
	fmt.Println("\nDefault configuration:")
	printValues(cfg)
	fmt.Println("\nEdit the file or use 'ghp-config set' to customize.")
}

func handleSet(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Error: 'set' requires KEY and VALUE arguments\n\n")
		fmt.Fprintf(os.Stderr, "Usage: ghp-config set KEY VALUE\n")
		printKeys(os.Stderr)
		os.Exit(1)
	}

	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Try running 'ghp-config init' first\n")
		os.Exit(1)
	}

	if err := cfg.Set(key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	configPath := config.GetConfigPath()
	if err := cfg.Save(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save config: %v\n", err)
		os.Exit(1)
	}

	report.Success(os.Stdout, "Set %s = %v", key, value)
}

func handleGet(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: 'get' requires KEY argument\n\n")
		fmt.Fprintf(os.Stderr, "Usage: ghp-config get KEY\n")
		printKeys(os.Stderr)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	value, err := cfg.Get(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

func handleShow() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Configuration from: %s\n\n", config.GetConfigPath())
	printValues(cfg)

	fmt.Println("\nEnvironment variable overrides:")
	for _, env := range envOverrides {
		if value := os.Getenv(env.name); value != "" {
			fmt.Printf("  %s=%s (overrides %s)\n", env.name, value, env.key)
		}
	}
}

func printValues(cfg *config.Config) {
	for _, key := range config.Keys {
		value, _ := cfg.Get(key)
		fmt.Printf("  %-20s %s\n", key+":", value)
	}
}

func printKeys(w *os.File) {
	fmt.Fprintf(w, "\nValid keys:\n")
	for _, key := range config.Keys {
		fmt.Fprintf(w, "  %s\n", key)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: ghp-config [OPTIONS] SUBCOMMAND\n\n")
	fmt.Fprintf(os.Stderr, "Manage gh-pages tools configuration\n\n")
	fmt.Fprintf(os.Stderr, "Subcommands:\n")
	fmt.Fprintf(os.Stderr, "  init          Create default config file\n")
	fmt.Fprintf(os.Stderr, "  set KEY VAL   Set configuration value\n")
	fmt.Fprintf(os.Stderr, "  get KEY       Get configuration value\n")
	fmt.Fprintf(os.Stderr, "  show          Show all configuration\n")
	fmt.Fprintf(os.Stderr, "  path          Show config file path\n\n")
	pflag.PrintDefaults()
}

func printHelp() {
	fmt.Printf("ghp-config - Manage gh-pages tools configuration\n\n")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Printf("DESCRIPTION:\n")
	fmt.Printf("  Manages configuration shared by the ghp-* commands. Configuration is stored in\n")
	fmt.Printf("  ~/.ghp-tools.yaml by default and can be overridden with environment variables.\n\n")

	fmt.Printf("USAGE:\n")
	fmt.Printf("  ghp-config [OPTIONS] SUBCOMMAND\n\n")

	fmt.Printf("SUBCOMMANDS:\n")
	fmt.Printf("  init          Create default configuration file\n")
	fmt.Printf("  set KEY VAL   Set a configuration value\n")
	fmt.Printf("  get KEY       Get a configuration value\n")
	fmt.Printf("  show          Display all configuration values\n")
	fmt.Printf("  path          Show the config file path\n\n")

	fmt.Printf("CONFIGURATION KEYS:\n")
	fmt.Printf("  database             Path to the SQLite run history\n")
	fmt.Printf("  record_history       Record runs in the database (true/false)\n")
	fmt.Printf("  bench_input          Benchmark history read by ghp-bench-filter\n")
	fmt.Printf("  bench_output         Filtered benchmark history written by ghp-bench-filter\n")
	fmt.Printf("  bench_max_age_years  Entries older than this are dropped (default: 1)\n")
	fmt.Printf("  outlier_commits      Commit ids whose entries are always dropped (comma separated)\n")
	fmt.Printf("  irrelevant_benches   Measurement names that are dropped (comma separated)\n")
	fmt.Printf("  test262_root         Directory holding refs/ for ghp-compact\n\n")

	fmt.Printf("ENVIRONMENT VARIABLES:\n")
	fmt.Printf("  GHP_CONFIG           Path to config file\n")
	for _, env := range envOverrides {
		fmt.Printf("  %-20s Override %s\n", env.name, env.key)
	}

	fmt.Printf("\nOPTIONS:\n")
	pflag.PrintDefaults()

	fmt.Printf("\nEXAMPLES:\n")
	fmt.Printf("  # Create default config\n")
	fmt.Printf("  ghp-config init\n\n")

	fmt.Printf("  # Drop a noisy commit from the benchmark history\n")
	fmt.Printf("  ghp-config set outlier_commits 8ff8a2a2d0f4c1a6b7bd1f2c0c4f5a3e9d2b1c00\n\n")

	fmt.Printf("  # Point ghp-compact at the gh-pages checkout\n")
	fmt.Printf("  ghp-config set test262_root ~/src/boa-gh-pages/test262\n\n")

	fmt.Printf("  # View all configuration\n")
	fmt.Printf("  ghp-config show\n\n")

	fmt.Printf("  # Find config file location\n")
	fmt.Printf("  ghp-config path\n\n")

	fmt.Printf("CONFIG FILE FORMAT:\n")
	fmt.Printf("  # %s\n", config.GetConfigPath())
	data, err := yaml.Marshal(config.DefaultConfig())
	if err == nil {
		for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
			fmt.Printf("  %s\n", line)
		}
	}
	fmt.Println()
}
