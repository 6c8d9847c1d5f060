package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/wisp/internal/config"
	"github.com/hpungsan/wisp/internal/history"
	"github.com/hpungsan/wisp/internal/llm"
	"github.com/hpungsan/wisp/internal/logging"
	"github.com/hpungsan/wisp/internal/mcp"
	"github.com/hpungsan/wisp/internal/ui"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// stateDir resolves the state directory: WISP_HOME when set, ~/.wisp
// otherwise.
func stateDir() (string, error) {
	if dir := os.Getenv("WISP_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".wisp"), nil
}

func main() {
	// A local .env may carry the API key; a missing file is fine.
	_ = godotenv.Load()

	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		ui.New(os.Stdout, os.Stderr, false).Banner()
		return
	}

	// Handle --help/--version before any state setup (none needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	baseDir, err := stateDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	db, err := history.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize history store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.Debug, filepath.Join(baseDir, "wisp.log")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := &appDeps{baseDir: baseDir, db: db, cfg: cfg}

	// MCP server mode: no args, stdin piped. The server stays useful for
	// history tools even when no API key is present.
	if len(os.Args) < 2 {
		client, cerr := llm.New(ctx, cfg)
		if cerr != nil {
			client = nil
		}
		if err := mcp.Run(db, cfg, client, Version); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app := newCLIApp(deps)
	if err := app.RunContext(ctx, os.Args); err != nil {
		var coder cli.ExitCoder
		if stderrors.As(err, &coder) {
			if msg := err.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
