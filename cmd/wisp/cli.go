package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/wisp/internal/config"
	"github.com/hpungsan/wisp/internal/errors"
	"github.com/hpungsan/wisp/internal/history"
	"github.com/hpungsan/wisp/internal/llm"
	"github.com/hpungsan/wisp/internal/mcp"
	"github.com/hpungsan/wisp/internal/policy"
	"github.com/hpungsan/wisp/internal/session"
	"github.com/hpungsan/wisp/internal/ui"
)

// appDeps carries the state the CLI actions need. nil is acceptable for
// help/version rendering, where no action runs.
type appDeps struct {
	baseDir string
	db      *sql.DB
	cfg     *config.Config
}

// newCLIApp creates the CLI application.
func newCLIApp(deps *appDeps) *cli.App {
	app := &cli.App{
		Name:      "wisp",
		Usage:     "Natural language to shell commands",
		UsageText: "wisp [options] \"<prompt>\"\n   wisp --shell | --chat\n   wisp history <subcommand>",
		Version:   Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "shell", Usage: "Continuous shell mode: repeated prompt/confirm/execute cycles"},
			&cli.BoolFlag{Name: "chat", Usage: "Chat mode: free-form conversation, commands still confirmed"},
			&cli.BoolFlag{Name: "no-execute", Usage: "Preview only: show the generated command, never execute"},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Override the configured model for this invocation"},
			&cli.BoolFlag{Name: "no-color", Usage: "Disable colored output"},
		},
		Action: rootAction(deps),
		Commands: []*cli.Command{
			historyCmd(deps),
			mcpCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// rootAction dispatches the three interaction modes.
func rootAction(deps *appDeps) cli.ActionFunc {
	return func(c *cli.Context) error {
		shellMode := c.Bool("shell")
		chatMode := c.Bool("chat")
		if shellMode && chatMode {
			return cli.Exit("Error: --shell and --chat are mutually exclusive.", 1)
		}

		prompt := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
		if !shellMode && !chatMode && prompt == "" {
			_ = cli.ShowAppHelp(c)
			return cli.Exit("Error: No prompt provided.", 1)
		}

		cfg := deps.cfg
		if model := c.String("model"); model != "" {
			override := *cfg
			override.Model = model
			cfg = &override
		}

		u := ui.New(os.Stdout, os.Stderr, c.Bool("no-color"))

		// Missing API key is fatal here, before any session loop begins.
		client, err := llm.New(c.Context, cfg)
		if err != nil {
			return outputError(err)
		}

		lists, err := policy.Load(deps.baseDir)
		if err != nil {
			return outputError(err)
		}

		mode := session.ModeSingle
		switch {
		case shellMode:
			mode = session.ModeShell
		case chatMode:
			mode = session.ModeChat
		}

		coord := session.New(client, cfg, u, mode)
		coord.Policy = lists
		coord.DB = deps.db
		coord.NoExecute = c.Bool("no-execute")

		switch mode {
		case session.ModeShell:
			coord.Shell(c.Context)
			return nil
		case session.ModeChat:
			coord.Chat(c.Context)
			return nil
		default:
			if code := coord.SingleShot(c.Context, prompt); code != 0 {
				return cli.Exit("", code)
			}
			return nil
		}
	}
}

// historyCmd groups the audit-log subcommands.
func historyCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect the round audit log",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent rounds, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: history.DefaultListLimit, Usage: "Maximum records to return"},
					&cli.BoolFlag{Name: "failed", Usage: "Only rounds whose command failed"},
				},
				Action: func(c *cli.Context) error {
					records, err := history.List(deps.db, c.Int("limit"), c.Bool("failed"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(records)
				},
			},
			{
				Name:      "search",
				Usage:     "Search rounds by prompt or command text",
				ArgsUsage: "<term>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: history.DefaultListLimit, Usage: "Maximum records to return"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidInput("search term is required"))
					}
					records, err := history.Search(deps.db, strings.Join(c.Args().Slice(), " "), c.Int("limit"))
					if err != nil {
						return outputError(err)
					}
					return outputJSON(records)
				},
			},
			{
				Name:  "purge",
				Usage: "Permanently delete old rounds",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "older-than", Usage: "Only purge rounds older than N days (e.g., 30d); default purges everything"},
				},
				Action: func(c *cli.Context) error {
					days := 0
					if olderThan := c.String("older-than"); olderThan != "" {
						parsed, err := parseDuration(olderThan)
						if err != nil {
							return outputError(errors.NewInvalidInput(err.Error()))
						}
						days = parsed
					}
					n, err := history.Purge(deps.db, days)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]int64{"purged": n})
				},
			},
		},
	}
}

// mcpCmd serves MCP over stdio explicitly (the no-arg piped-stdin dispatch
// does the same).
func mcpCmd(deps *appDeps) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve wisp's tools over MCP on stdio",
		Action: func(c *cli.Context) error {
			client, err := llm.New(c.Context, deps.cfg)
			if err != nil {
				// History tools work without a key; translate reports it.
				client = nil
			}
			return mcp.Run(deps.db, deps.cfg, client, Version)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if wispErr, ok := err.(*errors.WispError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", wispErr.Code, wispErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseDuration parses "30d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 30d")
}
