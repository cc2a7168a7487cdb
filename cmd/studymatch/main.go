package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/studymatch/internal/config"
	"github.com/hpungsan/studymatch/internal/db"
	"github.com/hpungsan/studymatch/internal/mcp"
)

// Version is stamped via -ldflags at build time.
var Version = "dev"

// cliCommands are the subcommands that route to the CLI app. Anything else
// with piped stdin is assumed to be an MCP client.
var cliCommands = map[string]bool{
	"import": true, "add": true, "fetch": true, "list": true,
	"remove": true, "match": true, "best": true,
	"resource-add": true, "resources": true, "report": true,
	"help": true,
}

func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return cliCommands[arg] ||
		arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	switch os.Args[1] {
	case "help", "--help", "-h", "--version", "-v":
		return true
	}
	return false
}

// isTerminal reports whether stdin is attached to a terminal rather than a
// pipe.
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func printBanner() {
	fmt.Println(`
  studymatch
  ----------
  Study partner matcher for course rosters

  Usage: studymatch <command> [options]
         studymatch --help

  MCP server mode requires piped input.`)
}

// openStore initializes the database and config under ~/.studymatch.
func openStore() (*config.Config, *sql.DB, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, ".studymatch")

	database, err := db.Init(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	db.ConfigurePool(database, cfg)

	return cfg, database, nil
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Help and version need no store.
	if isHelpOrVersion() {
		if err := newCLIApp(nil, nil).Run(os.Args); err != nil {
			fail(err)
		}
		return
	}

	cfg, database, err := openStore()
	if err != nil {
		fail(err)
	}
	defer database.Close()

	switch {
	case isCLIMode():
		if err := newCLIApp(database, cfg).Run(os.Args); err != nil {
			fail(err)
		}
	case isTerminal():
		// Unknown argument on a terminal: complain instead of silently
		// waiting for MCP traffic.
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'studymatch --help' for usage.\n")
		os.Exit(1)
	default:
		if err := mcp.Run(database, cfg, Version); err != nil {
			fail(err)
		}
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
