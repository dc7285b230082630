package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/notetxt/notetxt/internal/config"
	"github.com/notetxt/notetxt/internal/db"
	"github.com/notetxt/notetxt/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"stats": true, "show": true, "set": true, "new": true,
	"open": true, "save": true, "copy": true,
	"preview": true, "snippet": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

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
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printBanner() {
	fmt.Println(`
  notetxt
  -------
  Plain text notes with live statistics

  Usage: notetxt <command> [options]
         notetxt serve      (web editor)
         notetxt --help

  MCP server mode requires piped input.`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Help and version need no database
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fail("%v", err)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fail("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, config.DirName)

	// Config before the database so pool limits apply from the first query
	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fail("failed to load config: %v", err)
	}

	database, err := db.Init(baseDir)
	if err != nil {
		fail("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	if isCLIMode() {
		app := newCLIApp(database, cfg)
		if err := app.Run(os.Args); err != nil {
			database.Close()
			fail("%v", err)
		}
		return
	}

	// Unknown argument on a terminal is a typo, not an MCP client
	if len(os.Args) >= 2 && isTerminal() {
		database.Close()
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'notetxt --help' for usage.\n")
		os.Exit(1)
	}

	if err := mcp.Run(database, cfg, Version); err != nil {
		database.Close()
		fail("%v", err)
	}
}
