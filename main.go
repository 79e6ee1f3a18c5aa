package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tomfrance/sacha/internal/cli"
	"github.com/tomfrance/sacha/internal/config"
	"github.com/tomfrance/sacha/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every CLI subcommand.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %v\n", err)
		os.Exit(1)
	}

	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "import-zip":
		cmd = cli.NewImportZipCommand()
	case "export-xlsx":
		cmd = cli.NewExportXLSXCommand()
	case "hash-pin":
		cmd = cli.NewHashPINCommand()
	case "version":
		fmt.Printf("sacha %s (%s)\n", Version, Commit)
		return
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve         Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  import-zip    Import a ZIP bundle of levels into the database\n")
	fmt.Fprintf(os.Stderr, "  export-xlsx   Write every level and word into a spreadsheet\n")
	fmt.Fprintf(os.Stderr, "  hash-pin      Hash a caregiver PIN for AUTH_PIN_HASH\n")
	fmt.Fprintf(os.Stderr, "  version       Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
