package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tomfrance/sacha/internal/config"
	"github.com/tomfrance/sacha/internal/database"
	"github.com/tomfrance/sacha/internal/database/levels"
	"github.com/tomfrance/sacha/internal/exporters"
)

// ExportXLSXCommand writes the level inventory workbook.
type ExportXLSXCommand struct {
	OutputPath   string
	DatabasePath string

	out io.Writer
}

func NewExportXLSXCommand() *ExportXLSXCommand {
	return &ExportXLSXCommand{out: os.Stdout}
}

func (cmd *ExportXLSXCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-xlsx", flag.ContinueOnError)

	fs.StringVar(&cmd.OutputPath, "out", "inventory.xlsx", "Path of the workbook to write")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-xlsx [-out inventory.xlsx] [-db path]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Write every level and word into a spreadsheet.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.OutputPath == "" {
		return fmt.Errorf("-out must not be empty")
	}
	return nil
}

func (cmd *ExportXLSXCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	if _, err := os.Stat(absDBPath); err != nil {
		return fmt.Errorf("database not found: %s", cmd.DatabasePath)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	exporter := exporters.NewInventoryExporter(levels.NewRepository(db.DB))
	result, err := exporter.WriteFile(context.Background(), cmd.OutputPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "Exported %d levels and %d words to %s\n", result.Levels, result.Words, cmd.OutputPath)
	return nil
}
