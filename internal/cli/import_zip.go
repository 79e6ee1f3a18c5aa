package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tomfrance/sacha/internal/archive"
	"github.com/tomfrance/sacha/internal/audit"
	"github.com/tomfrance/sacha/internal/config"
	"github.com/tomfrance/sacha/internal/database"
	auditstore "github.com/tomfrance/sacha/internal/database/audit"
	"github.com/tomfrance/sacha/internal/database/imports"
	"github.com/tomfrance/sacha/internal/database/levels"
	"github.com/tomfrance/sacha/internal/entities"
	"github.com/tomfrance/sacha/internal/importers"
	"github.com/tomfrance/sacha/internal/media"
	"github.com/tomfrance/sacha/internal/services"
)

// ImportZipCommand imports a ZIP bundle of levels into the local database.
type ImportZipCommand struct {
	ArchivePath  string
	DatabasePath string
	BatchSize    int
	DryRun       bool
	Verbose      bool
	SniffContent bool

	out io.Writer
}

func NewImportZipCommand() *ImportZipCommand {
	return &ImportZipCommand{out: os.Stdout}
}

func (cmd *ImportZipCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-zip", flag.ContinueOnError)

	fs.StringVar(&cmd.ArchivePath, "file", "", "Path to the ZIP bundle of levels (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.IntVar(&cmd.BatchSize, "batch", config.DefaultImportBatchSize, "Number of words saved per transaction")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "List the levels and words that would be imported without saving")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every word of every level")
	fs.BoolVar(&cmd.SniffContent, "sniff", true, "Detect media types from file content")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-zip -file <levels.zip> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a bundle of levels. Every top-level directory with a\n")
		fmt.Fprintf(os.Stderr, "background.(jpg|png|webp) becomes a level; every image + audio pair\n")
		fmt.Fprintf(os.Stderr, "sharing a base name becomes a word.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-zip -file levels.zip\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-zip -file levels.zip -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ArchivePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	if cmd.BatchSize < 1 {
		return fmt.Errorf("-batch must be at least 1")
	}

	return nil
}

func (cmd *ImportZipCommand) Run() error {
	fmt.Fprintln(cmd.out, "Level Import")
	fmt.Fprintln(cmd.out, "============")

	absArchive, err := filepath.Abs(cmd.ArchivePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for archive: %w", err)
	}
	if _, err := os.Stat(absArchive); err != nil {
		return fmt.Errorf("archive not found: %s", cmd.ArchivePath)
	}
	fmt.Fprintf(cmd.out, "File: %s\n", absArchive)

	if cmd.DryRun {
		fmt.Fprintln(cmd.out, "DRY RUN MODE - No changes will be made")
		return cmd.preview(absArchive)
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	fmt.Fprintf(cmd.out, "Database: %s\n\n", absDBPath)

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	store := levels.NewRepository(db.DB)
	store.SetBatchSize(cmd.BatchSize)
	importer := importers.NewImporter(store, importers.Options{
		BatchSize: cmd.BatchSize,
		Detector:  media.NewDetector(cmd.SniffContent),
	})
	auditService := audit.NewService(auditstore.NewRepository(db.DB))
	defer auditService.Wait()
	service := services.NewImportService(imports.NewRepository(db.DB), importer, auditService)

	// Ctrl-C stops the import between batches and keeps what was saved.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := service.Prepare(ctx, entities.ImportSourceCLI, filepath.Base(absArchive), absArchive)
	if err != nil {
		return err
	}

	_, result, err := service.Run(ctx, session.ID, cmd.printEvent)
	if err != nil {
		return fmt.Errorf("import session %d: %w", session.ID, err)
	}

	fmt.Fprintln(cmd.out, "\n=== Import Summary ===")
	fmt.Fprintf(cmd.out, "Levels created: %d/%d\n", result.CategoriesCreated, result.LevelsTotal)
	fmt.Fprintf(cmd.out, "Words created: %d\n", result.WordsCreated)
	if len(result.Warnings) > 0 {
		fmt.Fprintf(cmd.out, "\n%d warnings:\n", len(result.Warnings))
		for _, w := range result.Warnings {
			if w.Word != "" {
				fmt.Fprintf(cmd.out, "  [WARN] %s/%s: %s\n", w.Directory, w.Word, w.Reason)
			} else {
				fmt.Fprintf(cmd.out, "  [WARN] %s: %s\n", w.Directory, w.Reason)
			}
		}
	}

	fmt.Fprintln(cmd.out, "\nImport complete!")
	return nil
}

func (cmd *ImportZipCommand) printEvent(ev importers.Event) {
	switch ev.Type {
	case importers.EventSummary:
		return
	case importers.EventLevelStarted:
		if !cmd.Verbose {
			return
		}
	}
	fmt.Fprintf(cmd.out, "  %s\n", ev)
}

func (cmd *ImportZipCommand) preview(path string) error {
	bundle, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer bundle.Close()

	plan := archive.Scan(bundle.Names())
	if len(plan) == 0 {
		fmt.Fprintln(cmd.out, "\nNo level directories found in archive")
		return nil
	}

	var importable, words int
	fmt.Fprintln(cmd.out, "\n=== Levels Found ===")
	for i, level := range plan {
		if !level.HasBackground() {
			fmt.Fprintf(cmd.out, "%d. %s: skipped, no background picture\n", i+1, level.Directory)
			continue
		}
		importable++
		words += len(level.Words)
		fmt.Fprintf(cmd.out, "%d. %s: %d words (background %s)\n", i+1, level.Directory, len(level.Words), level.Background)

		if cmd.Verbose {
			for _, w := range level.Words {
				fmt.Fprintf(cmd.out, "     - %s\n", w.Name)
			}
		}
		for _, d := range level.Dropped {
			fmt.Fprintf(cmd.out, "     [WARN] %s: %s\n", d.Name, d.Reason)
		}
	}

	fmt.Fprintf(cmd.out, "\n%d of %d levels would be imported with %d words\n", importable, len(plan), words)
	fmt.Fprintln(cmd.out, "Dry run complete. Use without -dry-run to import.")
	return nil
}
