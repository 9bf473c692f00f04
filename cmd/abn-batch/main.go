package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/pgale/abn-tracker/internal/common"
	"github.com/pgale/abn-tracker/internal/ingest"
	"github.com/pgale/abn-tracker/internal/pdftext"
	repo "github.com/pgale/abn-tracker/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir     = flag.String("dir", "", "directory of registry extracts to ingest (default BATCH_DIR)")
		pattern = flag.String("pattern", "", "glob pattern for matching files (default BATCH_PATTERN)")
		initDB  = flag.Bool("init", false, "apply embedded SQL migrations before ingesting")
		inmem   = flag.Bool("inmem", false, "use an in-memory SQLite store (dry run)")
		txt     = flag.Bool("txt", false, "also pick up .txt files carrying pre-extracted text")
	)
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()

	if *dir == "" {
		*dir = cfg.Batch.Dir
	}
	if *pattern == "" {
		*pattern = cfg.Batch.Pattern
	}
	if *dir == "" {
		printError("Error: -dir (or BATCH_DIR) is required\n")
		os.Exit(1)
	}

	// Open the store. Per-document failures later never change the exit
	// code; an unreachable store here does.
	var db *gorm.DB
	if *inmem {
		mem, err := repo.OpenSQLite("file::memory:?cache=shared")
		if err != nil {
			logger.Error("failed to open in-memory store", "error", err)
			os.Exit(1)
		}
		if err := repo.Migrate(mem); err != nil {
			logger.Error("failed to migrate in-memory store", "error", err)
			os.Exit(1)
		}
		db = mem
	} else {
		if err := cfg.Validate(); err != nil {
			logger.Error("invalid configuration", "error", err)
			os.Exit(1)
		}
		if *initDB {
			if err := repo.InitSchema(cfg.Database.DSN, logger); err != nil {
				logger.Error("failed to initialize schema", "error", err)
				os.Exit(1)
			}
		}
		gdb, pool, err := repo.Open(ctx, repo.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			os.Exit(1)
		}
		defer repo.Close(pool, logger)
		if err := repo.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
			logger.Error("database health check failed", "error", err)
			os.Exit(1)
		}
		db = gdb
	}

	patterns := []string{*pattern}
	if *txt {
		if strings.HasSuffix(*pattern, ".pdf") {
			patterns = append(patterns, strings.TrimSuffix(*pattern, ".pdf")+".txt")
		} else {
			patterns = append(patterns, "*.txt")
		}
	}

	// Wire the pipeline
	registry := repo.NewDocumentRegistry(db, logger)
	writer := repo.NewFactWriter(db, logger)
	extractor := pdftext.NewExtractor(pdftext.Config{Pdftotext: cfg.Batch.PdftotextBin}, logger)
	orchestrator := ingest.NewOrchestrator(registry, writer, extractor, logger)

	logger.Info("starting ingestion", "dir", *dir, "patterns", patterns)
	results, stats, err := orchestrator.ProcessDirectory(ctx, *dir, patterns)
	if err != nil {
		logger.Error("failed to ingest directory", "dir", *dir, "error", err)
		os.Exit(1)
	}

	for _, r := range results {
		if r.Outcome == ingest.OutcomeFailed {
			printError("failed: %s: %v\n", r.Filename, r.Err)
		}
	}

	// Log summary
	logger.Info("batch ingestion complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"skipped", stats.Skipped,
		"failed", stats.Failed)

	fmt.Printf("Batch ingestion complete!\n")
	fmt.Printf("- Files matched: %d\n", stats.Matched)
	fmt.Printf("- Succeeded: %d\n", stats.Succeeded)
	fmt.Printf("- Skipped (already ingested): %d\n", stats.Skipped)
	fmt.Printf("- Failed: %d\n", stats.Failed)
}
