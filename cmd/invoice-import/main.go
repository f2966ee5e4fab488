package main

import (
	"context"
	_ "embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"golang.org/x/sync/errgroup"

	"github.com/pluszkiewicz/przecompany/internal/extraction"
	"github.com/pluszkiewicz/przecompany/internal/invoice"
	"github.com/pluszkiewicz/przecompany/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	flags := ff.NewFlagSet("invoice-import")
	var (
		dbPath      = flags.StringLong("db", "przecompany.db", "Database file path")
		storagePath = flags.StringLong("storage", "./invoices", "Storage directory path for imported PDFs")
		reader      = flags.StringLong("reader", scanning.KindFitz, "PDF text reader: 'fitz' (MuPDF) or 'pdf' (pure Go)")
		dir         = flags.StringLong("dir", ".", "Directory searched recursively for *.pdf files")
		workers     = flags.IntLong("workers", 4, "Number of documents parsed concurrently")
		showVersion = flags.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(flags, os.Args[1:],
		ff.WithEnvVarPrefix("PRZECOMPANY"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(flags))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}
	if *workers < 1 {
		fmt.Fprintf(os.Stderr, "error: workers must be at least 1\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed, err := run(ctx, *dbPath, *storagePath, *reader, *dir, *workers)
	if err != nil {
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(2)
	}
}

func run(ctx context.Context, dbPath, storagePath, reader, dir string, workers int) (int64, error) {
	db, err := invoice.NewBoltDB(dbPath)
	if err != nil {
		return 0, fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	scanner, err := scanning.New(reader)
	if err != nil {
		return 0, fmt.Errorf("initializing PDF reader: %w", err)
	}
	defer scanner.Close()

	store, err := invoice.NewLocalStorage(storagePath)
	if err != nil {
		return 0, fmt.Errorf("initializing storage: %w", err)
	}

	service := invoice.NewService(db, scanner, extraction.New(), store)

	paths, err := findPDFs(dir)
	if err != nil {
		return 0, err
	}
	slog.Info("Importing invoices", "dir", dir, "files", len(paths), "workers", workers)

	var imported, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				slog.Error("Failed to read file", "path", path, "error", err)
				failed.Add(1)
				return nil
			}
			inv, err := service.ImportInvoice(filepath.Base(path), data, "application/pdf")
			if err != nil {
				slog.Error("Failed to import invoice", "path", path, "error", err)
				failed.Add(1)
				return nil
			}
			slog.Info("Imported invoice", "path", path, "id", inv.ID, "title", inv.Title)
			imported.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return failed.Load(), fmt.Errorf("importing: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return failed.Load(), fmt.Errorf("importing: %w", err)
	}

	slog.Info("Import finished", "imported", imported.Load(), "failed", failed.Load())
	return failed.Load(), nil
}

// findPDFs returns the PDF files below dir in lexical order
func findPDFs(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return paths, nil
}
