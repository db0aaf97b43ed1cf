// internal/ingest/ingest.go
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFiles bounds the parallel file fan-out so a large import
// does not exhaust the connection pool.
const maxConcurrentFiles = 4

// Importer loads CSV drops from upstream systems into the forecast feed
// tables. Files are routed by the directory they sit in:
//
//	sales/       daily sales observations
//	inventory/   stock snapshots
//	products/    catalog rows
type Importer struct {
	db *sqlx.DB
}

func NewImporter(db *sqlx.DB) *Importer {
	return &Importer{db: db}
}

// ImportDir walks a drop directory and imports every CSV in it, fanning out
// across files. One bad file fails the whole import.
func (im *Importer) ImportDir(ctx context.Context, dir string) (int, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	rows := make([]int, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			n, err := im.ImportFile(gctx, file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			rows[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, n := range rows {
		total += n
	}
	log.Info().Int("files", len(files)).Int("rows", total).Str("dir", dir).Msg("import completed")
	return total, nil
}

// ImportFile imports a single CSV, routed by its parent directory name.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	switch filepath.Base(filepath.Dir(path)) {
	case "sales":
		return im.importCSV(ctx, path, salesSpec)
	case "inventory":
		return im.importCSV(ctx, path, inventorySpec)
	case "products":
		return im.importCSV(ctx, path, productSpec)
	default:
		return 0, fmt.Errorf("unknown feed type for directory %q", filepath.Base(filepath.Dir(path)))
	}
}

// fileSpec describes one feed: the columns it requires and the upsert that
// loads a row.
type fileSpec struct {
	columns []string
	upsert  string
	// bind maps a CSV record (already indexed by column name) to the
	// upsert's positional arguments.
	bind func(get func(string) string) ([]any, error)
}

func (im *Importer) importCSV(ctx context.Context, path string, spec fileSpec) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range spec.columns {
		if _, ok := colMap[col]; !ok {
			return 0, fmt.Errorf("missing required column %q", col)
		}
	}

	tx, err := im.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, spec.upsert)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("error reading record %d: %w", count+2, err)
		}

		get := func(col string) string {
			idx, ok := colMap[col]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		args, err := spec.bind(get)
		if err != nil {
			return 0, fmt.Errorf("bad record %d: %w", count+2, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to upsert record %d: %w", count+2, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	log.Debug().Str("file", path).Int("rows", count).Msg("file imported")
	return count, nil
}
