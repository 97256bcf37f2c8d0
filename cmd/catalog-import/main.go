// Command catalog-import loads bulk catalog dumps into the items table.
// A dump is a gzip-compressed JSONL file, one item per line. Dumps exported
// from different sources overlap heavily, so a bloom filter screens out
// item IDs that were already imported in this run before they reach the
// database.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sareeta/commerce/internal/domain/item"
	"github.com/sareeta/commerce/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

type itemJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func main() {
	var databaseURL string

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if flag.NArg() == 0 {
		slog.Error("usage: catalog-import [flags] dump1.jsonl.gz [dump2.jsonl.gz ...]")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, flag.Args()); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	return importDumps(ctx, postgres.NewItemRepository(pool), files)
}

// importDumps decompresses and parses the dump files concurrently. A single
// writer goroutine owns the bloom filter and the database connection, so
// dedup and upserts need no locking.
func importDumps(ctx context.Context, repo *postgres.ItemRepository, files []string) error {
	items := make(chan item.Item, 1024)

	g, ctx := errgroup.WithContext(ctx)

	readers, ctx := errgroup.WithContext(ctx)
	for _, f := range files {
		readers.Go(readDump(ctx, f, items))
	}
	g.Go(func() error {
		defer close(items)
		return readers.Wait()
	})

	g.Go(writeItems(ctx, repo, items))

	return g.Wait()
}

func readDump(ctx context.Context, path string, out chan<- item.Item) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var count uint64
		scanner := bufio.NewScanner(gz)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var raw itemJSON
			if err := json.Unmarshal(line, &raw); err != nil {
				return errors.Wrapf(err, "parse line %d of %s", count+1, path)
			}
			if raw.ID == "" || raw.Name == "" {
				continue
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("read progress", slog.String("file", path), slog.Uint64("items", count))
			}

			it := item.Item{ID: raw.ID, Name: raw.Name, Description: raw.Description, Price: raw.Price}
			select {
			case out <- it:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("file complete", slog.String("file", path), slog.Uint64("items", count))
		return nil
	}
}

func writeItems(ctx context.Context, repo *postgres.ItemRepository, in <-chan item.Item) func() error {
	return func() error {
		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var written, skipped uint64

		for it := range in {
			if seen.TestAndAddString(it.ID) {
				skipped++
				continue
			}

			if err := repo.Upsert(ctx, it); err != nil {
				return errors.Wrapf(err, "upsert item %s", it.ID)
			}

			written++
			if written%progressEvery == 0 {
				slog.Info("write progress", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
			}
		}

		slog.Info("write complete", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
		return nil
	}
}
