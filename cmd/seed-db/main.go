// Command seed-db runs migrations and loads a small demo catalog plus a demo
// user, enough to exercise the API locally.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sareeta/commerce/internal/domain/item"
	"github.com/sareeta/commerce/internal/domain/user"
	"github.com/sareeta/commerce/internal/storage/postgres"
)

type itemJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// defaultItems is used when no items file is given.
var defaultItems = []item.Item{
	{ID: "1", Name: "Round Widget", Description: "A widget that is round", Price: decimal.RequireFromString("2.99")},
	{ID: "2", Name: "Square Widget", Description: "A widget that is square", Price: decimal.RequireFromString("1.99")},
	{ID: "3", Name: "Hex Widget", Description: "A widget with six sides", Price: decimal.RequireFromString("4.49")},
}

func main() {
	var (
		databaseURL  string
		itemsFile    string
		demoUser     string
		demoPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&itemsFile, "items-file", "", "optional path to an items JSON file")
	flag.StringVar(&demoUser, "demo-user", "demo", "username for the demo account")
	flag.StringVar(&demoPassword, "demo-password", "demopass1", "password for the demo account")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, itemsFile, demoUser, demoPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, itemsFile, demoUser, demoPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	items := defaultItems
	if itemsFile != "" {
		items, err = loadItems(itemsFile)
		if err != nil {
			return errors.Wrap(err, "load items file")
		}
	}

	if err := seedItems(ctx, postgres.NewItemRepository(pool), items); err != nil {
		return errors.Wrap(err, "seed items")
	}

	if err := seedDemoUser(ctx, postgres.NewUserRepository(pool), demoUser, demoPassword); err != nil {
		return errors.Wrap(err, "seed demo user")
	}

	return nil
}

func loadItems(path string) ([]item.Item, error) {
	slog.Info("reading items file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read items file")
	}

	var raw []itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parse items JSON")
	}

	items := make([]item.Item, len(raw))
	for i, r := range raw {
		items[i] = item.Item{ID: r.ID, Name: r.Name, Description: r.Description, Price: r.Price}
	}
	return items, nil
}

func seedItems(ctx context.Context, repo *postgres.ItemRepository, items []item.Item) error {
	slog.Info("upserting items", slog.Int("count", len(items)))

	for _, it := range items {
		if err := repo.Upsert(ctx, it); err != nil {
			return errors.Wrapf(err, "upsert item %s", it.ID)
		}
		slog.Info("upserted item", slog.String("id", it.ID), slog.String("name", it.Name))
	}

	return nil
}

func seedDemoUser(ctx context.Context, repo *postgres.UserRepository, username, password string) error {
	if _, err := repo.FindByUsername(ctx, username); err == nil {
		slog.Info("demo user already exists", slog.String("username", username))
		return nil
	} else if !errors.Is(err, user.ErrNotFound) {
		return errors.Wrap(err, "check demo user")
	}

	u, err := user.New(username, password)
	if err != nil {
		return errors.Wrap(err, "build demo user")
	}
	if err := repo.Create(ctx, u); err != nil {
		return errors.Wrap(err, "create demo user")
	}

	slog.Info("created demo user", slog.String("username", username))
	return nil
}
