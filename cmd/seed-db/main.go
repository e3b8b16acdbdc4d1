// Command seed-db loads user and product fixtures into the database. Inputs
// default to the embedded fixtures; pass file paths (plain or gzipped JSON)
// to load others. Passwords in the users file are plaintext and get hashed
// before insertion.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/labecommerce/catalog-api/db"
	"github.com/labecommerce/catalog-api/internal/repository"
)

type userJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
}

const (
	upsertUserSQL = `INSERT INTO users (id, name, email, password, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			password = EXCLUDED.password`

	upsertProductSQL = `INSERT INTO products (id, name, price, description, image_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url`
)

func main() {
	var (
		databaseURL  string
		usersFile    string
		productsFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&usersFile, "users-file", "", "path to users JSON file (.json or .json.gz, default: embedded fixtures)")
	flag.StringVar(&productsFile, "products-file", "", "path to products JSON file (.json or .json.gz, default: embedded fixtures)")
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

	if err := run(ctx, databaseURL, usersFile, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, usersFile, productsFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return errors.Wrap(seedUsers(ctx, pool, usersFile), "seed users")
	})
	g.Go(func() error {
		return errors.Wrap(seedProducts(ctx, pool, productsFile), "seed products")
	})
	return g.Wait()
}

// readFixture returns the file's content, transparently decompressing
// gzipped inputs. An empty path falls back to the embedded default.
func readFixture(path string, fallback []byte) ([]byte, error) {
	if path == "" {
		return fallback, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open fixture")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip reader")
		}
		defer zr.Close()
		r = zr
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "read fixture")
	}
	return buf.Bytes(), nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool, usersFile string) error {
	data, err := readFixture(usersFile, db.SeedUsers)
	if err != nil {
		return err
	}

	var users []userJSON
	if err := json.Unmarshal(data, &users); err != nil {
		return errors.Wrap(err, "parse users JSON")
	}

	slog.Info("upserting users", slog.Int("count", len(users)))

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrapf(err, "hash password for %s", u.ID)
		}
		if _, err := pool.Exec(ctx, upsertUserSQL,
			u.ID, u.Name, u.Email, string(hash), time.Now().UTC(),
		); err != nil {
			return errors.Wrapf(err, "upsert user %s", u.ID)
		}

		slog.Info("upserted user", slog.String("id", u.ID), slog.String("name", u.Name))
	}

	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	data, err := readFixture(productsFile, db.SeedProducts)
	if err != nil {
		return err
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		if _, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Price, p.Description, p.ImageURL,
		); err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}
