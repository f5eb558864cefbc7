package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/xtding233/booster-sim/internal/gacha"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore is a Store backed by a SQLite file.
type SQLiteStore struct {
	conn *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path, applies pending
// migrations and configures the connection.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := migrateUp(path); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(8)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(5 * time.Minute)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return &SQLiteStore{conn: conn}, nil
}

// migrateUp applies the embedded migrations to the database at path.
func migrateUp(path string) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("failed to create source driver: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+filepath.ToSlash(path))
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) ListSeries(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT DISTINCT series FROM cards ORDER BY series`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Cards(ctx context.Context, series string) ([]gacha.Card, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT series, card_number, rare, card_name, money, image_url
		FROM cards
		WHERE series = ?
		ORDER BY position, card_number`, series)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var out []gacha.Card
	for rows.Next() {
		var c gacha.Card
		if err := rows.Scan(&c.Series, &c.Number, &c.Rarity, &c.Name, &c.Price, &c.ImageURL); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrSeriesNotFound
	}
	return out, nil
}

func (s *SQLiteStore) Upsert(ctx context.Context, cards []gacha.Card) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	next := map[string]int{}
	for _, c := range cards {
		if c.Series == "" || c.Number == "" {
			return ErrInvalidCard
		}
		pos, ok := next[c.Series]
		if !ok {
			if err := tx.QueryRowContext(ctx,
				`SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE series = ?`, c.Series,
			).Scan(&pos); err != nil {
				return fmt.Errorf("next position: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cards (series, card_number, rare, card_name, money, image_url, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (series, card_number, rare) DO UPDATE SET
				card_name = excluded.card_name,
				money     = excluded.money,
				image_url = excluded.image_url`,
			c.Series, c.Number, c.Rarity, c.Name, c.Price, c.ImageURL, pos,
		); err != nil {
			return fmt.Errorf("upsert card %s/%s: %w", c.Series, c.Number, err)
		}
		next[c.Series] = pos + 1
	}
	return tx.Commit()
}
