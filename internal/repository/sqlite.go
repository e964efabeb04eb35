package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/atinyakov/shortlink/internal/storage"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		short_code TEXT NOT NULL UNIQUE,
		original_url TEXT NOT NULL,
		is_custom INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		total_clicks INTEGER NOT NULL DEFAULT 0
	);`

type SQLiteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteRepository opens a local SQLite file with the pure Go driver, or a
// remote libSQL (Turso) database when the DSN uses libsql:// or wss://.
func NewSQLiteRepository(ctx context.Context, dsn string, logger *zap.Logger) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.HasPrefix(dsn, "libsql://") || strings.HasPrefix(dsn, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if driverName == "sqlite" {
		// one writer at a time avoids SQLITE_BUSY under concurrent clicks
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlite connected and table ready", zap.String("driver", driverName))

	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) CreateIfAbsent(ctx context.Context, v storage.LinkRecord) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO links(id, short_code, original_url, is_custom, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(short_code) DO NOTHING`,
		v.ID, v.ShortCode, v.OriginalURL, v.IsCustom, v.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, r.unavailable("CreateIfAbsent", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, r.unavailable("CreateIfAbsent", err)
	}

	return rowsAffected == 1, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, code string) (*storage.LinkRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, short_code, original_url, is_custom, created_at, total_clicks FROM links WHERE short_code = ?",
		code,
	)

	var (
		rec       storage.LinkRecord
		createdAt string
	)
	err := row.Scan(&rec.ID, &rec.ShortCode, &rec.OriginalURL, &rec.IsCustom, &createdAt, &rec.TotalClicks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, r.unavailable("Get", err)
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, r.unavailable("Get", err)
	}

	return &rec, nil
}

func (r *SQLiteRepository) IncrementClicks(ctx context.Context, code string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE links SET total_clicks = total_clicks + 1 WHERE short_code = ?", code)
	if err != nil {
		return false, r.unavailable("IncrementClicks", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, r.unavailable("IncrementClicks", err)
	}

	return rowsAffected == 1, nil
}

func (r *SQLiteRepository) GetStats(ctx context.Context) (storage.Stats, error) {
	var s storage.Stats

	row := r.db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(total_clicks), 0) FROM links")
	if err := row.Scan(&s.Links, &s.Clicks); err != nil {
		return storage.Stats{}, r.unavailable("GetStats", err)
	}

	return s, nil
}

func (r *SQLiteRepository) PingContext(c context.Context) error {
	return r.db.PingContext(c)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) unavailable(op string, err error) error {
	r.logger.Error("sqlite operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %v", storage.ErrUnavailable, op, err)
}
