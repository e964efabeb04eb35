// Package repository holds the Link Store backends that live outside the
// process: PostgreSQL, SQLite/libSQL and Redis. Every backend implements
// create-if-absent and click increments as single atomic operations of its
// engine, so several service instances can share one store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/storage"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS links (
		id UUID PRIMARY KEY,
		short_code TEXT UNIQUE NOT NULL,
		original_url TEXT NOT NULL,
		is_custom BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		total_clicks BIGINT NOT NULL DEFAULT 0 CHECK (total_clicks >= 0)
	);`

// InitDB opens a pgx connection pool and makes sure the schema exists.
func InitDB(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database connected and table ready.")
	return db, nil
}

type PostgresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func CreatePostgresRepository(db *sql.DB, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		db:     db,
		logger: logger,
	}
}

// CreateIfAbsent relies on the UNIQUE constraint on short_code: of two
// concurrent inserts exactly one commits, the other gets a unique violation.
func (r *PostgresRepository) CreateIfAbsent(ctx context.Context, v storage.LinkRecord) (bool, error) {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO links(id, short_code, original_url, is_custom, created_at) VALUES ($1, $2, $3, $4, $5);",
		v.ID, v.ShortCode, v.OriginalURL, v.IsCustom, v.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return false, nil
		}

		return false, r.unavailable("CreateIfAbsent", err)
	}

	return true, nil
}

func (r *PostgresRepository) Get(ctx context.Context, code string) (*storage.LinkRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, short_code, original_url, is_custom, created_at, total_clicks FROM links WHERE short_code = $1;",
		code,
	)

	var rec storage.LinkRecord
	err := row.Scan(&rec.ID, &rec.ShortCode, &rec.OriginalURL, &rec.IsCustom, &rec.CreatedAt, &rec.TotalClicks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}

	if err != nil {
		return nil, r.unavailable("Get", err)
	}

	return &rec, nil
}

func (r *PostgresRepository) IncrementClicks(ctx context.Context, code string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE links SET total_clicks = total_clicks + 1 WHERE short_code = $1;",
		code,
	)
	if err != nil {
		return false, r.unavailable("IncrementClicks", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, r.unavailable("IncrementClicks", err)
	}

	return rowsAffected == 1, nil
}

func (r *PostgresRepository) GetStats(ctx context.Context) (storage.Stats, error) {
	var s storage.Stats

	row := r.db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(total_clicks), 0) FROM links;")
	if err := row.Scan(&s.Links, &s.Clicks); err != nil {
		return storage.Stats{}, r.unavailable("GetStats", err)
	}

	return s, nil
}

func (r *PostgresRepository) PingContext(c context.Context) error {
	return r.db.PingContext(c)
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresRepository) unavailable(op string, err error) error {
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		fields = append(fields,
			zap.String("pg_code", pgErr.Code),
			zap.Bool("connection_exception", pgerrcode.IsConnectionException(pgErr.Code)),
		)
	}

	r.logger.Error("postgres operation failed", fields...)
	return fmt.Errorf("%w: %s: %v", storage.ErrUnavailable, op, err)
}
