// Package service implements link creation and resolution on top of a
// Storage backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/metrics"
	"github.com/atinyakov/shortlink/internal/storage"
	"github.com/atinyakov/shortlink/internal/worker"
)

// LinkStats is the read-only analytics view of a link.
type LinkStats struct {
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	TotalClicks int64     `json:"total_clicks"`
	CreatedAt   time.Time `json:"created_at"`
}

// URLResolver looks codes up for redirects and stats.
type URLResolver struct {
	storage Storage
	clicks  worker.ClickRecorder
	logger  *zap.Logger
}

func NewURLResolver(storage Storage, clicks worker.ClickRecorder, logger *zap.Logger) *URLResolver {
	return &URLResolver{
		storage: storage,
		clicks:  clicks,
		logger:  logger,
	}
}

// ResolveForRedirect returns the destination of code and hands the click to
// the recorder. Failures to count never fail the lookup.
func (u *URLResolver) ResolveForRedirect(ctx context.Context, code string) (string, error) {
	r, err := u.lookup(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.Redirects.WithLabelValues("not_found").Inc()
		} else {
			metrics.Redirects.WithLabelValues("error").Inc()
		}
		return "", err
	}

	u.clicks.Record(code)
	metrics.Redirects.WithLabelValues("found").Inc()

	return r.OriginalURL, nil
}

// GetStats never counts a click.
func (u *URLResolver) GetStats(ctx context.Context, code string) (*LinkStats, error) {
	r, err := u.lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	return &LinkStats{
		ShortCode:   r.ShortCode,
		OriginalURL: r.OriginalURL,
		TotalClicks: r.TotalClicks,
		CreatedAt:   r.CreatedAt,
	}, nil
}

func (u *URLResolver) lookup(ctx context.Context, code string) (*storage.LinkRecord, error) {
	if code == "" {
		return nil, ErrNotFound
	}

	r, err := u.storage.Get(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		u.logger.Error("store read failed", zap.String("code", code), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return r, nil
}
