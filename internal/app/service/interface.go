package service

import (
	"context"

	"github.com/atinyakov/shortlink/internal/storage"
)

//go:generate mockgen -destination=../../mocks/service_mock.go -package=mocks . Storage,URLServiceIface,URLResolverIface

type Storage interface {
	CreateIfAbsent(context.Context, storage.LinkRecord) (bool, error)
	Get(context.Context, string) (*storage.LinkRecord, error)
	IncrementClicks(context.Context, string) (bool, error)
	GetStats(context.Context) (storage.Stats, error)
	PingContext(context.Context) error
}

type URLServiceIface interface {
	Shorten(ctx context.Context, originalURL string, alias string) (*storage.LinkRecord, error)
	ShortURL(code string) string
	PingContext(ctx context.Context) error
	InternalStats(ctx context.Context) (storage.Stats, error)
}

type URLResolverIface interface {
	ResolveForRedirect(ctx context.Context, code string) (string, error)
	GetStats(ctx context.Context, code string) (*LinkStats, error)
}
