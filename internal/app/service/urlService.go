package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/codegen"
	"github.com/atinyakov/shortlink/internal/metrics"
	"github.com/atinyakov/shortlink/internal/storage"
)

const (
	DefaultMaxAliasLength = 32
	DefaultMaxAttempts    = 5
)

// aliasChars is checked separately from the length so that any configured
// maximum works; regexp repeat counts stop at 1000.
var aliasChars = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// reservedAliases are path segments owned by the API itself.
var reservedAliases = map[string]struct{}{
	"shorten": {},
	"stats":   {},
	"ping":    {},
	"metrics": {},
	"api":     {},
	"healthz": {},
}

type Limits struct {
	MaxAliasLength int
	MaxAttempts    int
}

type URLService struct {
	repository Storage
	generator  codegen.Generator
	logger     *zap.Logger
	baseURL    string
	limits     Limits
	now        func() time.Time
}

func NewURL(repo Storage, gen codegen.Generator, logger *zap.Logger, baseURL string, limits Limits) *URLService {
	if limits.MaxAliasLength < 1 {
		limits.MaxAliasLength = DefaultMaxAliasLength
	}
	if limits.MaxAttempts < 1 {
		limits.MaxAttempts = DefaultMaxAttempts
	}

	return &URLService{
		repository: repo,
		generator:  gen,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limits:     limits,
		now:        time.Now,
	}
}

func (s *URLService) PingContext(ctx context.Context) error {
	return s.repository.PingContext(ctx)
}

func (s *URLService) InternalStats(ctx context.Context) (storage.Stats, error) {
	stats, err := s.repository.GetStats(ctx)
	if err != nil {
		return storage.Stats{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return stats, nil
}

func (s *URLService) ShortURL(code string) string {
	return s.baseURL + "/" + code
}

// Shorten validates originalURL and stores it under alias, or under a
// generated code when alias is blank. Nothing is written when validation
// fails.
func (s *URLService) Shorten(ctx context.Context, originalURL string, alias string) (*storage.LinkRecord, error) {
	original, err := validateURL(originalURL)
	if err != nil {
		metrics.Shortens.WithLabelValues("invalid_url").Inc()
		return nil, err
	}

	alias = strings.TrimSpace(alias)
	if alias != "" {
		return s.reserveAlias(ctx, original, alias)
	}

	return s.generate(ctx, original)
}

func (s *URLService) reserveAlias(ctx context.Context, original, alias string) (*storage.LinkRecord, error) {
	if err := s.validateAlias(alias); err != nil {
		metrics.Shortens.WithLabelValues("invalid_alias").Inc()
		return nil, err
	}

	record := s.newRecord(alias, original, true)

	ok, err := s.repository.CreateIfAbsent(ctx, record)
	if err != nil {
		return nil, s.unavailable(err)
	}

	if !ok {
		s.logger.Info("alias already taken", zap.String("alias", alias))
		metrics.Shortens.WithLabelValues("alias_taken").Inc()

		return nil, ErrAliasTaken
	}

	metrics.Shortens.WithLabelValues("created").Inc()

	return &record, nil
}

func (s *URLService) generate(ctx context.Context, original string) (*storage.LinkRecord, error) {
	for attempt := 1; attempt <= s.limits.MaxAttempts; attempt++ {
		record := s.newRecord(s.generator.Generate(), original, false)

		ok, err := s.repository.CreateIfAbsent(ctx, record)
		if err != nil {
			return nil, s.unavailable(err)
		}

		if ok {
			metrics.Shortens.WithLabelValues("created").Inc()
			return &record, nil
		}

		metrics.Collisions.Inc()
		s.logger.Debug("generated code collided", zap.String("code", record.ShortCode), zap.Int("attempt", attempt))
	}

	s.logger.Error("code generation exhausted", zap.Int("attempts", s.limits.MaxAttempts))
	metrics.Shortens.WithLabelValues("exhausted").Inc()

	return nil, ErrGenerationExhausted
}

func (s *URLService) newRecord(code, original string, custom bool) storage.LinkRecord {
	return storage.LinkRecord{
		ID:          uuid.NewString(),
		ShortCode:   code,
		OriginalURL: original,
		IsCustom:    custom,
		CreatedAt:   s.now().UTC(),
	}
}

func (s *URLService) unavailable(err error) error {
	s.logger.Error("store write failed", zap.Error(err))
	metrics.Shortens.WithLabelValues("unavailable").Inc()

	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

func (s *URLService) validateAlias(alias string) error {
	if len(alias) > s.limits.MaxAliasLength || !aliasChars.MatchString(alias) {
		return fmt.Errorf("%w: must be 1 to %d letters, digits or hyphens", ErrInvalidAlias, s.limits.MaxAliasLength)
	}

	if _, ok := reservedAliases[strings.ToLower(alias)]; ok {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidAlias, alias)
	}

	return nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url is empty", ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}

	if u.Host == "" || u.Hostname() == "" {
		return "", fmt.Errorf("%w: host is missing", ErrInvalidURL)
	}

	return raw, nil
}
