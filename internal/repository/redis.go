package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/storage"
)

const (
	linkKeyPrefix  = "shortlink:link:"
	linksCountKey  = "shortlink:stats:links"
	clicksCountKey = "shortlink:stats:clicks"
)

// createScript writes the whole hash only when the key is absent.
var createScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV))
redis.call("INCR", KEYS[2])
return 1
`)

// incrementScript never creates the hash as a side effect of HINCRBY.
var incrementScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
redis.call("HINCRBY", KEYS[1], "total_clicks", 1)
redis.call("INCR", KEYS[2])
return 1
`)

type RedisRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisRepository(ctx context.Context, addr string, logger *zap.Logger) (*RedisRepository, error) {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		// plain host:port
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}

	logger.Info("redis connected", zap.String("addr", opts.Addr))
	return CreateRedisRepository(client, logger), nil
}

func CreateRedisRepository(client *redis.Client, logger *zap.Logger) *RedisRepository {
	return &RedisRepository{
		client: client,
		logger: logger,
	}
}

func linkKey(code string) string {
	return linkKeyPrefix + code
}

func (r *RedisRepository) CreateIfAbsent(ctx context.Context, v storage.LinkRecord) (bool, error) {
	isCustom := "0"
	if v.IsCustom {
		isCustom = "1"
	}

	res, err := createScript.Run(ctx, r.client,
		[]string{linkKey(v.ShortCode), linksCountKey},
		"id", v.ID,
		"short_code", v.ShortCode,
		"original_url", v.OriginalURL,
		"is_custom", isCustom,
		"created_at", v.CreatedAt.UTC().Format(time.RFC3339Nano),
		"total_clicks", "0",
	).Int()
	if err != nil {
		return false, r.unavailable("CreateIfAbsent", err)
	}

	return res == 1, nil
}

func (r *RedisRepository) Get(ctx context.Context, code string) (*storage.LinkRecord, error) {
	fields, err := r.client.HGetAll(ctx, linkKey(code)).Result()
	if err != nil {
		return nil, r.unavailable("Get", err)
	}

	if len(fields) == 0 {
		return nil, storage.ErrNotFound
	}

	rec := storage.LinkRecord{
		ID:          fields["id"],
		ShortCode:   fields["short_code"],
		OriginalURL: fields["original_url"],
		IsCustom:    fields["is_custom"] == "1",
	}

	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["created_at"]); err != nil {
		return nil, r.unavailable("Get", err)
	}

	if rec.TotalClicks, err = strconv.ParseInt(fields["total_clicks"], 10, 64); err != nil {
		return nil, r.unavailable("Get", err)
	}

	return &rec, nil
}

func (r *RedisRepository) IncrementClicks(ctx context.Context, code string) (bool, error) {
	res, err := incrementScript.Run(ctx, r.client, []string{linkKey(code), clicksCountKey}).Int()
	if err != nil {
		return false, r.unavailable("IncrementClicks", err)
	}

	return res == 1, nil
}

func (r *RedisRepository) GetStats(ctx context.Context) (storage.Stats, error) {
	vals, err := r.client.MGet(ctx, linksCountKey, clicksCountKey).Result()
	if err != nil {
		return storage.Stats{}, r.unavailable("GetStats", err)
	}

	var s storage.Stats
	counters := []*int64{&s.Links, &s.Clicks}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}

		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return storage.Stats{}, r.unavailable("GetStats", err)
		}
		*counters[i] = n
	}

	return s, nil
}

func (r *RedisRepository) PingContext(c context.Context) error {
	return r.client.Ping(c).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) unavailable(op string, err error) error {
	if errors.Is(err, redis.Nil) {
		err = errors.New("unexpected nil reply")
	}

	r.logger.Error("redis operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %v", storage.ErrUnavailable, op, err)
}
