// Package redisstore keeps the tally in Redis so several servers share one count.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/hallpass/internal/tally/domain"
)

// DefaultKeyPrefix namespaces the counter keys.
const DefaultKeyPrefix = "hallpass:tally:"

// bumpScript increments KEYS[1] by ARGV[1], floors it at zero and returns
// the values of KEYS[2..] in order.
var bumpScript = redis.NewScript(`
local v = redis.call('INCRBY', KEYS[1], ARGV[1])
if v < 0 then
  redis.call('SET', KEYS[1], 0)
end
local out = {}
for i = 2, #KEYS do
  out[#out + 1] = redis.call('GET', KEYS[i])
end
return out
`)

// Store implements domain.Repository on Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New creates a Store using client. An empty prefix uses DefaultKeyPrefix.
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Dial parses a redis:// URL and verifies the server answers.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

var _ domain.Repository = (*Store)(nil)

func (s *Store) key(g domain.Group) string {
	return s.prefix + string(g)
}

func (s *Store) keys() []string {
	groups := domain.Groups()
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = s.key(g)
	}
	return keys
}

func (s *Store) Get(ctx context.Context) (domain.Counts, error) {
	values, err := s.client.MGet(ctx, s.keys()...).Result()
	if err != nil {
		return domain.Counts{}, fmt.Errorf("load counters: %w", err)
	}
	return countsFrom(values)
}

func (s *Store) Bump(ctx context.Context, group domain.Group, delta int) (domain.Counts, error) {
	if !group.IsValid() {
		return domain.Counts{}, domain.ErrUnknownGroup
	}
	if err := domain.ValidateDelta(delta); err != nil {
		return domain.Counts{}, err
	}

	keys := append([]string{s.key(group)}, s.keys()...)
	values, err := bumpScript.Run(ctx, s.client, keys, delta).Slice()
	if err != nil {
		return domain.Counts{}, fmt.Errorf("bump %s: %w", group, err)
	}
	return countsFrom(values)
}

func (s *Store) Reset(ctx context.Context) (domain.Counts, error) {
	pairs := make([]any, 0, len(domain.Groups())*2)
	for _, key := range s.keys() {
		pairs = append(pairs, key, 0)
	}
	if err := s.client.MSet(ctx, pairs...).Err(); err != nil {
		return domain.Counts{}, fmt.Errorf("reset counters: %w", err)
	}
	return domain.Counts{}, nil
}

// Ping reports whether Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// countsFrom maps values returned for s.keys() back onto Counts. Missing
// keys come back as nil and count as zero.
func countsFrom(values []any) (domain.Counts, error) {
	groups := domain.Groups()
	if len(values) != len(groups) {
		return domain.Counts{}, fmt.Errorf("expected %d counters, got %d", len(groups), len(values))
	}

	var counts domain.Counts
	for i, g := range groups {
		n, err := toInt(values[i])
		if err != nil {
			return domain.Counts{}, fmt.Errorf("counter %s: %w", g, err)
		}
		counts = counts.With(g, n)
	}
	return counts, nil
}

var errUnexpectedValue = errors.New("unexpected counter value")

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case nil, bool:
		return 0, nil
	case string:
		n, err := strconv.Atoi(x)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errUnexpectedValue, x)
		}
		return max(n, 0), nil
	case int64:
		return max(int(x), 0), nil
	default:
		return 0, fmt.Errorf("%w: %T", errUnexpectedValue, v)
	}
}
