package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"elasticroute-client/internal/domain"
	"elasticroute-client/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

// RedisSolutionStore keeps each plan's latest solution under
// "<prefix><plan_id>" with a TTL.
type RedisSolutionStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

type redisRecord struct {
	Stage           string          `json:"stage"`
	Progress        float64         `json:"progress"`
	RawResponse     json.RawMessage `json:"raw_response"`
	GeneralSettings json.RawMessage `json:"general_settings"`
}

func NewRedisSolutionStore(rdb *redis.Client, ttl time.Duration) *RedisSolutionStore {
	return &RedisSolutionStore{rdb: rdb, prefix: "elasticroute:solution:", ttl: ttl}
}

// NewRedisSolutionStoreFromURL connects using a redis:// URL and checks the
// connection.
func NewRedisSolutionStoreFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisSolutionStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis solution store: parse url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis solution store: ping: %w", err)
	}
	return NewRedisSolutionStore(rdb, ttl), nil
}

func (s *RedisSolutionStore) Close() error {
	return s.rdb.Close()
}

func (s *RedisSolutionStore) SaveSolution(ctx context.Context, sol *domain.Solution) (err error) {
	defer obs.Time(ctx, "store.redis.SaveSolution")(&err)

	if strings.TrimSpace(sol.PlanID) == "" {
		return errors.New("save solution: plan id is empty")
	}
	settings, err := json.Marshal(sol.GeneralSettings)
	if err != nil {
		return fmt.Errorf("save solution: encode settings: %w", err)
	}
	raw := sol.RawResponse
	if len(raw) == 0 {
		raw = []byte("null")
	}
	b, err := json.Marshal(redisRecord{
		Stage:           string(sol.Status),
		Progress:        sol.Progress,
		RawResponse:     raw,
		GeneralSettings: settings,
	})
	if err != nil {
		return fmt.Errorf("save solution %q: encode: %w", sol.PlanID, err)
	}

	if err := s.rdb.Set(ctx, s.prefix+sol.PlanID, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("save solution %q: %w", sol.PlanID, err)
	}
	return nil
}

func (s *RedisSolutionStore) GetSolution(ctx context.Context, planID string) (_ *domain.Solution, err error) {
	defer obs.Time(ctx, "store.redis.GetSolution")(&err)

	b, err := s.rdb.Get(ctx, s.prefix+planID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get solution %q: %w", planID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get solution %q: %w", planID, err)
	}

	var rec redisRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("get solution %q: decode: %w", planID, err)
	}
	return decodeStored(planID, rec.RawResponse, rec.GeneralSettings)
}
