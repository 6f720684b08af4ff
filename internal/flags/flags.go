package flags

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Known flag names. Unknown names are rejected so a typo in a toggle URL
// cannot mint junk keys.
var known = map[string]bool{
	"newBoardLayout": true,
	"callSheetBeta":  true,
	"debugPanels":    true,
}

func Known(name string) bool {
	return known[name]
}

// Store keeps per-user feature flags in Redis. Flags have no TTL, they stay
// set until toggled off.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(userSub string) string {
	return fmt.Sprintf("flags:%s", userSub)
}

func (s *Store) Set(ctx context.Context, userSub, name string, enabled bool) error {
	if !Known(name) {
		return fmt.Errorf("unknown flag %q", name)
	}
	if enabled {
		return s.client.HSet(ctx, key(userSub), name, "1").Err()
	}
	return s.client.HDel(ctx, key(userSub), name).Err()
}

func (s *Store) Get(ctx context.Context, userSub, name string) (bool, error) {
	v, err := s.client.HGet(ctx, key(userSub), name).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "1", nil
}

// All returns every enabled flag for the user.
func (s *Store) All(ctx context.Context, userSub string) (map[string]bool, error) {
	vals, err := s.client.HGetAll(ctx, key(userSub)).Result()
	if err != nil {
		return nil, err
	}
	out := map[string]bool{}
	for name, v := range vals {
		if v == "1" {
			out[name] = true
		}
	}
	return out, nil
}
