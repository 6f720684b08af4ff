package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Editor is one active editing session on an entity field.
type Editor struct {
	UserSub  string    `json:"userSub"`
	UserName string    `json:"userName"`
	Field    string    `json:"field"`
	At       time.Time `json:"at"`
}

// Store keeps editing indicators in Redis as TTL keys. A heartbeat rewrites
// the key and refreshes the TTL; a crashed client simply ages out.
// Key shape: presence:{clientId}:{entity}:{id}:{field}:{userSub}
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 45 * time.Second
	}
	return &Store{client: client, ttl: ttl}
}

func key(clientID, entity, id, field, userSub string) string {
	return fmt.Sprintf("presence:%s:%s:%s:%s:%s", clientID, entity, id, field, userSub)
}

// Heartbeat marks a user as editing a field and refreshes the TTL.
func (s *Store) Heartbeat(ctx context.Context, clientID, entity, id string, ed Editor) error {
	ed.At = time.Now().UTC()
	b, err := json.Marshal(ed)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(clientID, entity, id, ed.Field, ed.UserSub), b, s.ttl).Err()
}

// Clear drops the indicator immediately, for clean blur/unmount.
func (s *Store) Clear(ctx context.Context, clientID, entity, id, field, userSub string) error {
	return s.client.Del(ctx, key(clientID, entity, id, field, userSub)).Err()
}

// Editors lists everyone currently editing the entity, except excludeSub.
// Callers pass their own sub so a user never sees their own indicator.
func (s *Store) Editors(ctx context.Context, clientID, entity, id, excludeSub string) ([]Editor, error) {
	pattern := fmt.Sprintf("presence:%s:%s:%s:*", clientID, entity, id)
	var out []Editor
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		b, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, err
		}
		var ed Editor
		if err := json.Unmarshal(b, &ed); err != nil {
			continue
		}
		if ed.UserSub == excludeSub {
			continue
		}
		out = append(out, ed)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
