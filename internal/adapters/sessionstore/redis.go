package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/balazs-web/smoky-fish-sub000/internal/checkout"
)

// Redis stores checkout sessions as JSON values with a sliding TTL so
// abandoned baskets expire on their own
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("checkout:session:%s", sessionID)
}

func (r *Redis) Load(ctx context.Context, sessionID string) (checkout.Session, bool, error) {
	raw, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return checkout.Session{}, false, nil
	}
	if err != nil {
		return checkout.Session{}, false, fmt.Errorf("error reading session from redis: %w", err)
	}

	var session checkout.Session
	if err = json.Unmarshal([]byte(raw), &session); err != nil {
		return checkout.Session{}, false, fmt.Errorf("error unmarshalling session: %w", err)
	}

	return session, true, nil
}

func (r *Redis) Save(ctx context.Context, sessionID string, session checkout.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("error marshalling session: %w", err)
	}

	if err = r.client.Set(ctx, sessionKey(sessionID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("error writing session to redis: %w", err)
	}

	return nil
}

func (r *Redis) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("error deleting session from redis: %w", err)
	}
	return nil
}
