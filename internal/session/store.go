package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orgflow-backend/internal/config"
	"orgflow-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyFmt = "session:%s:%d" // role, principal id

var client *redis.Client

// Init initializes the Redis connection for the session store.
// The server degrades gracefully when Redis is unavailable: tokens are
// still validated, sessions just aren't revocable before expiry.
func Init(cfg *config.Config) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// Save persists the principal for the token's lifetime
func Save(ctx context.Context, p *models.Principal, ttl time.Duration) {
	if client == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	client.Set(ctx, fmt.Sprintf(keyFmt, p.Role, p.ID), data, ttl)
}

// Get returns the persisted principal, or nil if absent or Redis is down
func Get(ctx context.Context, role string, id int) *models.Principal {
	if client == nil {
		return nil
	}
	data, err := client.Get(ctx, fmt.Sprintf(keyFmt, role, id)).Bytes()
	if err != nil {
		return nil
	}
	var p models.Principal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	return &p
}

// Ping reports whether the session store is reachable. Returns false
// without error when Redis was never configured.
func Ping(ctx context.Context) (bool, error) {
	if client == nil {
		return false, nil
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Delete revokes a session. Idempotent; deleting an absent session is not an error.
func Delete(ctx context.Context, role string, id int) {
	if client == nil {
		return
	}
	client.Del(ctx, fmt.Sprintf(keyFmt, role, id))
}
