package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

// SessionCache holds hot session snapshots plus the completion flag that
// gates whether a returning candidate is shown setup again.
type SessionCache interface {
	Set(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
	MarkComplete(ctx context.Context, id string) error
	IsComplete(ctx context.Context, id string) (bool, error)
}

type sessionCache struct {
	client *redis.Client
}

func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
	}
}

func (c *sessionCache) Set(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "session:"+session.ID, data, time.Hour).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := c.client.Get(ctx, "session:"+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	err = json.Unmarshal([]byte(data), &session)
	return &session, err
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, "session:"+id).Err()
}

func (c *sessionCache) MarkComplete(ctx context.Context, id string) error {
	return c.client.Set(ctx, "session:complete:"+id, "1", 24*time.Hour).Err()
}

func (c *sessionCache) IsComplete(ctx context.Context, id string) (bool, error) {
	_, err := c.client.Get(ctx, "session:complete:"+id).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
