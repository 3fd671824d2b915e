package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

const insightFeedSize = 10

// InsightCache is the bounded operator feed: the last 10 diagnostic lines
// per session, newest first.
type InsightCache interface {
	Push(ctx context.Context, sessionID string, entry model.InsightEntry) error
	Recent(ctx context.Context, sessionID string) ([]model.InsightEntry, error)
}

type insightCache struct {
	client *redis.Client
}

func NewInsightCache(client *redis.Client) InsightCache {
	return &insightCache{
		client: client,
	}
}

func (c *insightCache) Push(ctx context.Context, sessionID string, entry model.InsightEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	key := "insights:" + sessionID
	pipe := c.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, insightFeedSize-1)
	pipe.Expire(ctx, key, 24*time.Hour)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *insightCache) Recent(ctx context.Context, sessionID string) ([]model.InsightEntry, error) {
	items, err := c.client.LRange(ctx, "insights:"+sessionID, 0, insightFeedSize-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]model.InsightEntry, 0, len(items))
	for _, item := range items {
		var entry model.InsightEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
