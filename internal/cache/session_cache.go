package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/survey-editor/internal/config"
	"github.com/stemsi/survey-editor/internal/editor"
	"github.com/stemsi/survey-editor/internal/model"
)

// SessionCache fans editing session events out over Redis and queues
// submitted sessions for the submit worker.
type SessionCache interface {
	Publish(ctx context.Context, ev *model.SessionEvent) error
	Latest(ctx context.Context, sessionID uuid.UUID) (*editor.Snapshot, error)
	Subscribe(ctx context.Context, sessionID uuid.UUID) *redis.PubSub
	Enqueue(ctx context.Context, sub *model.Submission) error
	Forget(ctx context.Context, sessionID uuid.UUID) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a session cache. Snapshots expire after ttl,
// which should match the session idle TTL.
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{client: client, ttl: ttl}
}

// Publish sends ev on the session channel. Events carrying a snapshot also
// replace the stored latest snapshot.
func (c *sessionCache) Publish(ctx context.Context, ev *model.SessionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	if ev.Snapshot != nil {
		snap, err := json.Marshal(ev.Snapshot)
		if err != nil {
			return err
		}
		pipe.Set(ctx, config.CacheKey.SessionSnapshotKey(ev.SessionID.String()), snap, c.ttl)
	}
	pipe.Publish(ctx, config.CacheKey.SessionEventsChannel(ev.SessionID.String()), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish session event: %w", err)
	}
	return nil
}

// Latest returns the stored snapshot, or nil when none is cached.
func (c *sessionCache) Latest(ctx context.Context, sessionID uuid.UUID) (*editor.Snapshot, error) {
	data, err := c.client.Get(ctx, config.CacheKey.SessionSnapshotKey(sessionID.String())).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap editor.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *sessionCache) Subscribe(ctx context.Context, sessionID uuid.UUID) *redis.PubSub {
	return c.client.Subscribe(ctx, config.CacheKey.SessionEventsChannel(sessionID.String()))
}

// Enqueue pushes a submission onto the submit queue.
func (c *sessionCache) Enqueue(ctx context.Context, sub *model.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return c.client.RPush(ctx, config.WorkerKey.SurveySubmitQueue, data).Err()
}

// Forget drops the stored snapshot of a closed session.
func (c *sessionCache) Forget(ctx context.Context, sessionID uuid.UUID) error {
	return c.client.Del(ctx, config.CacheKey.SessionSnapshotKey(sessionID.String())).Err()
}
