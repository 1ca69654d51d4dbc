package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/akshadgujarkar/fair-ticketing/config"
	"github.com/akshadgujarkar/fair-ticketing/internal/domain"
)

// EventCache stores event configuration snapshots in Redis for the gate-scan
// path. When disabled every lookup is a miss and callers fall through to the
// database.
type EventCache struct {
	client  *redis.Client
	enabled bool
	ttl     time.Duration
}

// NewEventCache creates an event snapshot cache from the Redis configuration.
func NewEventCache(cfg config.RedisConfig) (*EventCache, error) {
	if !cfg.Enabled {
		return &EventCache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	return &EventCache{
		client:  client,
		enabled: true,
		ttl:     cfg.EventTTL,
	}, nil
}

// GetEvent returns the cached snapshot, or nil on a miss.
func (c *EventCache) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	if !c.enabled {
		return nil, nil
	}

	data, err := c.client.Get(ctx, eventKey(eventID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get event from Redis")
	}

	var event domain.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal cached event")
	}
	return &event, nil
}

// PutEvent stores a snapshot with the configured TTL.
func (c *EventCache) PutEvent(ctx context.Context, event domain.Event) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal event for caching")
	}
	if err := c.client.Set(ctx, eventKey(event.ID), data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to set event in Redis")
	}
	return nil
}

func eventKey(eventID string) string {
	return fmt.Sprintf("event:%s", eventID)
}

// Close closes the Redis connection.
func (c *EventCache) Close() error {
	if !c.enabled || c.client == nil {
		return nil
	}
	return c.client.Close()
}
