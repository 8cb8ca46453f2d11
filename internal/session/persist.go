package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DefaultSnapshotKey is the durable slot holding {token, userInfo}.
const DefaultSnapshotKey = "user_store"

// RedisSnapshots persists session snapshots in Redis under a single key.
type RedisSnapshots struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshots constructs a snapshot store. An empty key selects
// DefaultSnapshotKey.
func NewRedisSnapshots(client *redis.Client, key string) *RedisSnapshots {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &RedisSnapshots{client: client, key: key}
}

// Load fetches the persisted snapshot, nil when none exists.
func (r *RedisSnapshots) Load(ctx context.Context) (*Snapshot, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save writes the snapshot. Snapshots have no expiry; logout clears them.
func (r *RedisSnapshots) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, 0).Err()
}

// Clear removes the persisted snapshot.
func (r *RedisSnapshots) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
