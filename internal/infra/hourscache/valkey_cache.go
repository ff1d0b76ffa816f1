package hourscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/activity-finder/internal/domain/activity"
)

// ValkeyCache stores opening hours in Valkey so every instance shares lookups.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "activity"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (activity.HoursRecord, bool, error) {
	payload, err := c.client.Do(ctx, c.client.B().Get().Key(c.entryKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return activity.HoursRecord{}, false, nil
		}
		return activity.HoursRecord{}, false, err
	}
	var record activity.HoursRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return activity.HoursRecord{}, false, err
	}
	return record, true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, record activity.HoursRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key string) string {
	return fmt.Sprintf("%s:hours:%s", c.prefix, key)
}

var _ activity.HoursCache = (*ValkeyCache)(nil)
