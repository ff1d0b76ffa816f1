package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/activity-finder/internal/domain/activity"
)

// ValkeyStore persists session state in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "activity"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *ValkeyStore) Load(ctx context.Context, sessionID string) (activity.SessionState, bool, error) {
	cmd := s.client.B().Get().Key(s.sessionKey(sessionID)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return activity.SessionState{}, false, nil
		}
		return activity.SessionState{}, false, err
	}
	var state activity.SessionState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return activity.SessionState{}, false, err
	}
	return state, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, sessionID string, state activity.SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.sessionKey(sessionID)).Value(string(payload))
	var cmd valkey.Completed
	if s.ttl > 0 {
		ttl := s.ttl
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, id)
}

var _ activity.SessionStore = (*ValkeyStore)(nil)
