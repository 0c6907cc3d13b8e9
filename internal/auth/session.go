package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ctx = context.Background()

// flashTTL bounds how long an undelivered flash message survives.
const flashTTL = 10 * time.Minute

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// SessionManager persists session-token blacklist markers and one-shot
// flash messages in Redis.
type SessionManager struct {
	rdb *redis.Client
}

func NewSessionManager(rdb *redis.Client) *SessionManager {
	return &SessionManager{rdb: rdb}
}

// AddBlackList invalidates a session token for the remainder of its
// lifetime, used during logout.
func (s *SessionManager) AddBlackList(token string, ttl time.Duration) error {
	key := fmt.Sprintf("ap:black:%s", token)
	return s.rdb.Set(ctx, key, "1", ttl).Err()
}

// InBlackList reports whether a session token has been invalidated.
func (s *SessionManager) InBlackList(token string) (bool, error) {
	key := fmt.Sprintf("ap:black:%s", token)
	res, err := s.rdb.Exists(ctx, key).Result()
	return res == 1, err
}

// PushFlash queues a flash message for the browser identified by flashID.
func (s *SessionManager) PushFlash(flashID, level, message string) error {
	data, err := json.Marshal(Flash{Level: level, Message: message})
	if err != nil {
		return err
	}
	key := fmt.Sprintf("ap:flash:%s", flashID)
	if err := s.rdb.RPush(ctx, key, data).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, key, flashTTL).Err()
}

// PopFlashes drains and returns all queued flash messages for flashID.
func (s *SessionManager) PopFlashes(flashID string) ([]Flash, error) {
	key := fmt.Sprintf("ap:flash:%s", flashID)
	pipe := s.rdb.TxPipeline()
	items := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	raw, err := items.Result()
	if err != nil {
		return nil, err
	}
	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			continue
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
