package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orderdesk-bot/internal/bot"

	"github.com/redis/go-redis/v9"
)

// Redis-backed session store. Sessions expire after the configured TTL,
// which doubles as the idle-session cleanup the in-memory backend lacks.

type SessionStorage struct {
	client *redis.Client
	ttl    time.Duration
}

var _ bot.SessionStore = (*SessionStorage)(nil)

func New(addr, password string, db int, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			PoolSize:     100,
			MinIdleConns: 10,
		}),
		ttl: ttl,
	}
}

func (s *SessionStorage) Get(ctx context.Context, chatID int64) (bot.Session, bool, error) {
	data, err := s.client.Get(ctx, buildSessionKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return bot.Session{}, false, nil
	}
	if err != nil {
		return bot.Session{}, false, fmt.Errorf("get session: %w", err)
	}

	var session bot.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return bot.Session{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, true, nil
}

func (s *SessionStorage) Set(ctx context.Context, chatID int64, session bot.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, buildSessionKey(chatID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, buildSessionKey(chatID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *SessionStorage) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

func buildSessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}
