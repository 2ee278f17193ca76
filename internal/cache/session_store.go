package cache

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cnadmin/internal/session"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const sessionKeyPrefix = "login:session:"

//go:embed session_store.lua
var setScript string

var setAttribute = redis.NewScript(setScript)

// SessionStore keeps token sessions as Redis hashes, one field per attribute.
// The hash expires ttl after the session is first written.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Build cache key for a token session
func SessionKey(token string) string {
	return sessionKeyPrefix + token
}

func (s *SessionStore) Get(ctx context.Context, token, key string) (*session.LoginUser, error) {
	val, err := s.client.HGet(ctx, SessionKey(token), key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var user *session.LoginUser
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", key, err)
	}
	return user, nil
}

// Set writes an attribute, creating the session if needed.
func (s *SessionStore) Set(ctx context.Context, token, key string, user *session.LoginUser) error {
	_, err := s.write(ctx, token, key, user, false)
	return err
}

// Update writes an attribute of an existing session. It returns
// session.ErrNotFound when the session has expired or was removed.
func (s *SessionStore) Update(ctx context.Context, token, key string, user *session.LoginUser) error {
	written, err := s.write(ctx, token, key, user, true)
	if err != nil {
		return err
	}
	if !written {
		return session.ErrNotFound
	}
	return nil
}

func (s *SessionStore) write(ctx context.Context, token, key string, user *session.LoginUser, mustExist bool) (bool, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return false, err
	}

	flag := 0
	if mustExist {
		flag = 1
	}
	res, err := setAttribute.Run(ctx, s.client, []string{SessionKey(token)},
		key, data, s.ttl.Milliseconds(), flag).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// Delete removes a session. It returns session.ErrNotFound when there was none.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	removed, err := s.client.Del(ctx, SessionKey(token)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return session.ErrNotFound
	}
	return nil
}

// List returns the user stored under key in every live session. Unreadable entries are skipped.
func (s *SessionStore) List(ctx context.Context, key string) ([]*session.LoginUser, error) {
	var users []*session.LoginUser

	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		token := strings.TrimPrefix(iter.Val(), sessionKeyPrefix)
		user, err := s.Get(ctx, token, key)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logrus.WithError(err).WithField("key", iter.Val()).Warn("Skipping unreadable session")
			}
			continue
		}
		if user != nil {
			users = append(users, user)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
