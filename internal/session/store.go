package session

import (
	"context"
	"errors"

	"cnadmin/internal/observability"
)

// LoginUserKey is the attribute name a login user is stored under, in both tiers.
const LoginUserKey = "LOGIN_USER"

// ErrNotFound is returned by a Store when no session exists for a token.
var ErrNotFound = errors.New("session not found")

// RequestStore is storage bounded by one inbound request.
type RequestStore interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// Store is the durable, token-keyed session store.
type Store interface {
	Get(ctx context.Context, token, key string) (*LoginUser, error)
	Set(ctx context.Context, token, key string, user *LoginUser) error
	// Update writes only to a session that still exists, else ErrNotFound.
	Update(ctx context.Context, token, key string, user *LoginUser) error
	// Delete returns ErrNotFound when no session existed.
	Delete(ctx context.Context, token string) error
	List(ctx context.Context, key string) ([]*LoginUser, error)
}

// tiers is a write-through cache: the request store in front of the durable store.
type tiers struct {
	request RequestStore
	durable Store
}

func (t tiers) cached() (*LoginUser, bool) {
	v, ok := t.request.Get(LoginUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*LoginUser)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// load checks the request tier, then the durable tier, backfilling the request
// tier on a durable hit. token is only resolved when the request tier misses.
func (t tiers) load(ctx context.Context, token func() (string, error)) (*LoginUser, error) {
	if user, ok := t.cached(); ok {
		observability.CacheHit("login_user_request")
		return user, nil
	}
	observability.CacheMiss("login_user_request")

	tok, err := token()
	if err != nil {
		return nil, err
	}
	user, err := t.durable.Get(ctx, tok, LoginUserKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			observability.CacheMiss("login_user_session")
		}
		return nil, err
	}
	if user == nil {
		observability.CacheMiss("login_user_session")
		return nil, ErrNotFound
	}
	observability.CacheHit("login_user_session")
	t.request.Set(LoginUserKey, user)
	return user, nil
}

func (t tiers) save(ctx context.Context, token string, user *LoginUser) error {
	t.request.Set(LoginUserKey, user)
	return t.durable.Set(ctx, token, LoginUserKey, user)
}

// update writes through to a live durable session; the request tier follows
// only once the durable write succeeded.
func (t tiers) update(ctx context.Context, token string, user *LoginUser) error {
	if err := t.durable.Update(ctx, token, LoginUserKey, user); err != nil {
		return err
	}
	t.request.Set(LoginUserKey, user)
	return nil
}

func (t tiers) clear(ctx context.Context, token string) error {
	t.request.Set(LoginUserKey, nil)
	return t.durable.Delete(ctx, token)
}
