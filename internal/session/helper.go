package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cnadmin/internal/iputil"
	"cnadmin/internal/logctx"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// tokenKey holds the token of the current request once resolved or issued.
const tokenKey = "LOGIN_TOKEN"

var ErrNotLoggedIn = errors.New("not logged in")

// TokenIssuer issues tokens bound to a user id and validates them later.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
	Validate(token string) (int64, error)
}

// Helper runs the login user lifecycle on top of a request store (the gin
// context) and a durable Store.
type Helper struct {
	tokens  TokenIssuer
	store   Store
	locator iputil.Locator
	header  string
	now     func() time.Time
}

type Option func(*Helper)

// WithTokenHeader sets the request header the token is read from. Default "Authorization".
func WithTokenHeader(name string) Option {
	return func(h *Helper) {
		if name != "" {
			h.header = name
		}
	}
}

// WithClock replaces time.Now for login timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Helper) {
		h.now = now
	}
}

func NewHelper(tokens TokenIssuer, store Store, locator iputil.Locator, opts ...Option) *Helper {
	h := &Helper{
		tokens:  tokens,
		store:   store,
		locator: locator,
		header:  "Authorization",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Login records client metadata on user, issues a token for it and stores it in
// both tiers. A nil user is ignored.
func (h *Helper) Login(c *gin.Context, user *LoginUser) error {
	if user == nil {
		return nil
	}

	client := h.ClientInfo(c)
	user.ClientIP = client.IP
	user.Location = client.Location
	user.Browser = client.Browser
	if lc, ok := logctx.Get(c); ok && !lc.CreateTime.IsZero() {
		user.LoginTime = lc.CreateTime
	} else {
		user.LoginTime = h.now()
	}

	token, err := h.tokens.Issue(user.UserID)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	user.Token = token
	c.Set(tokenKey, token)

	if err := h.cache(c).save(requestContext(c), token, user); err != nil {
		return fmt.Errorf("store login user: %w", err)
	}
	return nil
}

// ClientInfo describes the client behind the request.
type ClientInfo struct {
	IP       string
	Location string
	Browser  string
}

func (h *Helper) ClientInfo(c *gin.Context) ClientInfo {
	ip := c.ClientIP()
	return ClientInfo{
		IP:       ip,
		Location: h.locator.Locate(ip),
		Browser:  iputil.Browser(c.Request.UserAgent()),
	}
}

// LoginUser returns the current login user or nil. Lookup failures are
// reported as absence.
func (h *Helper) LoginUser(c *gin.Context) *LoginUser {
	user, err := h.cache(c).load(requestContext(c), func() (string, error) {
		return h.currentToken(c)
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrNotLoggedIn) {
			logrus.WithError(err).Warn("Failed to load login user")
		}
		return nil
	}
	return user
}

// UpdateLoginUser overwrites the current login user in both tiers. A session
// that was logged out, kicked out or expired is not recreated.
func (h *Helper) UpdateLoginUser(c *gin.Context, user *LoginUser) error {
	token, err := h.currentToken(c)
	if err != nil {
		return err
	}
	if err := h.cache(c).update(requestContext(c), token, user); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.Set(LoginUserKey, nil)
			return ErrNotLoggedIn
		}
		return err
	}
	return nil
}

// Logout drops the current session from both tiers.
func (h *Helper) Logout(c *gin.Context) error {
	token, err := h.currentToken(c)
	if err != nil {
		return err
	}
	err = h.cache(c).clear(requestContext(c), token)
	c.Set(tokenKey, "")
	if errors.Is(err, ErrNotFound) {
		return ErrNotLoggedIn
	}
	return err
}

// Kickout removes another session by its token. It returns ErrNotFound when
// no such session is live.
func (h *Helper) Kickout(ctx context.Context, token string) error {
	return h.store.Delete(ctx, token)
}

// OnlineUsers lists every live session in the durable store.
func (h *Helper) OnlineUsers(ctx context.Context) ([]*LoginUser, error) {
	return h.store.List(ctx, LoginUserKey)
}

func (h *Helper) UserID(c *gin.Context) (int64, bool) {
	user := h.LoginUser(c)
	if user == nil {
		return 0, false
	}
	return user.UserID, true
}

func (h *Helper) Username(c *gin.Context) string {
	if user := h.LoginUser(c); user != nil {
		return user.Username
	}
	return ""
}

func (h *Helper) Nickname(c *gin.Context) string {
	if user := h.LoginUser(c); user != nil {
		return user.Nickname
	}
	return ""
}

// Token returns the raw token carried by the request, without validating it.
func (h *Helper) Token(c *gin.Context) string {
	if v, ok := c.Get(tokenKey); ok {
		if token, _ := v.(string); token != "" {
			return token
		}
	}
	if c.Request == nil {
		return ""
	}
	value := strings.TrimSpace(c.GetHeader(h.header))
	if len(value) > 7 && strings.EqualFold(value[:7], "Bearer ") {
		value = strings.TrimSpace(value[7:])
	}
	return value
}

// currentToken resolves and validates the request token.
func (h *Helper) currentToken(c *gin.Context) (string, error) {
	token := h.Token(c)
	if token == "" {
		return "", ErrNotLoggedIn
	}
	if _, err := h.tokens.Validate(token); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotLoggedIn, err)
	}
	c.Set(tokenKey, token)
	return token, nil
}

func (h *Helper) cache(c *gin.Context) tiers {
	return tiers{request: ginStore{c}, durable: h.store}
}

// ginStore keeps request-tier values in the gin context key map.
type ginStore struct {
	c *gin.Context
}

func (s ginStore) Get(key string) (any, bool) {
	return s.c.Get(key)
}

func (s ginStore) Set(key string, value any) {
	s.c.Set(key, value)
}

func requestContext(c *gin.Context) context.Context {
	if c.Request != nil {
		return c.Request.Context()
	}
	return context.Background()
}
