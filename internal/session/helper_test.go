package session

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cnadmin/internal/logctx"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// fakeStore is an in-memory Store that counts calls.
type fakeStore struct {
	data    map[string]*LoginUser
	getErr  error
	setErr  error
	gets    int
	sets    int
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]*LoginUser{}}
}

func (s *fakeStore) Get(_ context.Context, token, key string) (*LoginUser, error) {
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	user, ok := s.data[token+"/"+key]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *fakeStore) Set(_ context.Context, token, key string, user *LoginUser) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[token+"/"+key] = user
	return nil
}

func (s *fakeStore) Update(ctx context.Context, token, key string, user *LoginUser) error {
	if !s.exists(token) {
		return ErrNotFound
	}
	return s.Set(ctx, token, key, user)
}

func (s *fakeStore) exists(token string) bool {
	for k := range s.data {
		if strings.HasPrefix(k, token+"/") {
			return true
		}
	}
	return false
}

func (s *fakeStore) Delete(_ context.Context, token string) error {
	s.deletes++
	if !s.exists(token) {
		return ErrNotFound
	}
	for k := range s.data {
		if strings.HasPrefix(k, token+"/") {
			delete(s.data, k)
		}
	}
	return nil
}

func (s *fakeStore) List(_ context.Context, key string) ([]*LoginUser, error) {
	var users []*LoginUser
	for k, u := range s.data {
		if strings.HasSuffix(k, "/"+key) {
			users = append(users, u)
		}
	}
	return users, nil
}

type fakeIssuer struct {
	issued   int
	issueErr error
}

func (f *fakeIssuer) Issue(userID int64) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.issued++
	return fmt.Sprintf("token-%d-%d", userID, f.issued), nil
}

func (f *fakeIssuer) Validate(token string) (int64, error) {
	if !strings.HasPrefix(token, "token-") {
		return 0, errors.New("bad token")
	}
	return 1, nil
}

type fakeLocator struct{}

func (fakeLocator) Locate(ip string) string {
	return "loc:" + ip
}

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestHelper(store Store, issuer TokenIssuer) *Helper {
	return NewHelper(issuer, store, fakeLocator{}, WithClock(func() time.Time { return fixedNow }))
}

// newRequest builds a fresh gin context, i.e. a new inbound request.
func newRequest(token string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.9:5555"
	req.Header.Set("User-Agent", chromeUA)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	c.Request = req
	return c
}

func TestLogin_PopulatesAndStoresUser(t *testing.T) {
	store := newFakeStore()
	h := newTestHelper(store, &fakeIssuer{})
	c := newRequest("")

	user := &LoginUser{UserID: 1, Username: "admin", Nickname: "Administrator"}
	require.NoError(t, h.Login(c, user))

	assert.Equal(t, "token-1-1", user.Token)
	assert.Equal(t, "203.0.113.9", user.ClientIP)
	assert.Equal(t, "loc:203.0.113.9", user.Location)
	assert.Equal(t, "Chrome 120.0.0.0", user.Browser)
	assert.Equal(t, fixedNow, user.LoginTime)

	got := h.LoginUser(c)
	require.NotNil(t, got)
	assert.NotEmpty(t, got.Token)
	assert.False(t, got.LoginTime.IsZero())
	assert.Same(t, user, got)

	assert.Equal(t, user, store.data["token-1-1/"+LoginUserKey])
	assert.Equal(t, 0, store.gets, "request tier should answer")
}

func TestLogin_PrefersLogContextTime(t *testing.T) {
	h := newTestHelper(newFakeStore(), &fakeIssuer{})
	c := newRequest("")
	requestStart := time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC)
	logctx.Set(c, &logctx.LogContext{RequestID: "req-1", CreateTime: requestStart})

	user := &LoginUser{UserID: 2}
	require.NoError(t, h.Login(c, user))

	assert.Equal(t, requestStart, user.LoginTime)
}

func TestLogin_NilLeavesSessionUnchanged(t *testing.T) {
	store := newFakeStore()
	issuer := &fakeIssuer{}
	h := newTestHelper(store, issuer)
	c := newRequest("")

	user := &LoginUser{UserID: 3, Username: "alice"}
	require.NoError(t, h.Login(c, user))
	setsBefore := store.sets

	require.NoError(t, h.Login(c, nil))

	assert.Equal(t, setsBefore, store.sets)
	assert.Equal(t, 1, issuer.issued)
	assert.Same(t, user, h.LoginUser(c))
}

func TestLogin_TokenIssueFailurePropagates(t *testing.T) {
	store := newFakeStore()
	h := newTestHelper(store, &fakeIssuer{issueErr: errors.New("signing key missing")})
	c := newRequest("")

	err := h.Login(c, &LoginUser{UserID: 4})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "signing key missing")
	assert.Equal(t, 0, store.sets)
	assert.Nil(t, h.LoginUser(c))
}

func TestLogin_StoreFailurePropagates(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("redis down")
	h := newTestHelper(store, &fakeIssuer{})

	err := h.Login(newRequest(""), &LoginUser{UserID: 5})

	assert.ErrorContains(t, err, "redis down")
}

func TestUpdateLoginUser_ThenReadReturnsRecord(t *testing.T) {
	store := newFakeStore()
	h := newTestHelper(store, &fakeIssuer{})
	c := newRequest("")
	require.NoError(t, h.Login(c, &LoginUser{UserID: 6, Nickname: "old"}))

	updated := &LoginUser{UserID: 6, Nickname: "new", Token: h.Token(c)}
	require.NoError(t, h.UpdateLoginUser(c, updated))

	assert.Equal(t, updated, h.LoginUser(c))
	assert.Equal(t, updated, store.data[h.Token(c)+"/"+LoginUserKey])

	// A later request sees the update through the durable store
	next := newRequest(h.Token(c))
	assert.Equal(t, "new", h.Nickname(next))
}

func TestUpdateLoginUser_NotLoggedIn(t *testing.T) {
	h := newTestHelper(newFakeStore(), &fakeIssuer{})

	err := h.UpdateLoginUser(newRequest(""), &LoginUser{UserID: 7})

	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestUpdateLoginUser_KickedOutSessionStaysGone(t *testing.T) {
	store := newFakeStore()
	h := newTestHelper(store, &fakeIssuer{})
	c := newRequest("")
	require.NoError(t, h.Login(c, &LoginUser{UserID: 1, Nickname: "a"}))
	token := h.Token(c)
	require.NoError(t, h.Kickout(context.Background(), token))

	next := newRequest(token)
	err := h.UpdateLoginUser(next, &LoginUser{UserID: 1, Nickname: "b", Token: token})

	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Nil(t, h.LoginUser(next))
	assert.Nil(t, h.LoginUser(newRequest(token)))
	assert.Empty(t, store.data)
}

func TestUpdateLoginUser_AfterLogout(t *testing.T) {
	store := newFakeStore()
	h := newTestHelper(store, &fakeIssuer{})
	c := newRequest("")
	require.NoError(t, h.Login(c, &LoginUser{UserID: 2}))
	token := h.Token(c)
	require.NoError(t, h.Logout(c))

	err := h.UpdateLoginUser(newRequest(token), &LoginUser{UserID: 2, Nickname: "back"})

	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Empty(t, store.data)
}

func TestLoginUser_BackfillsRequestTier(t *testing.T) {
	store := newFakeStore()
	stored := &LoginUser{UserID: 8, Username: "bob", Token: "token-8-1"}
	store.data["token-8-1/"+LoginUserKey] = stored
	h := newTestHelper(store, &fakeIssuer{})
	c := newRequest("token-8-1")

	first := h.LoginUser(c)
	second := h.LoginUser(c)

	assert.Equal(t, stored, first)
	assert.Equal(t, stored, second)
	assert.Equal(t, 1, store.gets, "second lookup must not hit the durable store")

	cached, ok := c.Get(LoginUserKey)
	require.True(t, ok)
	assert.Same(t, stored, cached)
}

func TestLoginUser_DurableFailureIsAbsence(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	h := newTestHelper(store, &fakeIssuer{})
	c := newRequest("token-9-1")
	// Request tier holds something unusable as well
	c.Set(LoginUserKey, "corrupt")

	assert.NotPanics(t, func() {
		assert.Nil(t, h.LoginUser(c))
	})
	assert.Equal(t, 1, store.gets)
}

func TestLoginUser_InvalidTokenSkipsDurableStore(t *testing.T) {
	store := newFakeStore()
	h := newTestHelper(store, &fakeIssuer{})

	assert.Nil(t, h.LoginUser(newRequest("forged")))
	assert.Equal(t, 0, store.gets)
}

func TestAccessors_NoSession(t *testing.T) {
	h := newTestHelper(newFakeStore(), &fakeIssuer{})
	c := newRequest("")

	userID, ok := h.UserID(c)
	assert.False(t, ok)
	assert.Zero(t, userID)
	assert.Empty(t, h.Username(c))
	assert.Empty(t, h.Nickname(c))
}

func TestAccessors_WithSession(t *testing.T) {
	h := newTestHelper(newFakeStore(), &fakeIssuer{})
	c := newRequest("")
	require.NoError(t, h.Login(c, &LoginUser{UserID: 10, Username: "carol", Nickname: "Carol"}))

	userID, ok := h.UserID(c)
	assert.True(t, ok)
	assert.Equal(t, int64(10), userID)
	assert.Equal(t, "carol", h.Username(c))
	assert.Equal(t, "Carol", h.Nickname(c))
}

func TestLogout_ClearsBothTiers(t *testing.T) {
	store := newFakeStore()
	h := newTestHelper(store, &fakeIssuer{})
	c := newRequest("")
	require.NoError(t, h.Login(c, &LoginUser{UserID: 11}))
	token := h.Token(c)

	require.NoError(t, h.Logout(c))

	assert.Nil(t, h.LoginUser(newRequest(token)))
	assert.Empty(t, store.data)
	assert.Equal(t, 1, store.deletes)
}

func TestToken_HeaderFormats(t *testing.T) {
	h := NewHelper(&fakeIssuer{}, newFakeStore(), fakeLocator{}, WithTokenHeader("X-Token"))

	c := newRequest("")
	c.Request.Header.Set("X-Token", "token-1-1")
	assert.Equal(t, "token-1-1", h.Token(c))

	c = newRequest("")
	c.Request.Header.Set("X-Token", "bearer token-2-1")
	assert.Equal(t, "token-2-1", h.Token(c))

	assert.Empty(t, h.Token(newRequest("")))
}

func TestOnlineUsersAndKickout(t *testing.T) {
	store := newFakeStore()
	h := newTestHelper(store, &fakeIssuer{})
	require.NoError(t, h.Login(newRequest(""), &LoginUser{UserID: 12}))
	c := newRequest("")
	require.NoError(t, h.Login(c, &LoginUser{UserID: 13}))

	users, err := h.OnlineUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, h.Kickout(context.Background(), h.Token(c)))

	users, err = h.OnlineUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(12), users[0].UserID)

	assert.ErrorIs(t, h.Kickout(context.Background(), h.Token(c)), ErrNotFound)
}

func TestLogout_ExpiredSession(t *testing.T) {
	store := newFakeStore()
	h := newTestHelper(store, &fakeIssuer{})
	c := newRequest("")
	require.NoError(t, h.Login(c, &LoginUser{UserID: 14}))
	delete(store.data, h.Token(c)+"/"+LoginUserKey)

	assert.ErrorIs(t, h.Logout(c), ErrNotLoggedIn)
}
