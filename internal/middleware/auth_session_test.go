package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	infraRepo "app/internal/infra/repository"
	"app/internal/session"
	"app/internal/token"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*session.Store, *token.Codec, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	codec := token.NewCodec(
		[]byte("0123456789abcdef0123456789abcdef"),
		900*time.Second,
		7*24*time.Hour,
		300*time.Second,
		clock,
	)
	store := session.NewStore(infraRepo.NewSessionMemoryRepository(), codec, clock)

	return store, codec, clock
}

func doAuthRequest(store *session.Store, bearer string, inner echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = AuthSession(store)(inner)(c)

	return rec
}

func TestAuthSession_ValidToken(t *testing.T) {
	store, codec, _ := newAuthFixture(t)

	sess, err := store.Create(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	pair, err := codec.Issue(token.Subject{UserID: "user-1", Role: "MEMBER"}, sess.ID)
	require.NoError(t, err)

	var gotUserID, gotRole, gotSessionID string
	rec := doAuthRequest(store, pair.AccessToken, func(c echo.Context) error {
		gotUserID, _ = c.Get(CtxUserIDKey).(string)
		gotRole, _ = c.Get(CtxUserRoleKey).(string)
		gotSessionID, _ = c.Get(CtxSessionIDKey).(string)
		return c.NoContent(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotUserID)
	assert.Equal(t, "MEMBER", gotRole)
	assert.Equal(t, sess.ID, gotSessionID)
	assert.Empty(t, rec.Header().Get("X-Token-Refresh"))
}

func TestAuthSession_MissingToken(t *testing.T) {
	store, _, _ := newAuthFixture(t)

	rec := doAuthRequest(store, "", func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body authErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(token.KindMalformed), body.Kind)
}

func TestAuthSession_ExpiredToken(t *testing.T) {
	store, codec, clock := newAuthFixture(t)

	sess, err := store.Create(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	pair, err := codec.Issue(token.Subject{UserID: "user-1"}, sess.ID)
	require.NoError(t, err)

	clock.Advance(901 * time.Second)

	rec := doAuthRequest(store, pair.AccessToken, func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body authErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(token.KindExpired), body.Kind)
	assert.Contains(t, body.Detail, "refresh required")
}

func TestAuthSession_RevokedSession(t *testing.T) {
	store, codec, _ := newAuthFixture(t)

	sess, err := store.Create(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	pair, err := codec.Issue(token.Subject{UserID: "user-1"}, sess.ID)
	require.NoError(t, err)

	require.NoError(t, store.Revoke(context.Background(), sess.ID))

	rec := doAuthRequest(store, pair.AccessToken, func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body authErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(session.KindNotFound), body.Kind)
	assert.Contains(t, body.Detail, "re-login")
}

func TestAuthSession_RefreshTokenRejected(t *testing.T) {
	store, codec, _ := newAuthFixture(t)

	sess, err := store.Create(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	pair, err := codec.Issue(token.Subject{UserID: "user-1"}, sess.ID)
	require.NoError(t, err)

	//refreshトークンではAPIを呼べない
	rec := doAuthRequest(store, pair.RefreshToken, func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSession_NearExpirySetsRefreshHeader(t *testing.T) {
	store, codec, clock := newAuthFixture(t)

	sess, err := store.Create(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	pair, err := codec.Issue(token.Subject{UserID: "user-1"}, sess.ID)
	require.NoError(t, err)

	clock.Advance(890 * time.Second)

	var needsRefresh bool
	rec := doAuthRequest(store, pair.AccessToken, func(c echo.Context) error {
		needsRefresh, _ = c.Get(CtxNeedsRefreshKey).(bool)
		return c.NoContent(http.StatusOK)
	})

	//まだ通るが、refreshを勧める
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "recommended", rec.Header().Get("X-Token-Refresh"))
	assert.True(t, needsRefresh)
}

func TestAuthSession_CookieFallback(t *testing.T) {
	store, codec, _ := newAuthFixture(t)

	sess, err := store.Create(context.Background(), "user-1", "", "")
	require.NoError(t, err)
	pair, err := codec.Issue(token.Subject{UserID: "user-1"}, sess.ID)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: pair.AccessToken})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = AuthSession(store)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoleGuard(t *testing.T) {
	e := echo.New()

	run := func(role string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != "" {
			c.Set(CtxUserRoleKey, role)
		}

		_ = AdminRoleGuard()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})(c)

		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run("ADMIN"))
	assert.Equal(t, http.StatusForbidden, run("MEMBER"))
	//roleがcontextに無い＝認証を通っていない
	assert.Equal(t, http.StatusUnauthorized, run(""))
}
