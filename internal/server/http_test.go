package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/swipe-api/internal/app"
	"github.com/oggyb/swipe-api/internal/server"
	"github.com/oggyb/swipe-api/internal/service/account"
	"github.com/oggyb/swipe-api/internal/service/discover"
	"github.com/oggyb/swipe-api/internal/service/match"
	"github.com/oggyb/swipe-api/internal/service/message"
	"github.com/oggyb/swipe-api/internal/service/profile"
	"github.com/oggyb/swipe-api/internal/service/swipe"
	"github.com/oggyb/swipe-api/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type client struct {
	t      *testing.T
	router http.Handler
}

func newClient(t *testing.T) (*client, *app.AppContext) {
	t.Helper()
	appCtx, _ := testutil.NewAppContext(t)
	auth := account.NewRegistrar(appCtx)
	t.Cleanup(auth.Close)

	router := server.NewRouter(appCtx,
		auth,
		profile.NewRegistrar(appCtx),
		discover.NewRegistrar(appCtx),
		swipe.NewRegistrar(appCtx),
		match.NewRegistrar(appCtx),
		message.NewRegistrar(appCtx),
	)
	return &client{t: t, router: router}, appCtx
}

func (c *client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (c *client) signup(email, gender string, lookingFor ...string) account.Session {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":             email,
		"password":          "password123",
		"name":              "User " + strings.SplitN(email, "@", 2)[0],
		"age":               28,
		"gender":            gender,
		"lookingForGenders": lookingFor,
	})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[account.Session](c.t, rec)
}

func TestHealth(t *testing.T) {
	c, appCtx := newClient(t)

	rec := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = c.do(http.MethodHead, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	sqlDB, err := appCtx.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec = c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	c, _ := newClient(t)

	rec := c.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	c, _ := newClient(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/users/discover"},
		{http.MethodPost, "/api/swipes"},
		{http.MethodGet, "/api/matches"},
		{http.MethodDelete, "/api/matches/x"},
		{http.MethodGet, "/api/messages/x"},
		{http.MethodGet, "/api/profile/me"},
	} {
		rec := c.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		assert.JSONEq(t, `{"error":"Authorization header missing"}`, rec.Body.String(), tc.path)
	}

	rec := c.do(http.MethodGet, "/api/users/discover", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, rec.Body.String())
}

func TestSignup_ValidationMessages(t *testing.T) {
	c, _ := newClient(t)

	rec := c.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":             "not-an-email",
		"password":          "password123",
		"name":              "X",
		"age":               30,
		"gender":            "Female",
		"lookingForGenders": []string{"Men"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"email must be a valid email"}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email":             "x@example.com",
		"password":          "password123",
		"name":              "X",
		"age":               30,
		"gender":            "Female",
		"lookingForGenders": []string{"Dogs"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRateLimit(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t)
	appCtx.Config.RateLimit.RPS = 0.001
	appCtx.Config.RateLimit.Burst = 2
	auth := account.NewRegistrar(appCtx)
	t.Cleanup(auth.Close)
	c := &client{t: t, router: server.NewRouter(appCtx, auth)}

	login := map[string]string{"email": "a@b.c", "password": "whatever"}
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/auth/login", "", login).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/auth/login", "", login).Code)

	rec := c.do(http.MethodPost, "/api/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, rec.Body.String())
}

// TestSwipeToMatchToUnmatch drives the whole flow over HTTP.
func TestSwipeToMatchToUnmatch(t *testing.T) {
	c, _ := newClient(t)
	alex := c.signup("alex@example.com", "Male", "Women")
	bea := c.signup("bea@example.com", "Female", "Men")
	c.signup("cara@example.com", "Female", "Women") // not interested in alex

	// discovery
	rec := c.do(http.MethodGet, "/api/users/discover?limit=10", alex.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	feed := decode[discover.Page](t, rec)
	require.Len(t, feed.Users, 1)
	assert.Equal(t, bea.User.ID, feed.Users[0].ID)
	assert.False(t, feed.HasMore)
	assert.NotContains(t, rec.Body.String(), "email")

	rec = c.do(http.MethodGet, "/api/users/discover?minAge=40&maxAge=30", alex.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// swipes
	rec = c.do(http.MethodPost, "/api/swipes", alex.Token, map[string]string{"swipedUserId": bea.User.ID, "direction": "right"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"match":false}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/swipes", alex.Token, map[string]string{"swipedUserId": bea.User.ID, "direction": "left"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Already swiped on this user"}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/swipes", alex.Token, map[string]string{"swipedUserId": "ghost", "direction": "left"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, "/api/users/discover", alex.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[discover.Page](t, rec).Users, "swiped candidates drop out")

	rec = c.do(http.MethodPost, "/api/swipes", bea.Token, map[string]string{"swipedUserId": alex.User.ID, "direction": "right"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[swipe.Result](t, rec)
	assert.True(t, res.Match)
	require.NotEmpty(t, res.MatchID)

	// matches
	rec = c.do(http.MethodGet, "/api/matches/unviewed/count", alex.Token, nil)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/matches/"+res.MatchID+"/view", alex.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/matches/unviewed/count", alex.Token, nil)
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())
	rec = c.do(http.MethodGet, "/api/matches/unviewed/count", bea.Token, nil)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/matches", bea.Token, nil)
	list := decode[match.ListResult](t, rec)
	require.Len(t, list.Matches, 1)
	assert.Equal(t, alex.User.ID, list.Matches[0].MatchedUser.ID)

	// messages
	rec = c.do(http.MethodPost, "/api/messages", bea.Token, map[string]string{"matchId": res.MatchID, "content": " hi alex "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sent := decode[struct{ Message message.View }](t, rec)
	assert.Equal(t, alex.User.ID, sent.Message.ReceiverID)
	assert.Equal(t, "hi alex", sent.Message.Content)

	rec = c.do(http.MethodPost, "/api/messages/"+res.MatchID+"/read", alex.Token, nil)
	assert.JSONEq(t, `{"updated":1}`, rec.Body.String())

	// unmatch
	rec = c.do(http.MethodDelete, "/api/matches/"+res.MatchID, alex.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/matches", bea.Token, nil)
	assert.Empty(t, decode[match.ListResult](t, rec).Matches)

	rec = c.do(http.MethodGet, "/api/messages/"+res.MatchID, bea.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, "/api/users/discover", alex.Token, nil)
	feed = decode[discover.Page](t, rec)
	require.Len(t, feed.Users, 1, "bea is discoverable again")
	assert.Equal(t, bea.User.ID, feed.Users[0].ID)
}

func TestProfileRoutes(t *testing.T) {
	c, _ := newClient(t)
	alex := c.signup("alex@example.com", "Male", "Everyone")

	rec := c.do(http.MethodPut, "/api/profile/me", alex.Token, map[string]any{"bio": "climber", "city": "Toronto"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/profile/"+alex.User.ID, alex.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pub := decode[struct{ User profile.PublicUser }](t, rec)
	assert.Equal(t, "climber", pub.User.Bio)
	assert.NotContains(t, rec.Body.String(), "alex@example.com")

	rec = c.do(http.MethodGet, "/api/profile/me", alex.Token, nil)
	assert.Contains(t, rec.Body.String(), "alex@example.com")

	rec = c.do(http.MethodPut, "/api/profile/me", alex.Token, map[string]any{"gender": "Robot"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
