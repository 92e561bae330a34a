package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminhandler "hacklabconnect/internal/admin/handler"
	adminservice "hacklabconnect/internal/admin/service"
	adminstore "hacklabconnect/internal/admin/store"
	"hacklabconnect/internal/authz"
	badgeshandler "hacklabconnect/internal/badges/handler"
	communitieshandler "hacklabconnect/internal/communities/handler"
	communitiesservice "hacklabconnect/internal/communities/service"
	communitiesstore "hacklabconnect/internal/communities/store"
	"hacklabconnect/internal/events"
	gamificationhandler "hacklabconnect/internal/gamification/handler"
	gamificationservice "hacklabconnect/internal/gamification/service"
	gamificationstore "hacklabconnect/internal/gamification/store"
	notificationshandler "hacklabconnect/internal/notifications/handler"
	notificationsservice "hacklabconnect/internal/notifications/service"
	notificationsstore "hacklabconnect/internal/notifications/store"
	"hacklabconnect/internal/platform/metrics"
	"hacklabconnect/internal/posts/adapters"
	postshandler "hacklabconnect/internal/posts/handler"
	postsservice "hacklabconnect/internal/posts/service"
	postsstore "hacklabconnect/internal/posts/store"
	resourceshandler "hacklabconnect/internal/resources/handler"
	resourcesservice "hacklabconnect/internal/resources/service"
	resourcesstore "hacklabconnect/internal/resources/store"
	"hacklabconnect/internal/session"
	transport "hacklabconnect/internal/transport/http"
	usershandler "hacklabconnect/internal/users/handler"
	usersservice "hacklabconnect/internal/users/service"
	usersstore "hacklabconnect/internal/users/store"
	id "hacklabconnect/pkg/domain"
	"hacklabconnect/pkg/testutil"
)

// app assembles the full pipeline over in-memory stores, mirroring the
// production wiring in cmd/server.
type app struct {
	srv   *httptest.Server
	users *usersservice.Service
}

func newApp(t *testing.T) *app {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	m := metrics.NewWith(prometheus.NewRegistry())

	users := usersservice.New(usersstore.NewInMemory(), logger, m)
	gate := authz.NewGate(users)
	sessions := session.NewService(session.NewInMemoryStore(), "router-test-key", time.Hour, 10*time.Minute)

	notifications := notificationsservice.New(notificationsstore.NewInMemory(), events.NewInMemoryOutbox(), logger, m)
	gamification := gamificationservice.New(gamificationstore.NewInMemory(), nil, logger, m)
	communities := communitiesservice.New(communitiesstore.NewInMemory(), notifications, logger)
	posts := postsservice.New(postsstore.NewInMemory(), gamification, notifications, adapters.NewUserProfiles(users), logger, m)
	resources := resourcesservice.New(resourcesstore.NewInMemory())
	admin := adminservice.New(adminstore.NewInMemory(), users, sessions, logger)

	router := transport.NewRouter(logger, m, sessions,
		usershandler.New(users, sessions, gate, logger),
		communitieshandler.New(communities, gate, logger),
		postshandler.New(posts, gate, logger),
		resourceshandler.New(resources, gate, logger),
		notificationshandler.New(notifications, gate, logger),
		gamificationhandler.New(gamification, gate, logger),
		badgeshandler.New(),
		adminhandler.New(admin, gate, logger),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &app{srv: srv, users: users}
}

func (a *app) login(t *testing.T, email string) (string, id.UserID) {
	t.Helper()

	resp := testutil.DoJSON(t, a.srv.Client(), http.MethodPost, a.srv.URL+"/auth/login", "",
		map[string]string{"email": email})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Token string `json:"token"`
		User  struct {
			ID id.UserID `json:"id"`
		} `json:"user"`
	}
	testutil.ReadEnvelope(t, resp).Field(t, "session", &payload)
	require.NotEmpty(t, payload.Token)
	return payload.Token, payload.User.ID
}

func (a *app) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	return testutil.DoJSON(t, a.srv.Client(), method, a.srv.URL+path, token, body)
}

func TestHealthz(t *testing.T) {
	a := newApp(t)

	resp := a.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	testutil.Decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestLoginSetsCookieAndResolvesIdentity(t *testing.T) {
	a := newApp(t)

	resp := a.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "ada@hacklab.dev"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	assert.True(t, sessionCookie.HttpOnly)

	var payload struct {
		Token string `json:"token"`
		User  struct {
			ID          id.UserID `json:"id"`
			DisplayName string    `json:"displayName"`
		} `json:"user"`
	}
	testutil.ReadEnvelope(t, resp).Field(t, "session", &payload)
	assert.Equal(t, "ada", payload.User.DisplayName)

	// The bearer token resolves on a later request.
	resp = a.do(t, http.MethodGet, "/users/me/settings", payload.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestAnonymousGetsUnauthorized(t *testing.T) {
	a := newApp(t)

	resp := a.do(t, http.MethodPost, "/communities", "", map[string]string{"name": "Robotics"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env := testutil.ReadEnvelope(t, resp)
	assert.Contains(t, env, "error")
	assert.NotContains(t, env, "community")
}

func TestNonAdminForbiddenOnAdminRoutes(t *testing.T) {
	a := newApp(t)
	token, _ := a.login(t, "member@hacklab.dev")

	resp := a.do(t, http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestAdminFlagIsReadPerRequest(t *testing.T) {
	a := newApp(t)
	token, userID := a.login(t, "ops@hacklab.dev")

	require.NoError(t, a.users.SetAdmin(context.Background(), userID, true))
	resp := a.do(t, http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Revoking the flag takes effect on the very next request, same session.
	require.NoError(t, a.users.SetAdmin(context.Background(), userID, false))
	resp = a.do(t, http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestValidationFailureDoesNotMutate(t *testing.T) {
	a := newApp(t)
	token, _ := a.login(t, "ada@hacklab.dev")

	resp := a.do(t, http.MethodPost, "/communities", token, map[string]string{"description": "no name"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := testutil.ReadEnvelope(t, resp)
	assert.Contains(t, env, "error")

	resp = a.do(t, http.MethodGet, "/communities", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var communities []struct{}
	testutil.ReadEnvelope(t, resp).Field(t, "communities", &communities)
	assert.Empty(t, communities)
}

func TestJoinIsIdempotentOverHTTP(t *testing.T) {
	a := newApp(t)
	ownerToken, _ := a.login(t, "owner@hacklab.dev")
	memberToken, _ := a.login(t, "member@hacklab.dev")

	resp := a.do(t, http.MethodPost, "/communities", ownerToken, map[string]string{"name": "Robotics"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var community struct {
		ID id.CommunityID `json:"id"`
	}
	testutil.ReadEnvelope(t, resp).Field(t, "community", &community)

	memberPath := "/communities/" + community.ID.String() + "/members"

	resp = a.do(t, http.MethodPost, memberPath, memberToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPost, memberPath, memberToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, memberPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var members []struct{}
	testutil.ReadEnvelope(t, resp).Field(t, "members", &members)
	assert.Len(t, members, 2)
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	a := newApp(t)
	authorToken, _ := a.login(t, "author@hacklab.dev")
	readerToken, _ := a.login(t, "reader@hacklab.dev")

	resp := a.do(t, http.MethodPost, "/communities", authorToken, map[string]string{"name": "Robotics"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var community struct {
		ID id.CommunityID `json:"id"`
	}
	testutil.ReadEnvelope(t, resp).Field(t, "community", &community)

	resp = a.do(t, http.MethodPost, "/posts", authorToken, map[string]string{
		"communityId": community.ID.String(),
		"title":       "Servo calibration notes",
		"content":     "Calibrate before every demo.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post struct {
		ID id.PostID `json:"id"`
	}
	testutil.ReadEnvelope(t, resp).Field(t, "post", &post)

	likePath := "/posts/" + post.ID.String() + "/likes"

	resp = a.do(t, http.MethodPost, likePath, readerToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodPost, likePath, readerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodGet, likePath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var likes int
	testutil.ReadEnvelope(t, resp).Field(t, "likes", &likes)
	assert.Equal(t, 1, likes)

	resp = a.do(t, http.MethodPost, "/posts/"+post.ID.String()+"/comments", readerToken,
		map[string]string{"content": "Which servos?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Only the author or an admin may remove the post.
	resp = a.do(t, http.MethodDelete, "/posts/"+post.ID.String(), readerToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = a.do(t, http.MethodDelete, "/posts/"+post.ID.String(), authorToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var removed bool
	testutil.ReadEnvelope(t, resp).Field(t, "removed", &removed)
	assert.True(t, removed)

	resp = a.do(t, http.MethodGet, "/posts/"+post.ID.String(), "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestResourceUploadsAreNotDeduplicated(t *testing.T) {
	a := newApp(t)
	token, _ := a.login(t, "ada@hacklab.dev")

	resp := a.do(t, http.MethodPost, "/communities", token, map[string]string{"name": "Robotics"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var community struct {
		ID id.CommunityID `json:"id"`
	}
	testutil.ReadEnvelope(t, resp).Field(t, "community", &community)

	payload := map[string]string{
		"communityId": community.ID.String(),
		"title":       "Soldering guide",
		"category":    "guide",
		"url":         "https://hacklab.dev/soldering.pdf",
	}

	var ids []string
	for range 2 {
		resp = a.do(t, http.MethodPost, "/resources", token, payload)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var resource struct {
			ID id.ResourceID `json:"id"`
		}
		testutil.ReadEnvelope(t, resp).Field(t, "resource", &resource)
		ids = append(ids, resource.ID.String())
	}
	assert.NotEqual(t, ids[0], ids[1])

	// Neither url nor fileRef is a validation failure.
	resp = a.do(t, http.MethodPost, "/resources", token, map[string]string{
		"communityId": community.ID.String(),
		"title":       "Broken",
		"category":    "guide",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestDeleteMissingResourceIsNotFound(t *testing.T) {
	a := newApp(t)
	token, _ := a.login(t, "ada@hacklab.dev")

	resp := a.do(t, http.MethodDelete, "/resources/"+uuid.NewString(), token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestBadgeSVGRoute(t *testing.T) {
	a := newApp(t)

	resp := a.do(t, http.MethodGet, "/badges/svg?label=Jane+Doe&color=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Cache-Control"), "immutable")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(body), ">JD<")

	resp = a.do(t, http.MethodGet, "/badges/svg", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
