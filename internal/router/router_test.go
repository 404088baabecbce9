package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"pm-go/internal/handler"
	"pm-go/internal/models"
	"pm-go/internal/session"
	"pm-go/internal/testutil"
	"pm-go/internal/utils"
	"pm-go/pkg/redis_limiter"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

func newTestServer(t *testing.T, limiter handler.LoginLimiter) *testServer {
	t.Helper()
	cfg := testutil.TestConfig()
	db := testutil.NewTestDB(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := session.NewMemoryStore(cfg.Session.GetTTL())
	sessions := session.NewManager(store, utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Algorithm, cfg.Session.GetTTL()))

	engine, err := SetupRouter(cfg, sessions, logger, db, limiter)
	require.NoError(t, err)
	return &testServer{t: t, db: db, engine: engine}
}

func (s *testServer) do(method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

// login registers username (if needed) and returns its session cookie
func (s *testServer) login(username, role string) *http.Cookie {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/register", map[string]string{
		"username": username,
		"password": "pw-" + username,
		"email":    username + "@example.com",
		"name":     "Name " + username,
		"role":     role,
	}, nil)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": "pw-" + username,
	}, nil)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	s.t.Fatalf("login for %s set no session cookie", username)
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) count(model interface{}) int64 {
	s.t.Helper()
	var n int64
	require.NoError(s.t, s.db.Model(model).Count(&n).Error)
	return n
}

func (s *testServer) createClientAndTeam(cookie *http.Cookie) (clientID, teamID float64) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/clients", map[string]interface{}{"name": "Acme", "contact_info": "acme@example.com"}, cookie)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	clientID = decode(s.t, rec)["id"].(float64)

	rec = s.do(http.MethodPost, "/api/teams", map[string]interface{}{"name": fmt.Sprintf("Team %v", clientID)}, cookie)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	teamID = decode(s.t, rec)["id"].(float64)
	return clientID, teamID
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	s := newTestServer(t, nil)

	cases := []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodPost, "/api/teams", map[string]string{"name": "Alpha"}},
		{http.MethodGet, "/api/teams", nil},
		{http.MethodPost, "/api/clients", map[string]string{"name": "Acme"}},
		{http.MethodPost, "/api/projects", map[string]interface{}{"name": "P", "status": "Pending", "client_id": 1, "team_id": 1}},
		{http.MethodPut, "/api/projects/1", map[string]string{"status": "Done"}},
		{http.MethodDelete, "/api/clients/1", nil},
		{http.MethodPost, "/api/tasks", map[string]interface{}{"name": "T", "status": "To Do", "project_id": 1}},
		{http.MethodPost, "/api/teams/1/members", map[string]interface{}{"user_id": 1}},
		{http.MethodGet, "/api/profile", nil},
		{http.MethodGet, "/api/feedback", nil},
		{http.MethodDelete, "/api/users/1", nil},
	}
	for _, tc := range cases {
		rec := s.do(tc.method, tc.path, tc.body, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Authentication required", decode(t, rec)["message"])
	}

	// a forged cookie is no better than none
	rec := s.do(http.MethodPost, "/api/teams", map[string]string{"name": "Alpha"}, &http.Cookie{Name: "session", Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Zero(t, s.count(&models.Team{}))
	assert.Zero(t, s.count(&models.Client{}))
	assert.Zero(t, s.count(&models.Project{}))
	assert.Zero(t, s.count(&models.Task{}))
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.login("anna", "")

	rec := s.do(http.MethodPost, "/register", map[string]string{
		"username": "anna", "password": "x", "email": "other@example.com", "name": "Other",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Username already exists", decode(t, rec)["message"])

	rec = s.do(http.MethodPost, "/register", map[string]string{
		"username": "other", "password": "x", "email": "anna@example.com", "name": "Other",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already exists", decode(t, rec)["message"])

	rec = s.do(http.MethodPost, "/register", map[string]string{"username": "incomplete"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, creds := range []map[string]string{
		{"username": "anna", "password": "wrong"},
		{"username": "nobody", "password": "pw-anna"},
	} {
		rec = s.do(http.MethodPost, "/login", creds, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid username or password", decode(t, rec)["message"])
	}

	rec = s.do(http.MethodPost, "/login", map[string]string{"username": "anna"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/profile", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode(t, rec)
	assert.Equal(t, "anna", profile["username"])
	assert.Equal(t, "user", profile["role"])
	assert.Equal(t, []interface{}{}, profile["teams"])
	assert.EqualValues(t, 0, profile["tasks_assigned_count"])
	assert.NotContains(t, profile, "password_hash")

	rec = s.do(http.MethodPost, "/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successful", decode(t, rec)["message"])

	rec = s.do(http.MethodGet, "/api/profile", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTeamNameConflict(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.login("bruno", "")

	rec := s.do(http.MethodPost, "/api/teams", map[string]string{"name": "Alpha"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	team := decode(t, rec)
	assert.Equal(t, "Alpha", team["name"])
	assert.Equal(t, []interface{}{}, team["members"])
	assert.Equal(t, []interface{}{}, team["projects"])

	rec = s.do(http.MethodPost, "/api/teams", map[string]string{"name": "Alpha"}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, `Team with name "Alpha" already exists`, decode(t, rec)["message"])

	// a misspelled key changes nothing and is refused
	rec = s.do(http.MethodPut, fmt.Sprintf("/api/teams/%v", team["id"]), `{"nmae":"typo"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No data provided for update", decode(t, rec)["message"])

	rec = s.do(http.MethodGet, "/api/teams", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	teams := decodeList(t, rec)
	alphas := 0
	for _, tm := range teams {
		if tm["name"] == "Alpha" {
			alphas++
		}
	}
	assert.Equal(t, 1, alphas)
}

func TestProjectWithUnknownClient(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.login("carla", "")
	_, teamID := s.createClientAndTeam(cookie)

	rec := s.do(http.MethodPost, "/api/projects", map[string]interface{}{
		"name": "Ghost", "status": "Pending", "client_id": 999, "team_id": teamID,
	}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Client with id 999 not found", decode(t, rec)["message"])
	assert.Zero(t, s.count(&models.Project{}))

	rec = s.do(http.MethodPost, "/api/projects", map[string]interface{}{"name": "No refs"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["errors"])
	assert.Zero(t, s.count(&models.Project{}))
}

func TestProjectRoundTripOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.login("dario", "")
	clientID, teamID := s.createClientAndTeam(cookie)

	rec := s.do(http.MethodPost, "/api/projects", map[string]interface{}{
		"name":        "Website",
		"status":      "Pending",
		"client_id":   clientID,
		"team_id":     teamID,
		"deadline":    "2025-03-01T10:00:00Z",
		"description": nil,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	id := created["id"].(float64)
	assert.Nil(t, created["description"])
	assert.Contains(t, created, "description")

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/projects/%v", id), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode(t, rec))

	rec = s.do(http.MethodPut, fmt.Sprintf("/api/projects/%v", id), map[string]interface{}{"status": "Active"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)
	created["status"] = "Active"
	assert.Equal(t, created, updated)

	for _, body := range []string{"", "{}", "null", `{"nmae":"typo"}`} {
		rec = s.do(http.MethodPut, fmt.Sprintf("/api/projects/%v", id), body, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "No data provided for update", decode(t, rec)["message"], body)
	}
	rec = s.do(http.MethodPut, fmt.Sprintf("/api/projects/%v", id), `{"status":`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", decode(t, rec)["message"])

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/projects/%v/tasks", id), map[string]interface{}{"name": "Design", "status": "To Do"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	task := decode(t, rec)
	assert.Equal(t, "Website", task["project_name"])
	assert.Nil(t, task["assignee_name"])

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/tasks?project_id=%v", id), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	rec = s.do(http.MethodGet, "/api/projects?status=Active", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 1)

	rec = s.do(http.MethodGet, "/api/projects?client_id=abc", nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/projects/%v", id), nil, cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	assert.Zero(t, s.count(&models.Task{}))

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/projects/%v", id), nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", decode(t, rec)["message"])
}

func TestDeleteGuards(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.login("elena", "")
	clientID, teamID := s.createClientAndTeam(cookie)

	rec := s.do(http.MethodPost, "/api/projects", map[string]interface{}{
		"name": "Guarded", "status": "Pending", "client_id": clientID, "team_id": teamID,
	}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/clients/%v", clientID), nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot delete client. Client is linked to existing projects. Please reassign or delete those projects first.", decode(t, rec)["message"])

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/teams/%v", teamID), nil, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.EqualValues(t, 1, s.count(&models.Client{}))
	assert.EqualValues(t, 1, s.count(&models.Team{}))
	assert.EqualValues(t, 1, s.count(&models.Project{}))

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/clients/%v", clientID), nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["projects"], 1)
}

func TestTeamMembershipOverHTTP(t *testing.T) {
	s := newTestServer(t, nil)
	cookie := s.login("fabio", "")
	_, teamID := s.createClientAndTeam(cookie)

	rec := s.do(http.MethodGet, "/api/profile", nil, cookie)
	userID := decode(t, rec)["id"].(float64)

	path := fmt.Sprintf("/api/teams/%v/members", teamID)
	rec = s.do(http.MethodPost, path, map[string]interface{}{"user_id": userID}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "User added to team successfully", body["message"])
	members := body["team"].(map[string]interface{})["members"].([]interface{})
	require.Len(t, members, 1)
	assert.Equal(t, "fabio", members[0].(map[string]interface{})["username"])

	rec = s.do(http.MethodPost, path, map[string]interface{}{"user_id": userID}, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User is already a member of this team", decode(t, rec)["message"])

	rec = s.do(http.MethodGet, "/api/profile", nil, cookie)
	assert.Equal(t, []interface{}{teamID}, decode(t, rec)["teams"])

	rec = s.do(http.MethodDelete, fmt.Sprintf("%s/%v", path, userID), nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodDelete, fmt.Sprintf("%s/%v", path, userID), nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User is not a member of this team", decode(t, rec)["message"])
}

func TestFeedbackSubmission(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodPost, "/api/feedback", map[string]string{"subject": "Hello", "message": "Nice app"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	anon := decode(t, rec)
	assert.Nil(t, anon["user_id"])
	assert.Nil(t, anon["name"])
	assert.Nil(t, anon["email"])

	var row models.Feedback
	require.NoError(t, s.db.First(&row, uint(anon["id"].(float64))).Error)
	assert.Nil(t, row.UserID)
	assert.Nil(t, row.Name)
	assert.Nil(t, row.Email)

	rec = s.do(http.MethodPost, "/api/feedback", map[string]string{"subject": "Missing message"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	cookie := s.login("gina", "")
	rec = s.do(http.MethodPost, "/api/feedback", map[string]string{"subject": "Signed", "message": "From a user"}, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotNil(t, decode(t, rec)["user_id"])

	rec = s.do(http.MethodGet, "/api/feedback", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec), 2)
}

func TestDeleteUserRequiresAdmin(t *testing.T) {
	s := newTestServer(t, nil)
	userCookie := s.login("hugo", "")
	adminCookie := s.login("root", models.RoleAdmin)

	rec := s.do(http.MethodGet, "/api/profile", nil, userCookie)
	userID := decode(t, rec)["id"].(float64)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/users/%v", userID), nil, userCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/users/%v", userID), nil, adminCookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// every session of the deleted account ends with it
	rec = s.do(http.MethodGet, "/api/profile", nil, userCookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(http.MethodPost, "/api/clients", map[string]string{"name": "Ghost Co"}, userCookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, s.count(&models.Client{}))

	rec = s.do(http.MethodPost, "/api/feedback", map[string]string{"subject": "Still here?", "message": "hello"}, userCookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, decode(t, rec)["user_id"])

	rec = s.do(http.MethodPost, "/login", map[string]string{"username": "hugo", "password": "pw-hugo"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// the admin's own session is untouched
	rec = s.do(http.MethodGet, "/api/profile", nil, adminCookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/users", nil, adminCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeList(t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, "root", users[0]["username"])
	assert.NotContains(t, users[0], "email")
}

func TestPagesAndHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/dashboard", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login_page", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/login_page", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "login-form")

	cookie := s.login("ivo", "")
	for _, p := range pages {
		rec = s.do(http.MethodGet, p.path, nil, cookie)
		assert.Equal(t, http.StatusOK, rec.Code, p.path)
		assert.Contains(t, rec.Body.String(), "<h1>"+p.title+"</h1>", p.path)
	}

	rec = s.do(http.MethodGet, "/login_page", nil, cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.Version, decode(t, rec)["version"])

	rec = s.do(http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

// countingLimiter in-process stand-in for the redis limiter
type countingLimiter struct {
	mu     sync.Mutex
	max    int
	counts map[string]int
}

func (l *countingLimiter) Allow(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts[key] >= l.max {
		return redis_limiter.ErrLimitExceeded
	}
	return nil
}

func (l *countingLimiter) Hit(_ context.Context, key string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.counts[key]++
	return l.counts[key], nil
}

func (l *countingLimiter) Reset(_ context.Context, key string) {
	l.mu.Lock()
	delete(l.counts, key)
	l.mu.Unlock()
}

func TestLoginThrottling(t *testing.T) {
	limiter := &countingLimiter{max: 2, counts: map[string]int{}}
	s := newTestServer(t, limiter)
	s.login("jack", "")

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodPost, "/login", map[string]string{"username": "jack", "password": "nope"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := s.do(http.MethodPost, "/login", map[string]string{"username": "jack", "password": "pw-jack"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	limiter.Reset(context.Background(), "192.0.2.1")
	rec = s.do(http.MethodPost, "/login", map[string]string{"username": "jack", "password": "pw-jack"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
