package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"agencysite/docs"
	"agencysite/internal/auth"
	"agencysite/internal/config"
	apperrors "agencysite/internal/errors"
	"agencysite/internal/handler"
	"agencysite/internal/model"
	"agencysite/internal/repository"
	"agencysite/internal/service"
	"agencysite/internal/session"
)

type tokenSink struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (s *tokenSink) NotifyReset(_ context.Context, email, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[email] = token
	return nil
}

func (s *tokenSink) last(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[email]
}

func newTestServer(t *testing.T, rateLimit int) (*httptest.Server, *tokenSink) {
	t.Helper()

	e, sink := newTestEcho(t, rateLimit)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, sink
}

func newTestEcho(t *testing.T, rateLimit int) (*echo.Echo, *tokenSink) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{AppEnv: config.EnvDevelopment, LoginRateLimit: rateLimit, AdminBootstrap: true}

	store := repository.NewMemoryStorage()
	sm := session.New(session.NewMemoryStore(), 0, true)
	hasher := auth.NewHasher(auth.Params{N: 1024, R: 8, P: 1, KeyLen: 32, SaltLen: 16})
	sink := &tokenSink{tokens: map[string]string{}}

	authService := service.NewAuthService(store, hasher, auth.NewResetTokenIssuer("test-secret"), sink, true, logger)

	e := echo.New()
	err := Register(e, cfg, logger, sm, authService,
		handler.NewAuthHandler(authService, sm),
		handler.NewAdminUserHandler(service.NewAdminUserService(store)),
		handler.NewFormConfigHandler(service.NewFormConfigService(store)),
		handler.NewBlogHandler(service.NewBlogService(store)),
		handler.NewSubmissionHandler(service.NewSubmissionService(store, logger)),
	)
	require.NoError(t, err)
	return e, sink
}

// client is one browser: it keeps its own cookie jar.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body interface{}) (int, []byte) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, out
}

func (c *client) decode(raw []byte, v interface{}) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(raw, v), string(raw))
}

func adminBody(email string, role model.Role) map[string]interface{} {
	return map[string]interface{}{
		"email":     email,
		"password":  "longenough1",
		"firstName": "A",
		"lastName":  "B",
		"role":      role,
	}
}

func postBody(title string, published bool) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"excerpt":     "A short summary of the post.",
		"content":     "<p>" + strings.Repeat("words about social growth ", 20) + "</p>",
		"author":      "Agency Team",
		"category":    "Strategy",
		"tags":        []string{"growth"},
		"isPublished": published,
	}
}

func contactBody() map[string]interface{} {
	return map[string]interface{}{
		"fullName":     "Jane Doe",
		"businessName": "Doe Bakery",
		"email":        "jane@example.com",
		"phoneNumber":  "+15550001234",
		"budget":       "1000-2500",
		"message":      "We want more followers.",
	}
}

type RouterSuite struct {
	suite.Suite
	srv  *httptest.Server
	sink *tokenSink
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.srv, s.sink = newTestServer(s.T(), 1000)
}

// loggedIn creates an account (bootstrapping through the first call) and returns a client
// holding its session.
func (s *RouterSuite) loggedIn(root *client, email string, role model.Role) *client {
	status, raw := root.do(http.MethodPost, "/api/admin/create", adminBody(email, role))
	s.Require().Equal(http.StatusCreated, status, string(raw))

	c := newClient(s.T(), s.srv)
	status, raw = c.do(http.MethodPost, "/api/admin/login", map[string]string{"email": email, "password": "longenough1"})
	s.Require().Equal(http.StatusOK, status, string(raw))
	return c
}

func (s *RouterSuite) rootAdmin() *client {
	return s.loggedIn(newClient(s.T(), s.srv), "root@agency.test", model.RoleAdmin)
}

func (s *RouterSuite) TestEndToEnd_DraftStaysHiddenUntilPublished() {
	anon := newClient(s.T(), s.srv)

	status, raw := anon.do(http.MethodPost, "/api/admin/create", adminBody("a@b.com", model.RoleEditor))
	s.Require().Equal(http.StatusCreated, status, string(raw))
	var created handler.UserResponse
	anon.decode(raw, &created)
	s.Equal("a@b.com", created.User.Email)
	s.Equal(model.RoleEditor, created.User.Role)
	s.NotContains(string(raw), "password")

	editor := newClient(s.T(), s.srv)
	status, raw = editor.do(http.MethodPost, "/api/admin/login", map[string]string{"email": "a@b.com", "password": "longenough1"})
	s.Require().Equal(http.StatusOK, status, string(raw))

	status, raw = editor.do(http.MethodPost, "/api/admin/posts", postBody("Growing on Instagram", false))
	s.Require().Equal(http.StatusCreated, status, string(raw))
	var post model.BlogPost
	editor.decode(raw, &post)
	s.False(post.IsPublished)
	s.Nil(post.PublishedAt)
	s.Equal("growing-on-instagram", post.Slug)
	s.Equal("1 min read", post.ReadTime)

	status, raw = anon.do(http.MethodGet, "/api/blog/posts", nil)
	s.Require().Equal(http.StatusOK, status)
	var public []model.BlogPost
	anon.decode(raw, &public)
	s.Empty(public)

	status, _ = anon.do(http.MethodGet, "/api/blog/posts/growing-on-instagram", nil)
	s.Equal(http.StatusNotFound, status)

	status, raw = editor.do(http.MethodPut, "/api/admin/posts/"+post.ID.String(), map[string]bool{"isPublished": true})
	s.Require().Equal(http.StatusOK, status, string(raw))

	status, raw = anon.do(http.MethodGet, "/api/blog/posts", nil)
	s.Require().Equal(http.StatusOK, status)
	anon.decode(raw, &public)
	s.Require().Len(public, 1)
	s.Equal(post.ID, public[0].ID)
	s.NotNil(public[0].PublishedAt)

	status, _ = anon.do(http.MethodGet, "/api/blog/posts/growing-on-instagram", nil)
	s.Equal(http.StatusOK, status)
}

func (s *RouterSuite) TestRoleChecks() {
	root := s.rootAdmin()
	editor := s.loggedIn(root, "editor@agency.test", model.RoleEditor)
	forms := s.loggedIn(root, "forms@agency.test", model.RoleFormManager)

	tests := []struct {
		name   string
		c      *client
		path   string
		status int
	}{
		{"editor on forms", editor, "/api/admin/forms", http.StatusForbidden},
		{"editor on posts", editor, "/api/admin/posts", http.StatusOK},
		{"editor on users", editor, "/api/admin/users", http.StatusForbidden},
		{"form manager on forms", forms, "/api/admin/forms", http.StatusOK},
		{"form manager on posts", forms, "/api/admin/posts", http.StatusForbidden},
		{"admin on forms", root, "/api/admin/forms", http.StatusOK},
		{"admin on posts", root, "/api/admin/posts", http.StatusOK},
		{"admin on users", root, "/api/admin/users", http.StatusOK},
		{"editor on analytics", editor, "/api/admin/analytics/submissions", http.StatusOK},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			status, raw := tt.c.do(http.MethodGet, tt.path, nil)
			s.Equal(tt.status, status, string(raw))
		})
	}
}

func (s *RouterSuite) TestUnauthenticatedIsDistinctFromForbidden() {
	root := s.rootAdmin()
	editor := s.loggedIn(root, "editor@agency.test", model.RoleEditor)
	anon := newClient(s.T(), s.srv)

	status, raw := anon.do(http.MethodGet, "/api/admin/forms", nil)
	s.Equal(http.StatusUnauthorized, status)
	var body apperrors.ErrorResponse
	anon.decode(raw, &body)
	s.Equal("UNAUTHENTICATED", body.Code)

	status, raw = editor.do(http.MethodGet, "/api/admin/forms", nil)
	s.Equal(http.StatusForbidden, status)
	editor.decode(raw, &body)
	s.Equal("FORBIDDEN", body.Code)

	status, _ = anon.do(http.MethodGet, "/api/admin/me", nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *RouterSuite) TestLogoutEndsSession() {
	root := s.rootAdmin()

	status, _ := root.do(http.MethodGet, "/api/admin/me", nil)
	s.Require().Equal(http.StatusOK, status)

	status, _ = root.do(http.MethodPost, "/api/admin/logout", nil)
	s.Equal(http.StatusOK, status)

	status, _ = root.do(http.MethodGet, "/api/admin/me", nil)
	s.Equal(http.StatusUnauthorized, status)

	// Logging out again is harmless.
	status, _ = root.do(http.MethodPost, "/api/admin/logout", nil)
	s.Equal(http.StatusOK, status)
}

func (s *RouterSuite) TestLoginFailuresAreIndistinguishable() {
	root := s.rootAdmin()
	anon := newClient(s.T(), s.srv)

	_, wrongPassword := anon.do(http.MethodPost, "/api/admin/login", map[string]string{"email": "root@agency.test", "password": "wrong-password"})
	status, unknownEmail := anon.do(http.MethodPost, "/api/admin/login", map[string]string{"email": "nobody@agency.test", "password": "wrong-password"})
	s.Equal(http.StatusUnauthorized, status)
	s.JSONEq(string(wrongPassword), string(unknownEmail))

	status, _ = root.do(http.MethodGet, "/api/admin/me", nil)
	s.Equal(http.StatusOK, status)
}

func (s *RouterSuite) TestCreateAdmin_ClosedAfterBootstrap() {
	root := s.rootAdmin()
	anon := newClient(s.T(), s.srv)

	status, _ := anon.do(http.MethodPost, "/api/admin/create", adminBody("late@agency.test", model.RoleAdmin))
	s.Equal(http.StatusUnauthorized, status)

	editor := s.loggedIn(root, "editor@agency.test", model.RoleEditor)
	status, _ = editor.do(http.MethodPost, "/api/admin/create", adminBody("late@agency.test", model.RoleAdmin))
	s.Equal(http.StatusForbidden, status)

	status, raw := root.do(http.MethodPost, "/api/admin/create", adminBody("editor@agency.test", model.RoleEditor))
	s.Equal(http.StatusBadRequest, status)
	var body apperrors.ErrorResponse
	root.decode(raw, &body)
	s.Equal("ALREADY_EXISTS", body.Code)
}

func (s *RouterSuite) TestContactValidationNamesField() {
	anon := newClient(s.T(), s.srv)

	payload := contactBody()
	delete(payload, "email")
	status, raw := anon.do(http.MethodPost, "/api/contact", payload)
	s.Require().Equal(http.StatusBadRequest, status)

	var body apperrors.ErrorResponse
	anon.decode(raw, &body)
	s.Equal("VALIDATION_ERROR", body.Code)
	s.Require().NotEmpty(body.Details)
	fields := make([]string, 0, len(body.Details))
	for _, d := range body.Details {
		fields = append(fields, d.Field)
	}
	s.Contains(fields, "email")

	status, raw = anon.do(http.MethodPost, "/api/contact", contactBody())
	s.Equal(http.StatusCreated, status, string(raw))
	var created handler.CreatedResponse
	anon.decode(raw, &created)
	s.NotEmpty(created.ID)
}

func (s *RouterSuite) TestMalformedBodyAndID() {
	root := s.rootAdmin()

	req, err := http.NewRequest(http.MethodPost, s.srv.URL+"/api/contact", strings.NewReader("{not json"))
	s.Require().NoError(err)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	status, raw := root.do(http.MethodGet, "/api/admin/posts/not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, status)
	var body apperrors.ErrorResponse
	root.decode(raw, &body)
	s.Equal("INVALID_UUID", body.Code)

	status, _ = root.do(http.MethodGet, "/api/admin/posts/00000000-0000-0000-0000-000000000000", nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *RouterSuite) TestUpdateFormRejectsEmptyRecipients() {
	root := s.rootAdmin()

	status, raw := root.do(http.MethodPost, "/api/admin/forms", map[string]interface{}{
		"formName":        "contact",
		"displayName":     "Contact",
		"location":        "footer",
		"recipientEmails": []string{"sales@agency.test"},
	})
	s.Require().Equal(http.StatusCreated, status, string(raw))
	var created model.FormConfig
	root.decode(raw, &created)
	id := created.ID.String()

	status, raw = root.do(http.MethodPut, "/api/admin/forms/"+id, map[string]interface{}{
		"recipientEmails": []string{},
	})
	s.Require().Equal(http.StatusBadRequest, status, string(raw))
	var body apperrors.ErrorResponse
	root.decode(raw, &body)
	s.Equal("VALIDATION_ERROR", body.Code)
	s.Require().NotEmpty(body.Details)
	s.Equal("recipientEmails", body.Details[0].Field)

	status, raw = root.do(http.MethodGet, "/api/admin/forms/"+id, nil)
	s.Require().Equal(http.StatusOK, status)
	var form model.FormConfig
	root.decode(raw, &form)
	s.Equal([]string{"sales@agency.test"}, []string(form.RecipientEmails))
}

func (s *RouterSuite) TestAnalyticsCountsSubmissions() {
	root := s.rootAdmin()
	anon := newClient(s.T(), s.srv)

	status, _ := anon.do(http.MethodPost, "/api/contact", contactBody())
	s.Require().Equal(http.StatusCreated, status)
	status, raw := anon.do(http.MethodPost, "/api/talk-growth", map[string]interface{}{
		"fullName":        "Jane Doe",
		"businessName":    "Doe Bakery",
		"email":           "jane@example.com",
		"phoneNumber":     "+15550001234",
		"budget":          "under-1000",
		"socialPlatforms": []string{"instagram"},
		"growthGoals":     "Double our reach this year.",
	})
	s.Require().Equal(http.StatusCreated, status, string(raw))

	status, raw = root.do(http.MethodGet, "/api/admin/analytics/submissions", nil)
	s.Require().Equal(http.StatusOK, status)
	var stats model.SubmissionStats
	root.decode(raw, &stats)
	s.Equal(int64(2), stats.TotalSubmissions)
	s.Equal(int64(2), stats.RecentSubmissions)
}

func (s *RouterSuite) TestPasswordReset() {
	s.rootAdmin()
	anon := newClient(s.T(), s.srv)

	status, known := anon.do(http.MethodPost, "/api/admin/password-reset", map[string]string{"email": "root@agency.test"})
	s.Require().Equal(http.StatusOK, status)
	status, unknown := anon.do(http.MethodPost, "/api/admin/password-reset", map[string]string{"email": "ghost@agency.test"})
	s.Require().Equal(http.StatusOK, status)
	s.JSONEq(string(known), string(unknown))

	token := s.sink.last("root@agency.test")
	s.Require().NotEmpty(token)
	s.Empty(s.sink.last("ghost@agency.test"))

	confirm := map[string]string{"token": token, "newPassword": "brand-new-pass"}
	status, raw := anon.do(http.MethodPost, "/api/admin/password-reset/confirm", confirm)
	s.Require().Equal(http.StatusOK, status, string(raw))

	status, _ = anon.do(http.MethodPost, "/api/admin/password-reset/confirm", confirm)
	s.Equal(http.StatusBadRequest, status)

	status, _ = anon.do(http.MethodPost, "/api/admin/login", map[string]string{"email": "root@agency.test", "password": "longenough1"})
	s.Equal(http.StatusUnauthorized, status)
	status, _ = anon.do(http.MethodPost, "/api/admin/login", map[string]string{"email": "root@agency.test", "password": "brand-new-pass"})
	s.Equal(http.StatusOK, status)
}

func (s *RouterSuite) TestDeactivatedAdminLosesSession() {
	root := s.rootAdmin()
	editor := s.loggedIn(root, "editor@agency.test", model.RoleEditor)

	status, raw := editor.do(http.MethodGet, "/api/admin/me", nil)
	s.Require().Equal(http.StatusOK, status)
	var me handler.UserResponse
	editor.decode(raw, &me)

	status, raw = root.do(http.MethodPut, "/api/admin/users/"+me.User.ID.String(), map[string]bool{"isActive": false})
	s.Require().Equal(http.StatusOK, status, string(raw))

	status, _ = editor.do(http.MethodGet, "/api/admin/me", nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *RouterSuite) TestHealthAndUnknownRoute() {
	anon := newClient(s.T(), s.srv)

	status, _ := anon.do(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, status)

	status, raw := anon.do(http.MethodGet, "/api/nope", nil)
	s.Equal(http.StatusNotFound, status)
	var body apperrors.ErrorResponse
	anon.decode(raw, &body)
	s.Equal("NOT_FOUND", body.Code)
}

func TestLoginRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, 2)
	c := newClient(t, srv)

	creds := map[string]string{"email": "who@agency.test", "password": "whatever1"}
	for i := 0; i < 2; i++ {
		status, _ := c.do(http.MethodPost, "/api/admin/login", creds)
		require.Equal(t, http.StatusUnauthorized, status)
	}
	status, raw := c.do(http.MethodPost, "/api/admin/login", creds)
	require.Equal(t, http.StatusTooManyRequests, status)

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, "RATE_LIMITED", body.Code)

	// Other routes are not limited.
	status, _ = c.do(http.MethodGet, "/api/blog/posts", nil)
	require.Equal(t, http.StatusOK, status)
}

func TestSwaggerDocCoversAPIRoutes(t *testing.T) {
	e, _ := newTestEcho(t, 1000)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	n := 0
	for _, r := range e.Routes() {
		if !strings.HasPrefix(r.Path, "/api/") {
			continue
		}
		path := strings.TrimPrefix(r.Path, "/api")
		segs := strings.Split(path, "/")
		for i, seg := range segs {
			if strings.HasPrefix(seg, ":") {
				segs[i] = "{" + seg[1:] + "}"
			}
		}
		path = strings.Join(segs, "/")

		ops, ok := doc.Paths[path]
		require.True(t, ok, "%s missing from swagger doc", path)
		_, ok = ops[strings.ToLower(r.Method)]
		require.True(t, ok, "%s %s missing from swagger doc", r.Method, path)
		n++
	}
	require.Equal(t, 28, n)
}
