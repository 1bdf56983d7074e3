package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogem/crud-audit/authenticator"
	"github.com/blogem/crud-audit/config"
	"github.com/blogem/crud-audit/controllers"
	"github.com/blogem/crud-audit/database"
	"github.com/blogem/crud-audit/models"
	"github.com/blogem/crud-audit/repositories"
	"github.com/blogem/crud-audit/services"
)

// fakeProvider stands in for the identity provider
type fakeProvider struct {
	claims authenticator.Claims
}

func (p *fakeProvider) GetAuthURL(state string) string {
	return "https://idp.example.com/authorize?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) ExchangeCode(_ context.Context, code string) (*authenticator.Token, error) {
	return &authenticator.Token{IDToken: "id-token-" + code}, nil
}

func (p *fakeProvider) GetClaims(_ context.Context, _ *authenticator.Token) (authenticator.Claims, error) {
	return p.claims, nil
}

type apiClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T) *apiClient {
	t.Helper()

	db, err := database.InitializeDatabase(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srvs := services.NewServices(repositories.NewRepositories(db), services.NewAuditMetrics(prometheus.NewRegistry()), logger)
	ctrl := controllers.NewControllers(srvs, func(ctx context.Context, fn func(ctx context.Context) error) error {
		return database.RunInTx(ctx, db, fn)
	})

	provider := &fakeProvider{claims: authenticator.Claims{"sub": "auth0|jane", "nickname": "jane"}}
	cfg := &config.Config{SessionLifetime: time.Hour}
	router, err := setupRouter(ctrl, provider, cfg, logger)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &apiClient{
		t:      t,
		server: server,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *apiClient) do(method, path, body string) *http.Response {
	c.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (c *apiClient) login() {
	c.t.Helper()

	resp := c.do(http.MethodGet, "/login", "")
	require.Equal(c.t, http.StatusTemporaryRedirect, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(c.t, err)
	state := location.Query().Get("state")
	require.NotEmpty(c.t, state)

	resp = c.do(http.MethodGet, "/callback?code=abc&state="+url.QueryEscape(state), "")
	require.Equal(c.t, http.StatusSeeOther, resp.StatusCode)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIRequiresLogin(t *testing.T) {
	c := newTestServer(t)

	resp := c.do(http.MethodPost, "/api/team", `{"name":"Blue Widget"}`)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCallbackRejectsForgedState(t *testing.T) {
	c := newTestServer(t)
	c.do(http.MethodGet, "/login", "")

	resp := c.do(http.MethodGet, "/callback?code=abc&state=forged", "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTeamLifecycleIsAudited(t *testing.T) {
	c := newTestServer(t)
	c.login()

	// create
	resp := c.do(http.MethodPost, "/api/team", `{"name":"Blue Widget","email":"blue@example.com"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	member := decode[models.TeamMember](t, resp)
	require.NotZero(t, member.ID)
	memberPath := "/api/team/" + strconv.FormatInt(member.ID, 10)

	// failed update: validation error, nothing logged
	resp = c.do(http.MethodPut, memberPath, `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// update
	payload := `{"name":"Navy Widget","email":"blue@example.com"}`
	resp = c.do(http.MethodPut, memberPath, payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.TeamMember](t, resp)
	assert.Equal(t, "Navy Widget", updated.Name)

	// failed delete of an unknown member, nothing logged
	resp = c.do(http.MethodDelete, "/api/team/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// delete
	resp = c.do(http.MethodDelete, memberPath, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do(http.MethodGet, memberPath, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// audit log
	resp = c.do(http.MethodGet, "/api/audit?kind=team+member&entity_id="+strconv.FormatInt(member.ID, 10), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records := decode[[]struct {
		ActorID     int64  `json:"actor_id"`
		EntityID    int64  `json:"entity_id"`
		EntityLabel string `json:"entity_label"`
		Action      string `json:"action"`
		Message     string `json:"message"`
	}](t, resp)

	require.Len(t, records, 3)
	assert.Equal(t, "DELETE", records[0].Action)
	assert.Equal(t, `Deleted team member "Navy Widget <blue@example.com>".`, records[0].Message)
	assert.Equal(t, "UPDATE", records[1].Action)
	assert.Equal(t, `Changed `+payload+` for team member "Blue Widget <blue@example.com>".`, records[1].Message)
	assert.Equal(t, "CREATE", records[2].Action)
	assert.Equal(t, `Added team member "Blue Widget <blue@example.com>".`, records[2].Message)

	for _, record := range records {
		assert.NotZero(t, record.ActorID)
		assert.Equal(t, records[0].ActorID, record.ActorID, "all actions credited to the logged-in user")
		assert.Equal(t, member.ID, record.EntityID)
	}

	// filter by action
	resp = c.do(http.MethodGet, "/api/audit?action=CREATE", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	creates := decode[[]models.AuditRecord](t, resp)
	assert.Len(t, creates, 1)
}

func TestAuditFilterValidation(t *testing.T) {
	c := newTestServer(t)
	c.login()

	for _, query := range []string{"entity_id=abc", "actor_id=-1", "action=PURGE", "limit=0"} {
		resp := c.do(http.MethodGet, "/api/audit?"+query, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}

	resp := c.do(http.MethodGet, "/api/audit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]models.AuditRecord](t, resp))
}
