package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dest-sports/backoffice/internal/audit"
	"github.com/dest-sports/backoffice/internal/auth"
	"github.com/dest-sports/backoffice/internal/backend"
	"github.com/dest-sports/backoffice/internal/config"
	"github.com/dest-sports/backoffice/internal/metrics"
	"github.com/dest-sports/backoffice/internal/notifier"
	"github.com/dest-sports/backoffice/internal/panel"
	"github.com/dest-sports/backoffice/internal/pubsub"
	"github.com/dest-sports/backoffice/internal/table"
	"github.com/dest-sports/backoffice/internal/viewmodel"
)

// setupTestServer initializes a new server with mock clients.
func setupTestServer(t *testing.T, backendMock *backend.MockClient, authMock *auth.MockAuthenticator) *Server {
	t.Helper()

	panelSvc := panel.New(backendMock, metrics.NewMock(), notifier.NewMock(), pubsub.NewMock("TEST"), audit.NewMockTrail())
	cfg := config.Config{Port: "8080"}
	metricsSvc := metrics.NewMock()

	return NewServer(panelSvc, metricsSvc, http.NotFoundHandler(), nil, cfg, authMock)
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req, err = http.NewRequest(method, target, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestHealthCheckHandler(t *testing.T) {
	server := setupTestServer(t, backend.NewMockClient(), auth.NewMockAuthenticator())

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	server := setupTestServer(t, backend.NewMockClient(), auth.NewMockAuthenticator())

	req, err := http.NewRequest("GET", "/partners", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	authMock := auth.NewMockAuthenticator()
	authMock.VerifyFunc = func(context.Context, string) (string, error) {
		return "", auth.ErrInvalidToken
	}
	server := setupTestServer(t, backend.NewMockClient(), authMock)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/partners", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginFlow(t *testing.T) {
	authMock := auth.NewMockAuthenticator()
	server := setupTestServer(t, backend.NewMockClient(), authMock)

	body, _ := json.Marshal(map[string]string{"email": "ops@dest.example"})
	req, err := http.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []string{"ops@dest.example"}, authMock.BeginLoginCalls)

	body, _ = json.Marshal(map[string]string{"email": "ops@dest.example", "code": "123456"})
	req, err = http.NewRequest("POST", "/auth/verify", bytes.NewReader(body))
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "mock-token", resp["token"])
}

func TestVerifyLoginRejectsBadCode(t *testing.T) {
	authMock := auth.NewMockAuthenticator()
	authMock.CompleteLoginFunc = func(context.Context, string, string) (string, error) {
		return "", auth.ErrInvalidCode
	}
	server := setupTestServer(t, backend.NewMockClient(), authMock)

	body, _ := json.Marshal(map[string]string{"email": "ops@dest.example", "code": "000000"})
	req, err := http.NewRequest("POST", "/auth/verify", bytes.NewReader(body))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListPartnersHandler(t *testing.T) {
	backendMock := backend.NewMockClient()
	backendMock.ListPartnersFunc = func(context.Context, int, int) ([]backend.Row, error) {
		return []backend.Row{{"id": "p-1", "name": "Ace Academy"}}, nil
	}
	server := setupTestServer(t, backendMock, auth.NewMockAuthenticator())

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/partners", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var partners []viewmodel.Partner
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &partners))
	require.Len(t, partners, 1)
	assert.Equal(t, "Ace Academy", partners[0].Name)
}

func TestPartnerDetailHandler(t *testing.T) {
	backendMock := backend.NewMockClient()
	server := setupTestServer(t, backendMock, auth.NewMockAuthenticator())

	t.Run("requires key", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/partners/detail", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown key is 404", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/partners/detail?key=missing", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("known key returns detail", func(t *testing.T) {
		backendMock.GetPartnerDetailFunc = func(context.Context, string) (*backend.PartnerDetailRows, error) {
			return &backend.PartnerDetailRows{Partner: backend.Row{"id": "p-1", "name": "Ace Academy"}}, nil
		}
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/partners/detail?key=p-1", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var detail viewmodel.PartnerDetail
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
		assert.Equal(t, "Ace Academy", detail.Partner.Name)
	})
}

func TestApprovePartnerHandler(t *testing.T) {
	backendMock := backend.NewMockClient()
	server := setupTestServer(t, backendMock, auth.NewMockAuthenticator())

	t.Run("rejects GET", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/partners/approve?id=p-1", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})

	t.Run("requires id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "POST", "/partners/approve", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("approves", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "POST", "/partners/approve?id=p-1", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{"p-1"}, backendMock.SetPartnerVerifiedCalls)
	})

	t.Run("write failure is a 500", func(t *testing.T) {
		backendMock.SetPartnerVerifiedFunc = func(context.Context, string, bool) error {
			return errors.New("write refused")
		}
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "POST", "/partners/approve?id=p-1", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestSupportQueueHandlerValidatesAudience(t *testing.T) {
	server := setupTestServer(t, backend.NewMockClient(), auth.NewMockAuthenticator())

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/support?audience=everyone", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/support?audience=partner", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateEnrollmentHandler(t *testing.T) {
	backendMock := backend.NewMockClient()
	server := setupTestServer(t, backendMock, auth.NewMockAuthenticator())

	t.Run("rejects invalid JSON", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "POST", "/enrollments/create", []byte("{not json")))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("creates", func(t *testing.T) {
		body, _ := json.Marshal(backend.Enrollment{UserID: "u-1", PlanID: "plan-1"})
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "POST", "/enrollments/create", body))
		assert.Equal(t, http.StatusCreated, rr.Code)
		require.Len(t, backendMock.CreateManualEnrollmentCalls, 1)
		assert.Equal(t, "u-1", backendMock.CreateManualEnrollmentCalls[0].UserID)
	})
}

func TestPartnersTableHandler(t *testing.T) {
	backendMock := backend.NewMockClient()
	backendMock.ListPartnersFunc = func(context.Context, int, int) ([]backend.Row, error) {
		return []backend.Row{
			{"id": "p-1", "name": "Ace Academy", "role": "academy", "city": "Pune"},
			{"id": "p-2", "name": "Bay Gym", "role": "gym", "city": "Mumbai"},
			{"id": "p-3", "name": "Cove Turf", "role": "turf", "city": "Goa"},
		}, nil
	}
	server := setupTestServer(t, backendMock, auth.NewMockAuthenticator())

	t.Run("sorts and pages", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/partners/table?sort=name&dir=desc&size=25", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var view table.View[viewmodel.Partner]
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		require.Len(t, view.Rows, 3)
		assert.Equal(t, "Cove Turf", view.Rows[0].Row.Name)
		assert.Equal(t, "Ace Academy", view.Rows[2].Row.Name)
		assert.Equal(t, 25, view.PageSize)
		assert.Equal(t, "Showing 1-3 of 3", view.RangeText)
	})

	t.Run("filters on the search index", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/partners/table?q=pune", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var view table.View[viewmodel.Partner]
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		require.Len(t, view.Rows, 1)
		assert.Equal(t, "Ace Academy", view.Rows[0].Row.Name)
		assert.Equal(t, 3, view.TotalRows)
	})

	t.Run("role vocabulary in empty messages", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/partners/table?role=gym&q=nothing-matches", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var view table.View[viewmodel.Partner]
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
		assert.Empty(t, view.Rows)
		assert.Equal(t, "No gyms match your search.", view.EmptyMessage)
	})

	t.Run("rejects a bad page", func(t *testing.T) {
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/partners/table?page=nope", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestOverviewHandler(t *testing.T) {
	backendMock := backend.NewMockClient()
	server := setupTestServer(t, backendMock, auth.NewMockAuthenticator())

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/overview", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var overview panel.Overview
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &overview))
	assert.NotNil(t, overview.Orders)
}

func TestAuditLogHandler(t *testing.T) {
	server := setupTestServer(t, backend.NewMockClient(), auth.NewMockAuthenticator())

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/audit", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/audit?limit=nope", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

type fakeMetricsStore struct {
	counts map[string]int
}

func (f *fakeMetricsStore) Increment(key string) { f.counts[key]++ }
func (f *fakeMetricsStore) GetAll() (map[string]int, error) { return f.counts, nil }

func TestLifetimeMetricsHandler(t *testing.T) {
	server := setupTestServer(t, backend.NewMockClient(), auth.NewMockAuthenticator())
	server.MetricsStore = &fakeMetricsStore{counts: map[string]int{}}

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, authedRequest(t, "GET", "/overview", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	req, err := http.NewRequest("GET", "/metrics/lifetime", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var counts map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts["overview_loads"])
}

func TestLogoutHandler(t *testing.T) {
	authMock := auth.NewMockAuthenticator()
	server := setupTestServer(t, backend.NewMockClient(), authMock)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, authedRequest(t, "POST", "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"test-token"}, authMock.RevokeCalls)
}
