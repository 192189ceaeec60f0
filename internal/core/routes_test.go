package core

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cropcura/internal/types"
)

func mountedServer(t *testing.T) (*Server, *MockMetricsCollector) {
	t.Helper()
	s := newTestServer(t)
	metrics := &MockMetricsCollector{}
	s.Metrics = metrics
	s.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	s.Authenticator = &MockAuthenticator{Actor: authActor()}
	s.V1RouteRegistrars = append(s.V1RouteRegistrars, func(r chi.Router) {
		r.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
			actor, _ := types.GetActor(r.Context())
			JSON(w, r, http.StatusOK, APIResponse{Data: actor.SessionID})
		})
		r.Get("/panic", func(http.ResponseWriter, *http.Request) { panic("handler bug") })
	})
	s.MountRoutes()
	return s, metrics
}

func TestMountRoutes_Health(t *testing.T) {
	s, _ := mountedServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestMountRoutes_Metrics(t *testing.T) {
	s, _ := mountedServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "# metrics", rec.Body.String())
}

func TestMountRoutes_V1RequiresSession(t *testing.T) {
	s, metrics := mountedServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "cropcura_session", Value: "sess_abc"})
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":"sess_abc"}`, rec.Body.String())

	recorded := metrics.Recorded()
	require.Len(t, recorded, 2)
	assert.Equal(t, "401", recorded[0].Status)
	assert.Equal(t, "/v1/dashboard", recorded[1].Endpoint)
}

func TestMountRoutes_PanicRecovered(t *testing.T) {
	s, _ := mountedServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/panic", nil)
	req.Header.Set("Authorization", "Bearer sess_abc")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_unexpected_error")
}

func TestRequestTimeoutFromConfig(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, defaultRequestTimeout, s.requestTimeout())

	s.Config.Server.RequestTimeout = 5e9
	assert.Equal(t, int64(5e9), int64(s.requestTimeout()))
}
