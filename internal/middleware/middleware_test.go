package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"pet-adoption-web/internal/adapters/capabilities/rolemap"
	"pet-adoption-web/internal/domain/session"
	"pet-adoption-web/internal/platform/httpclient"
	"pet-adoption-web/internal/platform/logger"
	"pet-adoption-web/internal/ports/capabilities"
)

type stubAuthRepo struct {
	user *session.User
}

func (s stubAuthRepo) Me(ctx context.Context) (session.User, error) {
	if s.user == nil {
		return session.User{}, &httpclient.HTTPError{StatusCode: http.StatusUnauthorized}
	}
	return *s.user, nil
}
func (s stubAuthRepo) Login(ctx context.Context, c session.Credentials) (session.User, error) {
	return session.User{}, nil
}
func (s stubAuthRepo) Logout(ctx context.Context) error { return nil }
func (s stubAuthRepo) RegisterUser(ctx context.Context, u session.UserRegistration) (session.User, error) {
	return session.User{}, nil
}
func (s stubAuthRepo) RegisterShelter(ctx context.Context, r session.ShelterRegistration) (session.User, error) {
	return session.User{}, nil
}
func (s stubAuthRepo) UpdateProfile(ctx context.Context, p session.ProfileUpdate) (session.User, error) {
	return session.User{}, nil
}

func guarded(t *testing.T, s *session.Slice, need ...capabilities.Capability) http.Handler {
	t.Helper()
	t.Setenv("ALLOW_ALL_CAPABILITIES", "")
	r := chi.NewRouter()
	r.With(RequireSession(func(*http.Request) *session.Slice { return s }, rolemap.NewResolver(nil), need...)).
		Get("/private", func(w http.ResponseWriter, r *http.Request) {
			c, ok := GetClaims(r.Context())
			require.True(t, ok)
			_, _ = w.Write([]byte(c.UserID + ":" + c.Role))
		})
	return r
}

func TestRequireSession_Pending(t *testing.T) {
	s := session.NewSlice(stubAuthRepo{}, logger.NewNop())
	rr := httptest.NewRecorder()
	guarded(t, s).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/private", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	assert.Contains(t, rr.Body.String(), `"guard":"pending"`)
}

func TestRequireSession_Anonymous(t *testing.T) {
	s := session.NewSlice(stubAuthRepo{}, logger.NewNop())
	s.EnsureChecked(context.Background())

	rr := httptest.NewRecorder()
	guarded(t, s).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireSession_RoleCapabilities(t *testing.T) {
	s := session.NewSlice(stubAuthRepo{user: &session.User{ID: "u1", Role: session.RoleAdopter}}, logger.NewNop())
	s.EnsureChecked(context.Background())

	rr := httptest.NewRecorder()
	guarded(t, s, capabilities.ReviewApplications).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	guarded(t, s, capabilities.SubmitApplications).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1:adopter", rr.Body.String())
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Recover(logger.FromZap(zap.New(core)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"message":"internal error"}`, rr.Body.String())
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRequestLoggerAndID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(EchoRequestID)
	r.Use(RequestLogger(logger.FromZap(zap.New(core))))
	var seen string
	r.Get("/teapot", func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader), "echoes the id chi generated")
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.EqualValues(t, http.StatusTeapot, entries[0].ContextMap()["status"])
	assert.Equal(t, "/teapot", entries[0].ContextMap()["path"])
}
