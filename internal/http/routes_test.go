package httpx

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mocks "github.com/gatehouse/gatehouse/internal/mocks/identity"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(RouterServices{
		AuthFactory: mocks.StaticFactory(mocks.NewMemoryProvider()),
		Routes:      testClassifier(),
		LoginPath:   "/login",
		LandingPath: "/dashboard",
	})
}

func TestNewRouter_Healthz(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewRouter_MethodNotAllowed(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// The guard wraps the whole mux, so even auth endpoints under a protected
// prefix would be screened; the default layout keeps /auth public.
func TestNewRouter_GuardProtectsConfiguredPrefixes(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login?redirect_uri=")
}

func TestNewRouter_SessionEndpoint(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/session", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
}

// Streaming handlers flush through the logging wrapper; the wrapped writer
// must forward Flush to the real one.
func TestLogging_ForwardsFlush(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f, ok := w.(http.Flusher)
		require.True(t, ok)
		_, _ = w.Write([]byte("chunk"))
		f.Flush()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, rec.Flushed)
}

// http.ResponseController can flush through the wrapper as well.
func TestLogging_ResponseControllerFlush(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		require.NoError(t, http.NewResponseController(w).Flush())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, rec.Flushed)
}

func TestNewRouter_RecoversFromPanic(t *testing.T) {
	// Recover sits outermost; a panicking downstream handler becomes a 500.
	logger := slog.New(slog.DiscardHandler)
	handler := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
