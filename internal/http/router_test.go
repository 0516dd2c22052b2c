package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guruganeshkannan/Afterlife/internal/auth"
	"github.com/Guruganeshkannan/Afterlife/internal/http/handler"
)

type idleScheduler struct{ cycles int }

func (s *idleScheduler) Start(ctx context.Context) error { return nil }
func (s *idleScheduler) Stop() error                     { return nil }
func (s *idleScheduler) IsRunning() bool                 { return false }

func (s *idleScheduler) RunOnce(ctx context.Context) error {
	s.cycles++
	return nil
}

func newTestRouter(t *testing.T, sched handler.SchedulerController) (http.Handler, string) {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Generate(uuid.New())
	require.NoError(t, err)

	router := NewRouter(Handlers{
		Auth:    handler.NewAuthHandler(nil),
		User:    handler.NewUserHandler(nil),
		Message: handler.NewMessageHandler(nil),
		Control: handler.NewControlHandler(sched),
	}, tokens)

	return router, token
}

func TestControlSurfaceRequiresAuth(t *testing.T) {
	sched := &idleScheduler{}
	router, token := newTestRouter(t, sched)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/control/start"},
		{http.MethodPost, "/control/stop"},
		{http.MethodGet, "/control/status"},
		{http.MethodPost, "/control/deliver"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s without token", route.method, route.path)
	}

	// No cycle ran for the rejected deliver call.
	assert.Equal(t, 0, sched.cycles)

	req := httptest.NewRequest(http.MethodPost, "/control/deliver", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sched.cycles)
}

func TestHealthEndpointIsOpen(t *testing.T) {
	router, _ := newTestRouter(t, &idleScheduler{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
