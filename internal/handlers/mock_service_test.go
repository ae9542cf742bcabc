package handlers

import (
	"context"
	"net/http"
	"sync"

	"tsunami_usgs/internal/models"
	"tsunami_usgs/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID  int
	signUpErr error
	token     service.Token
	signInErr error
	parseID   int
	parseErr  error

	lastSignUpUsername string
	lastParseToken     string
}

func (m *mockAuth) SignUp(ctx context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) SignIn(ctx context.Context, username, password string) (service.Token, error) {
	return m.token, m.signInErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockDisplay behaves like display.Board without the region mapping.
type mockDisplay struct {
	mu      sync.Mutex
	labels  models.Labels
	changed chan struct{}
}

func newMockDisplay(l models.Labels) *mockDisplay {
	return &mockDisplay{labels: l, changed: make(chan struct{})}
}

func (m *mockDisplay) Labels() models.Labels {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.labels
}

func (m *mockDisplay) Changed() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.changed
}

func (m *mockDisplay) set(l models.Labels) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels = l
	close(m.changed)
	m.changed = make(chan struct{})
}

type mockDiagnostics struct {
	resp []models.FetchAttempt
	err   error
	last  service.DiagnosticFilter
	calls int
}

func (m *mockDiagnostics) List(ctx context.Context, f service.DiagnosticFilter) ([]models.FetchAttempt, error) {
	m.last = f
	m.calls++
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, nil).InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
