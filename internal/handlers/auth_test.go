package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tsunami_usgs/internal/service"
)

func postJSON(t *testing.T, s *service.Service, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(s).ServeHTTP(w, req)
	return w
}

func TestSignIn_ReturnsTokenWithExpiry(t *testing.T) {
	exp := time.Date(2012, 8, 31, 13, 47, 33, 0, time.UTC)
	s := &service.Service{Authorization: &mockAuth{token: service.Token{Value: "tok", ExpiresAt: exp}}}

	w := postJSON(t, s, "/auth/sign-in", `{"username":"ops","password":"p"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got service.Token
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Value != "tok" || !got.ExpiresAt.Equal(exp) {
		t.Fatalf("token = %+v", got)
	}
}

func TestAuthHandlers_Statuses(t *testing.T) {
	cases := []struct {
		name string
		auth *mockAuth
		path string
		body string
		want int
	}{
		{name: "sign-up created", auth: &mockAuth{signUpID: 2}, path: "/auth/sign-up", want: http.StatusCreated},
		{name: "sign-up taken", auth: &mockAuth{signUpErr: service.ErrOperatorExists}, path: "/auth/sign-up", want: http.StatusConflict},
		{name: "sign-up blank", auth: &mockAuth{signUpErr: service.ErrEmptyCredentials}, path: "/auth/sign-up", want: http.StatusBadRequest},
		{name: "sign-up store down", auth: &mockAuth{signUpErr: errors.New("disk I/O error")}, path: "/auth/sign-up", want: http.StatusInternalServerError},
		{name: "sign-up missing field", auth: &mockAuth{}, path: "/auth/sign-up", body: `{"username":"ops"}`, want: http.StatusBadRequest},
		{name: "sign-in unknown", auth: &mockAuth{signInErr: service.ErrOperatorNotFound}, path: "/auth/sign-in", want: http.StatusUnauthorized},
		{name: "sign-in wrong password", auth: &mockAuth{signInErr: service.ErrInvalidPassword}, path: "/auth/sign-in", want: http.StatusUnauthorized},
		{name: "sign-in store down", auth: &mockAuth{signInErr: errors.New("database is locked")}, path: "/auth/sign-in", want: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := tc.body
			if body == "" {
				body = `{"username":"ops","password":"p"}`
			}
			w := postJSON(t, &service.Service{Authorization: tc.auth}, tc.path, body)
			if w.Code != tc.want {
				t.Fatalf("status=%d; want %d (body=%s)", w.Code, tc.want, w.Body.String())
			}
		})
	}
}
