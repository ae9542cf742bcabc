package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tsunami_usgs/internal/models"
	"tsunami_usgs/internal/service"
)

func get(s *service.Service, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	newTestRouter(s).ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := get(&service.Service{}, "/health")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", w.Code, w.Body.String())
	}
}

func TestGetLabels(t *testing.T) {
	want := models.Labels{Title: "M 6.0", Date: "d", TsunamiAlert: "not available", Ready: true}
	w := get(&service.Service{Display: newMockDisplay(want)}, "/api/v1/quake")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got models.Labels
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("labels = %+v; want %+v", got, want)
	}
}

func TestScreen_RendersRegions(t *testing.T) {
	l := models.Labels{Title: "M 7.6 - <Philippines>", Date: "Fri, 31 Aug 2012", TsunamiAlert: "tsunami alert issued", Ready: true}
	w := get(&service.Service{Display: newMockDisplay(l)}, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	body := w.Body.String()
	for _, part := range []string{
		`<p id="title">M 7.6 - &lt;Philippines&gt;</p>`,
		`<p id="date">Fri, 31 Aug 2012</p>`,
		`<p id="tsunami_alert">tsunami alert issued</p>`,
	} {
		if !strings.Contains(body, part) {
			t.Fatalf("screen missing %q:\n%s", part, body)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	w := get(&service.Service{}, "/metrics")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "tsunami_usgs_ws_clients") {
		t.Fatalf("metrics: %d", w.Code)
	}
}
