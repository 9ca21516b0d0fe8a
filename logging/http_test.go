package logging

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPLoggerRecordsRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := New("naskah", INFO, &buf)

	var seenID string
	handler := NewHTTPLogger(logger, 0).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Data tidak valid."}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/naskah", strings.NewReader("nik=1111111111111111"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer rahasia")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seenID == "" || rec.Header().Get("X-Request-ID") != seenID {
		t.Fatalf("expected the request id in context and header, got %q / %q", seenID, rec.Header().Get("X-Request-ID"))
	}

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Level != "WARN" || e.Category != "http" || e.RequestID != seenID || e.Duration == nil {
		t.Fatalf("unexpected entry %+v", e)
	}
	if _, ok := e.Fields["request_body"]; ok {
		t.Fatalf("form bodies must not be logged")
	}
	if body, _ := e.Fields["response_body"].(string); !strings.Contains(body, "Data tidak valid.") {
		t.Fatalf("expected the error response body, got %q", body)
	}
	headers, _ := e.Fields["request_headers"].(map[string]any)
	if _, ok := headers["Authorization"]; ok {
		t.Fatalf("authorization header must be stripped")
	}
}

func TestHTTPLoggerRespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("naskah", WARN, &buf)
	handler := NewHTTPLogger(logger, 0).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/naskah/kirim", nil))
	if buf.Len() != 0 {
		t.Fatalf("expected successful requests below WARN to be dropped, got %s", buf.String())
	}
}
