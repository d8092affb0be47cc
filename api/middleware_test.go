package api

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestPostEventsGzipBody(t *testing.T) {
	s := newTestServer(t, mockAuth{}, nil, taskA)
	body := gzipBytes(t, `[{"type":"create-board","data":{"board":"Y"}}]`)

	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentEncoding, "gzip")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got := len(s.tasks(t)); got != 2 {
		t.Fatalf("expected 2 tasks, got %d", got)
	}
}

func TestPostEventsInvalidGzip(t *testing.T) {
	s := newTestServer(t, mockAuth{}, nil, taskA)
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader("not gzip"))
	req.Header.Set(echo.HeaderContentEncoding, "gzip")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 got %d", rec.Code)
	}
}

func TestAcceptsEncoding(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"gzip", true},
		{"br, GZIP", true},
		{"deflate", false},
	}
	for _, tt := range tests {
		if got := acceptsEncoding(tt.header, "gzip"); got != tt.want {
			t.Errorf("acceptsEncoding(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
