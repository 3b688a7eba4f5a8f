package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BerylCAtieno/file-forensics-api/internal/utils"
)

func TestRequestIDReachesHandlerAndLog(t *testing.T) {
	var buf bytes.Buffer
	logger := utils.NewLoggerWithWriter(&buf, "info")

	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})
	h := RequestID()(Logger(logger)(inner))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if seen == "" {
		t.Fatalf("handler saw no request ID")
	}
	if got := rr.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("header %s = %q, want %q", RequestIDHeader, got, seen)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "HTTP request" || entry["request_id"] != seen {
		t.Errorf("log entry = %v", entry)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("logged status = %v", entry["status"])
	}
}

func TestRecoveryReturns500(t *testing.T) {
	var buf bytes.Buffer
	logger := utils.NewLoggerWithWriter(&buf, "error")
	h := RequestID()(Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"`+rr.Header().Get(RequestIDHeader)+`"`)) {
		t.Errorf("panic log lacks request ID: %s", buf.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/extract", nil))

	if rr.Code != http.StatusNoContent || called {
		t.Errorf("status = %d, called = %v", rr.Code, called)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
}
