package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/llanero/admin-backend/pkg/logger"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}
	return lines
}

func loggedRouter(buf *bytes.Buffer) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "api", Level: "info", Output: buf})
	r := chi.NewRouter()
	r.Use(Logging(logg))
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Get("/{orderId}", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{}}`))
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	})
	return r
}

func TestLoggingRecordsRoutePatternAndSize(t *testing.T) {
	var buf bytes.Buffer
	router := loggedRouter(&buf)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders/5b7f0c1e", nil))

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	entry := lines[0]
	require.Equal(t, "request.complete", entry["message"])
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "/api/v1/orders/{orderId}", entry["route"])
	require.Equal(t, "/api/v1/orders/5b7f0c1e", entry["path"])
	require.EqualValues(t, 200, entry["status"])
	require.EqualValues(t, len(`{"data":{}}`), entry["bytes"])
}

func TestLoggingLevelsByPathAndStatus(t *testing.T) {
	var buf bytes.Buffer
	router := loggedRouter(&buf)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Empty(t, logLines(t, &buf))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/orders/", nil))
	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "warn", lines[0]["level"])
	require.EqualValues(t, 503, lines[0]["status"])
}

func TestLoggingMarksEventStreams(t *testing.T) {
	var buf bytes.Buffer
	router := loggedRouter(&buf)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/5b7f0c1e", nil)
	req.Header.Set("Accept", "text/event-stream")
	router.ServeHTTP(httptest.NewRecorder(), req)

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	require.Equal(t, "stream.open", lines[0]["message"])
	require.Equal(t, "stream.closed", lines[1]["message"])
}
