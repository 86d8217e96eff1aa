package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/contrib-tracker/internal/contrib"
	"github.com/pfrederiksen/contrib-tracker/internal/logger"
	"github.com/pfrederiksen/contrib-tracker/internal/scraper"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeFetcher struct {
	stats contrib.Stats
	err   error
	calls []string
}

func (f *fakeFetcher) Stats(ctx context.Context, username string) (contrib.Stats, error) {
	f.calls = append(f.calls, username)
	s := f.stats
	s.Username = username
	return s, f.err
}

func serve(t *testing.T, fetcher StatsFetcher, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(fetcher, logger.Nop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestRoot(t *testing.T) {
	fetcher := &fakeFetcher{}
	rec := serve(t, fetcher, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ReadyMessage, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Empty(t, fetcher.calls)
}

func TestGetStats_Text(t *testing.T) {
	fetcher := &fakeFetcher{
		stats: contrib.Stats{TotalContributions: 5, Streak: 2, LastDay: "2026-10-18"},
	}

	rec := serve(t, fetcher, "/octocat")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "## octocat's contributions\n"+
		"- Total contributions (last 30 days): 5\n"+
		"- Current streak: 2 days\n"+
		"- Last active day: 2026-10-18", rec.Body.String())
	assert.Equal(t, []string{"octocat"}, fetcher.calls)
}

func TestGetStats_JSON(t *testing.T) {
	fetcher := &fakeFetcher{
		stats: contrib.Stats{TotalContributions: 5, Streak: 2, LastDay: "2026-10-18"},
	}

	rec := serve(t, fetcher, "/octocat?format=JSON")

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "octocat", got["username"])
	assert.EqualValues(t, 5, got["total_contributions"])
	assert.EqualValues(t, 2, got["streak"])
	assert.Equal(t, "2026-10-18", got["last_day"])
}

func TestGetStats_NoActivity(t *testing.T) {
	fetcher := &fakeFetcher{stats: contrib.Stats{LastDay: contrib.NoActivity}}

	rec := serve(t, fetcher, "/quiet-user")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "- Total contributions (last 30 days): 0")
	assert.Contains(t, rec.Body.String(), "- Last active day: N/A")
}

func TestGetStats_Failures(t *testing.T) {
	tests := []struct {
		name       string
		reason     string
		err        error
		wantDetail string
	}{
		{
			name:       "upstream status",
			reason:     "Error 500",
			err:        &scraper.StatusError{StatusCode: 500},
			wantDetail: "Could not fetch data for octocat: Error 500",
		},
		{
			name:       "connection error",
			reason:     contrib.ConnectionError,
			err:        &scraper.TransportError{Err: errors.New("dial tcp: refused")},
			wantDetail: "Could not fetch data for octocat: Connection error",
		},
		{
			name:       "error with ordinary stats",
			reason:     "2026-10-18",
			err:        errors.New("unexpected"),
			wantDetail: "Could not fetch data for octocat: Connection error",
		},
		{
			name:       "status error with ordinary stats",
			reason:     contrib.NoActivity,
			err:        &scraper.StatusError{StatusCode: 503},
			wantDetail: "Could not fetch data for octocat: Error 503",
		},
		{
			name:       "sentinel without error",
			reason:     "Error 404",
			wantDetail: "Could not fetch data for octocat: Error 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{stats: contrib.Stats{LastDay: tt.reason}, err: tt.err}

			rec := serve(t, fetcher, "/octocat")

			require.Equal(t, http.StatusNotFound, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDetail, body["detail"])
		})
	}
}

func TestGetStats_BadFormat(t *testing.T) {
	fetcher := &fakeFetcher{}

	rec := serve(t, fetcher, "/octocat?format=xml")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, fetcher.calls)
}

func TestGetStats_UpstreamServerError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	client := scraper.New(scraper.WithBaseURL(upstream.URL), scraper.WithLogger(logger.Nop()))
	rec := serve(t, client, "/octocat")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not fetch data for octocat: Error 500")
}

func TestGetStats_UpstreamEndToEnd(t *testing.T) {
	today := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/contributions", r.URL.Path)
		w.Write([]byte(`<html><body><svg>
			<rect data-date="2026-10-18" data-count="3"></rect>
			<rect data-date="2026-10-17" data-count="2"></rect>
			<rect data-date="2026-10-16" data-count="0"></rect>
		</svg></body></html>`))
	}))
	defer upstream.Close()

	client := scraper.New(
		scraper.WithBaseURL(upstream.URL),
		scraper.WithClock(func() time.Time { return today }),
		scraper.WithLogger(logger.Nop()),
	)
	rec := serve(t, client, "/octocat?format=json")

	require.Equal(t, http.StatusOK, rec.Code)
	var got contrib.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, contrib.Stats{
		Username:           "octocat",
		TotalContributions: 5,
		Streak:             2,
		LastDay:            "2026-10-18",
	}, got)
}

func TestRun_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "127.0.0.1:0", NewRouter(&fakeFetcher{}, logger.Nop()), logger.Nop())
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func TestRun_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var buf bytes.Buffer
	log := logger.New(logger.LevelDebug, &buf)

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), ln.Addr().String(), NewRouter(&fakeFetcher{}, log), log)
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), ln.Addr().String())
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not fail on an occupied port")
	}
	assert.NotContains(t, buf.String(), "Server listening")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}

func TestRun_LogsBoundAddress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf syncBuffer
	log := logger.New(logger.LevelInfo, &buf)

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, "127.0.0.1:0", NewRouter(&fakeFetcher{}, logger.Nop()), log)
	}()

	// Wait for the listening line, then check the port is really open.
	var addr string
	require.Eventually(t, func() bool {
		var entry logger.LogEntry
		line, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
		if json.Unmarshal(line, &entry) != nil || entry.Message != "Server listening" {
			return false
		}
		addr, _ = entry.Fields["addr"].(string)
		return true
	}, 5*time.Second, 10*time.Millisecond)

	assert.NotEqual(t, "127.0.0.1:0", addr)
	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}
