package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpage/internal/config"
	"eventpage/internal/content"
	appLog "eventpage/internal/log"
	"eventpage/internal/metrics"
	"eventpage/internal/model"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *metrics.Metrics) {
	t.Helper()

	cat, err := content.Default()
	require.NoError(t, err)

	start := time.Date(2025, 5, 3, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	cat = cat.Merge([]model.EventRecord{{
		ID:       "study-group",
		Title:    "Study Group",
		Status:   "Upcoming",
		Agenda:   []model.AgendaItem{},
		StartsAt: &start,
		EndsAt:   &end,
	}})

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.GalleryDir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}

	m := metrics.New()
	s, err := NewServer(cfg, content.NewStore(cat), m)
	require.NoError(t, err)
	return s, m
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s.Handler(), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_KeepsCallerIDAndLogsStatus(t *testing.T) {
	var buf bytes.Buffer
	appLog.SetOutput(&buf)
	appLog.SetLevel(appLog.LevelDebug)
	t.Cleanup(func() {
		appLog.SetOutput(os.Stderr)
		appLog.SetLevel(appLog.LevelInfo)
	})

	s, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/events/nope", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	out := buf.String()
	assert.Contains(t, out, "http request")
	assert.Contains(t, out, "req-42")
	assert.Contains(t, out, "404")
}

func TestIndex_SummaryCards(t *testing.T) {
	s, m := newTestServer(t, nil)

	rec := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Equal(t, 2, strings.Count(body, `class="action"`))
	// The whole card is the link, not only its action label.
	assert.Equal(t, 2, strings.Count(body, `<a class="card-link"`))
	link := strings.Index(body, `<a class="card-link" href="/events/git-it-right-workshop">`)
	require.GreaterOrEqual(t, link, 0)
	article := strings.Index(body[link:], `<article class="card summary" data-event="git-it-right-workshop">`)
	action := strings.Index(body[link:], `<span class="action">View Highlights</span>`)
	end := strings.Index(body[link:], `</a>`)
	assert.True(t, 0 < article && article < action && action < end)
	assert.Contains(t, body, "View Highlights")
	assert.Contains(t, body, "Completed")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageRenders.WithLabelValues("summary")))
}

func TestDetail_AllBlocksInOrder(t *testing.T) {
	s, m := newTestServer(t, nil)

	rec := get(t, s.Handler(), "/events/git-it-right-workshop")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	order := []string{
		`data-block="speaker"`,
		`data-block="level"`,
		`data-block="target_audience"`,
		`data-block="agenda"`,
		`data-block="learning_outcomes"`,
		`data-block="additional_engagement"`,
		`id="gallery"`,
		"Event Highlights",
		"Event Recording",
		"Recording will be uploaded soon. Stay tuned!",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(body, marker)
		require.Greater(t, idx, last, marker)
		last = idx
	}

	assert.Contains(t, body, `data-ready="true"`)
	assert.Contains(t, body, `src="/gallery/Event1/img6.jpg"`)
	assert.Contains(t, body, "Back to events")
	assert.Contains(t, body, "/static/detail.js")
	assert.NotContains(t, body, "calendar.ics")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PageRenders.WithLabelValues("detail")))
}

func TestDetail_EmptySectionsOmitted(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s.Handler(), "/events/study-group")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.NotContains(t, body, `data-block=`)
	assert.Contains(t, body, `href="/events/study-group/calendar.ics"`)
}

func TestDetail_UnknownEvent(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s.Handler(), "/events/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarExport(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s.Handler(), "/events/study-group/calendar.ics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "SUMMARY:Study Group")

	rec = get(t, s.Handler(), "/events/git-it-right-workshop/calendar.ics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIEvents(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s.Handler(), "/api/events")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Events []struct {
			Record  model.EventRecord `json:"record"`
			Summary struct {
				Action string `json:"action"`
			} `json:"summary"`
		} `json:"events"`
		Gallery []string `json:"gallery"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Events, 2)
	assert.Equal(t, "git-it-right-workshop", resp.Events[0].Record.ID)
	assert.Equal(t, "View Highlights", resp.Events[0].Summary.Action)
	assert.Len(t, resp.Gallery, 6)
}

func TestAPIEvent(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s.Handler(), "/api/events/git-it-right-workshop")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Detail struct {
			Blocks []struct {
				Kind int `json:"kind"`
			} `json:"blocks"`
		} `json:"detail"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Detail.Blocks, 6)
	for i, b := range resp.Detail.Blocks {
		assert.Equal(t, i, b.Kind)
	}

	rec = get(t, s.Handler(), "/api/events/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "event not found")
}

func TestAPI_CORS(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.CORSOrigins = []string{"https://acm.example.edu"}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Origin", "https://acm.example.edu")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "https://acm.example.edu", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBasicAuth(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	})
	h := s.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/").Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGalleryAndPreview(t *testing.T) {
	s, _ := newTestServer(t, nil)
	require.NoError(t, os.MkdirAll(filepath.Join(s.cfg.GalleryDir, "Event1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.cfg.GalleryDir, "Event1", "img1.jpg"), []byte("jpeg"), 0o644))

	rec := get(t, s.Handler(), "/gallery/Event1/img1.jpg")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg", rec.Body.String())

	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/preview.png").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, nil)
	get(t, s.Handler(), "/")

	rec := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `eventpage_page_renders_total{view="summary"} 1`)
}

func TestAssetURL(t *testing.T) {
	assert.Equal(t, "/gallery/a.jpg", assetURL("a.jpg"))
	assert.Equal(t, "https://x/a.jpg", assetURL("https://x/a.jpg"))
	assert.Equal(t, "/static/a.jpg", assetURL("/static/a.jpg"))
}

func TestDetailScript_ReattachesOnRestore(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := get(t, s.Handler(), "/static/detail.js")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `addEventListener("pagehide", detach)`)
	assert.Contains(t, body, `addEventListener("pageshow"`)
	assert.Contains(t, body, "ev.persisted")
}
