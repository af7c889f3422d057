package refresh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"eventpage/internal/capture"
	"eventpage/internal/config"
	"eventpage/internal/content"
	"eventpage/internal/ics"
	appLog "eventpage/internal/log"
	"eventpage/internal/metrics"
)

// CaptureFunc renders a preview of cat after a successful reload.
type CaptureFunc func(ctx context.Context, cat *content.Catalog) error

// Refresher rebuilds the served catalog from the content file and the
// configured feeds. A failed reload keeps the previous catalog.
type Refresher struct {
	cfg     *config.Config
	store   *content.Store
	metrics *metrics.Metrics
	fetcher *ics.Fetcher
	loc     *time.Location

	// Capture, if set, runs after every successful reload. Its failure
	// does not fail the reload.
	Capture CaptureFunc

	now func() time.Time
	mu  sync.Mutex
}

// New validates the schedule and timezone in cfg and returns a
// Refresher writing into store.
func New(cfg *config.Config, store *content.Store, m *metrics.Metrics) (*Refresher, error) {
	if _, err := cron.ParseStandard(cfg.Refresh); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", cfg.Refresh, err)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	if m == nil {
		m = metrics.New()
	}
	return &Refresher{
		cfg:     cfg,
		store:   store,
		metrics: m,
		fetcher: ics.NewFetcher(cfg.FeedCacheDir(), &http.Client{Timeout: 30 * time.Second}),
		loc:     loc,
		now:     time.Now,
	}, nil
}

// Reload loads the content file, imports feed occurrences and swaps the
// merged catalog into the store. Feed failures are logged and skipped.
// Concurrent calls are serialized.
func (r *Refresher) Reload(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := r.now()
	cat, err := content.Load(r.cfg.Content)
	if err != nil {
		r.metrics.CatalogReloads.WithLabelValues("error").Inc()
		appLog.Error("catalog reload failed, keeping previous catalog", err, "content", r.cfg.Content)
		return err
	}

	records, feedErrs := ics.Import(ctx, r.fetcher, r.feeds(), ics.ImportConfig{
		Location: r.loc,
		Backfill: r.cfg.BackfillDays,
		Horizon:  r.cfg.HorizonDays,
	}, start)
	if len(feedErrs) > 0 {
		appLog.Info("some feeds were skipped", "failed", len(feedErrs), "feeds", len(r.cfg.Feeds))
	}

	cat = cat.Merge(records)
	r.store.Swap(cat)
	r.metrics.CatalogReloads.WithLabelValues("ok").Inc()
	r.metrics.CatalogEvents.Set(float64(cat.Len()))
	appLog.Info("catalog reloaded",
		"events", cat.Len(),
		"imported", len(records),
		"took", r.now().Sub(start).String(),
	)

	if r.Capture != nil {
		if err := r.Capture(ctx, cat); err != nil {
			appLog.Error("preview capture failed", err)
		}
	}
	return nil
}

func (r *Refresher) feeds() []ics.Feed {
	out := make([]ics.Feed, 0, len(r.cfg.Feeds))
	for _, f := range r.cfg.Feeds {
		if strings.TrimSpace(f.URL) == "" {
			continue
		}
		id := f.ID
		if id == "" {
			id = f.Name
		}
		out = append(out, ics.Feed{ID: id, URL: f.URL})
	}
	return out
}

// Start schedules Reload on cfg.Refresh until ctx is canceled. It does
// not run an initial reload.
func (r *Refresher) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(r.loc))
	if _, err := c.AddFunc(r.cfg.Refresh, func() {
		appLog.Debug("scheduled reload")
		_ = r.Reload(ctx)
	}); err != nil {
		return err
	}
	c.Start()
	appLog.Info("refresh scheduled", "schedule", r.cfg.Refresh, "timezone", r.loc.String())

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		appLog.Info("refresh stopped")
	}()
	return nil
}

// PreviewCapture returns a CaptureFunc that screenshots the active
// record's detail page served at cfg.Listen.
func PreviewCapture(cfg *config.Config) CaptureFunc {
	return func(ctx context.Context, cat *content.Catalog) error {
		ev, ok := cat.Active()
		if !ok {
			return errors.New("catalog is empty")
		}
		return capture.DetailPNG(ctx, previewOptions(cfg, ev.ID))
	}
}

func previewOptions(cfg *config.Config, id string) capture.Options {
	opts := capture.Options{
		URL:        BaseURL(cfg.Listen) + "/events/" + id,
		OutputPath: cfg.PreviewPath(),
		Width:      cfg.Capture.Width,
		Height:     cfg.Capture.Height,
		Timeout:    time.Duration(cfg.Capture.TimeoutSec) * time.Second,
	}
	if cfg.BasicAuthEnabled() {
		opts.Username = cfg.BasicAuth.Username
		opts.Password = cfg.BasicAuth.Password
	}
	return opts
}

// BaseURL turns a listen address into a loopback URL; ":8080" and
// "0.0.0.0:8080" both become "http://127.0.0.1:8080".
func BaseURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}
