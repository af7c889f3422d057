package ics

import (
	"context"
	"time"

	appLog "eventpage/internal/log"
	"eventpage/internal/model"
)

// ImportConfig bounds a feed import.
type ImportConfig struct {
	Location *time.Location
	// Backfill and Horizon are the number of days before and after now
	// whose occurrences are imported.
	Backfill int
	Horizon  int
}

// Import fetches, parses and expands feeds into catalog records. Feeds
// that fail are skipped; their errors are returned with the records from
// the feeds that worked.
func Import(ctx context.Context, f *Fetcher, feeds []Feed, cfg ImportConfig, now time.Time) ([]model.EventRecord, []error) {
	if len(feeds) == 0 {
		return nil, nil
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	now = now.In(cfg.Location)

	bodies, errs := f.FetchAll(ctx, feeds)

	var parsed []ParsedEvent
	for _, b := range bodies {
		events, err := ParseICS(b.Feed, b.Body)
		if err != nil {
			appLog.Error("ics parse failed", err, "id", b.Feed.ID)
			errs = append(errs, err)
			continue
		}
		parsed = append(parsed, events...)
	}

	res, err := ExpandOccurrences(parsed, ExpandConfig{
		DisplayLocation: cfg.Location,
		RangeStart:      now.AddDate(0, 0, -cfg.Backfill),
		RangeEnd:        now.AddDate(0, 0, cfg.Horizon),
	})
	if err != nil {
		return nil, append(errs, err)
	}

	records := ToRecords(res.Occurrences, now)
	appLog.Info("ics import completed", "feeds", len(feeds), "records", len(records), "errors", len(errs))
	return records, errs
}
