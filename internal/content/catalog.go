package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teambition/rrule-go"

	"eventpage/internal/model"
)

// ErrNotFound is returned when no record carries the requested id.
var ErrNotFound = errors.New("event not found")

// Catalog is an ordered, id-keyed collection of event records plus the
// shared gallery. The first record is the default active one.
type Catalog struct {
	Gallery []string            `yaml:"gallery" json:"gallery"`
	Events  []model.EventRecord `yaml:"events" json:"events"`
}

// Get returns the record with the given id.
func (c *Catalog) Get(id string) (model.EventRecord, error) {
	if c != nil {
		for _, ev := range c.Events {
			if ev.ID == id {
				return ev, nil
			}
		}
	}
	return model.EventRecord{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Active returns the default record, or false for an empty catalog.
func (c *Catalog) Active() (model.EventRecord, bool) {
	if c == nil || len(c.Events) == 0 {
		return model.EventRecord{}, false
	}
	return c.Events[0], true
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Events)
}

// Merge returns a new catalog with extra appended after c's own records.
// Records in extra whose id already exists are dropped.
func (c *Catalog) Merge(extra []model.EventRecord) *Catalog {
	out := &Catalog{}
	if c != nil {
		out.Gallery = append(out.Gallery, c.Gallery...)
		out.Events = append(out.Events, c.Events...)
	}
	seen := make(map[string]struct{}, len(out.Events))
	for _, ev := range out.Events {
		seen[ev.ID] = struct{}{}
	}
	for _, ev := range extra {
		if _, dup := seen[ev.ID]; dup {
			continue
		}
		seen[ev.ID] = struct{}{}
		out.Events = append(out.Events, ev)
	}
	return out
}

// Validate checks the catalog for problems a renderer cannot paper over:
// missing or duplicate ids, missing titles, inverted schedules and
// unparseable recurrence rules. All problems are reported together.
func (c *Catalog) Validate() error {
	if c == nil {
		return errors.New("catalog is nil")
	}

	var errs []error
	seen := make(map[string]int, len(c.Events))
	for i, ev := range c.Events {
		where := fmt.Sprintf("events[%d]", i)
		id := strings.TrimSpace(ev.ID)
		if id == "" {
			errs = append(errs, fmt.Errorf("%s: id is required", where))
		} else if first, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q (first at events[%d])", where, id, first))
		} else {
			seen[id] = i
		}
		if strings.TrimSpace(ev.Title) == "" {
			errs = append(errs, fmt.Errorf("%s: title is required", where))
		}
		if ev.StartsAt != nil && ev.EndsAt != nil && ev.EndsAt.Before(*ev.StartsAt) {
			errs = append(errs, fmt.Errorf("%s: ends_at is before starts_at", where))
		}
		if ev.Recurrence != "" {
			if ev.StartsAt == nil {
				errs = append(errs, fmt.Errorf("%s: recurrence requires starts_at", where))
			}
			if _, err := rrule.StrToRRule(ev.Recurrence); err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid recurrence: %w", where, err))
			}
		}
	}
	return errors.Join(errs...)
}
