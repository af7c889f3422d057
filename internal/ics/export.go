package ics

import (
	"errors"
	"time"

	ical "github.com/arran4/golang-ical"

	"eventpage/internal/model"
)

// ErrNoSchedule is returned when a record has no starts_at and therefore
// cannot be placed on a calendar.
var ErrNoSchedule = errors.New("event has no schedule")

const productID = "-//eventpage//events//EN"

// Export renders rec as a single-event PUBLISH calendar. Records without
// an end time are exported with DTEND equal to DTSTART.
func Export(rec model.EventRecord, now time.Time) (string, error) {
	if rec.StartsAt == nil {
		return "", ErrNoSchedule
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	ev := cal.AddEvent(rec.ID + "@eventpage")
	ev.SetDtStampTime(now.UTC())
	ev.SetStartAt(rec.StartsAt.UTC())
	end := *rec.StartsAt
	if rec.EndsAt != nil {
		end = *rec.EndsAt
	}
	ev.SetEndAt(end.UTC())

	ev.SetSummary(rec.Title)
	if rec.Description != "" {
		ev.SetDescription(rec.Description)
	}
	if rec.Location != "" {
		ev.SetLocation(rec.Location)
	}
	if rec.Recurrence != "" {
		ev.AddRrule(rec.Recurrence)
	}
	if rec.Recording != "" {
		ev.SetURL(rec.Recording)
	}

	return cal.Serialize(), nil
}
