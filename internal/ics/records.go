package ics

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"eventpage/internal/model"
)

const (
	StatusCompleted = "Completed"
	StatusUpcoming  = "Upcoming"
)

// ToRecords converts feed occurrences into catalog records. Occurrences
// that ended before now are marked Completed.
func ToRecords(occs []model.Occurrence, now time.Time) []model.EventRecord {
	out := make([]model.EventRecord, 0, len(occs))
	seen := make(map[string]int)

	for _, occ := range occs {
		id := slug(occ.Summary) + "-" + occ.Start.Format("2006-01-02")
		if n := seen[id]; n > 0 {
			seen[id] = n + 1
			id = fmt.Sprintf("%s-%d", id, n+1)
		} else {
			seen[id] = 1
		}

		status := StatusUpcoming
		if occ.End.Before(now) {
			status = StatusCompleted
		}

		start, end := occ.Start, occ.End
		out = append(out, model.EventRecord{
			ID:          id,
			Title:       occ.Summary,
			Status:      status,
			Date:        occ.Start.Format("January 2, 2006"),
			Time:        clockRange(occ),
			Duration:    humanDuration(occ),
			Location:    occ.Location,
			Description: occ.Description,
			StartsAt:    &start,
			EndsAt:      &end,
			SourceID:    occ.SourceID,
		})
	}
	return out
}

func clockRange(occ model.Occurrence) string {
	if occ.AllDay {
		return "All day"
	}
	return occ.Start.Format("15:04") + " – " + occ.End.Format("15:04")
}

func humanDuration(occ model.Occurrence) string {
	if occ.AllDay {
		return ""
	}
	d := occ.End.Sub(occ.Start).Round(time.Minute)
	if d <= 0 {
		return ""
	}
	h, m := int(d.Hours()), int(d.Minutes())%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d min", m)
	case m == 0:
		return fmt.Sprintf("%d h", h)
	default:
		return fmt.Sprintf("%d h %d min", h, m)
	}
}

// slug lowercases s and collapses every run of non-alphanumerics into a
// single hyphen.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "event"
	}
	return out
}
