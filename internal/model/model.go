package model

import (
	"strings"
	"time"
)

// AgendaItem is one slot of an event schedule. Agenda order is the
// order in which slots were authored and is treated as chronological.
type AgendaItem struct {
	Time    string `yaml:"time" json:"time"`
	Session string `yaml:"session" json:"session"`
}

// EventRecord is the immutable description of a single event page.
//
// Optional fields may be absent or empty; both mean "not shown". Use the
// Has* helpers rather than comparing against zero values directly.
type EventRecord struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Status   string `yaml:"status" json:"status"`
	Date     string `yaml:"date" json:"date"`
	Time     string `yaml:"time" json:"time"`
	Duration string `yaml:"duration,omitempty" json:"duration,omitempty"`
	Location string `yaml:"location" json:"location"`

	// Image is the primary cover URL.
	Image       string `yaml:"image" json:"image"`
	Description string `yaml:"description" json:"description"`

	Speaker        string `yaml:"speaker,omitempty" json:"speaker,omitempty"`
	TargetAudience string `yaml:"target_audience,omitempty" json:"target_audience,omitempty"`
	Level          string `yaml:"level,omitempty" json:"level,omitempty"`

	Agenda               []AgendaItem `yaml:"agenda,omitempty" json:"agenda,omitempty"`
	LearningOutcomes     []string     `yaml:"learning_outcomes,omitempty" json:"learning_outcomes,omitempty"`
	AdditionalEngagement []string     `yaml:"additional_engagement,omitempty" json:"additional_engagement,omitempty"`

	// Teaser is the one-line blurb on the summary card.
	Teaser string `yaml:"teaser,omitempty" json:"teaser,omitempty"`
	// Gallery overrides the catalog-wide gallery when non-empty.
	Gallery []string `yaml:"gallery,omitempty" json:"gallery,omitempty"`
	// Recording links to the published recording, if any.
	Recording string `yaml:"recording,omitempty" json:"recording,omitempty"`

	// StartsAt / EndsAt are only needed for calendar export.
	StartsAt *time.Time `yaml:"starts_at,omitempty" json:"starts_at,omitempty"`
	EndsAt   *time.Time `yaml:"ends_at,omitempty" json:"ends_at,omitempty"`
	// Recurrence is an RRULE value such as "FREQ=WEEKLY;COUNT=4".
	Recurrence string `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`

	// SourceID names the ICS feed a record was imported from; empty for
	// records authored in the catalog file.
	SourceID string `yaml:"-" json:"source_id,omitempty"`
}

func (e EventRecord) HasSpeaker() bool        { return present(e.Speaker) }
func (e EventRecord) HasLevel() bool          { return present(e.Level) }
func (e EventRecord) HasTargetAudience() bool { return present(e.TargetAudience) }
func (e EventRecord) HasDuration() bool       { return present(e.Duration) }
func (e EventRecord) HasRecording() bool      { return present(e.Recording) }

// HasAgenda reports whether at least one agenda slot carries text.
func (e EventRecord) HasAgenda() bool {
	for _, it := range e.Agenda {
		if present(it.Time) || present(it.Session) {
			return true
		}
	}
	return false
}

func (e EventRecord) HasLearningOutcomes() bool     { return anyPresent(e.LearningOutcomes) }
func (e EventRecord) HasAdditionalEngagement() bool { return anyPresent(e.AdditionalEngagement) }

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func anyPresent(items []string) bool {
	for _, s := range items {
		if present(s) {
			return true
		}
	}
	return false
}

// Occurrence represents a single concrete instance of a feed event
// (after recurrence expansion and timezone normalization).
type Occurrence struct {
	SourceID string // feed ID
	UID      string // iCalendar UID

	// InstanceKey uniquely identifies a single occurrence of a recurring
	// event, typically derived from the local start time.
	InstanceKey string

	Summary     string
	Description string
	Location    string

	AllDay bool

	// Start / End are in the configured display timezone.
	Start time.Time
	End   time.Time
}
