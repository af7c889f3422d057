package view

import (
	"strings"

	"eventpage/internal/model"
)

// Fixed copy shared by every front-end.
const (
	DefaultTeaser   = "Catch up on what happened at this event and browse the highlights."
	ActionLabel     = "View Highlights"
	BackLabel       = "Back to events"
	GalleryTitle    = "Event Highlights"
	RecordingTitle  = "Event Recording"
	RecordingNotice = "Recording will be uploaded soon. Stay tuned!"
)

// BlockKind identifies one optional block of the detail view. The
// constants are declared in document order.
type BlockKind int

const (
	BlockSpeaker BlockKind = iota
	BlockLevel
	BlockTargetAudience
	BlockAgenda
	BlockLearningOutcomes
	BlockAdditionalEngagement
)

func (k BlockKind) String() string {
	switch k {
	case BlockSpeaker:
		return "speaker"
	case BlockLevel:
		return "level"
	case BlockTargetAudience:
		return "target_audience"
	case BlockAgenda:
		return "agenda"
	case BlockLearningOutcomes:
		return "learning_outcomes"
	case BlockAdditionalEngagement:
		return "additional_engagement"
	default:
		return "unknown"
	}
}

// Block is an optional row (speaker, level, audience) or list section
// (agenda, outcomes, engagement) of the detail view.
type Block struct {
	Kind  BlockKind    `json:"kind"`
	Title string       `json:"title"`
	Value string       `json:"value,omitempty"`
	Items []string     `json:"items,omitempty"`
	Slots []AgendaSlot `json:"slots,omitempty"`
}

// IsRow reports whether the block renders as a single labelled line.
func (b Block) IsRow() bool {
	return b.Kind <= BlockTargetAudience
}

type AgendaSlot struct {
	Time    string `json:"time"`
	Session string `json:"session"`
}

// SummaryPage is the compact card.
type SummaryPage struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Image    string `json:"image"`
	Teaser   string `json:"teaser"`
	// Action is the label of the single control that enters Detail.
	Action string `json:"action"`
}

// DetailPage is the expanded view of one record.
type DetailPage struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Status      string  `json:"status"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Duration    string  `json:"duration,omitempty"`
	Location    string  `json:"location"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Blocks      []Block `json:"blocks"`

	GalleryTitle   string   `json:"gallery_title"`
	Gallery        []string `json:"gallery"`
	RecordingTitle string   `json:"recording_title"`
	Recording      string   `json:"recording,omitempty"`
	Back           string   `json:"back"`
}

// RecordingText is what the recording block shows when no link exists.
func (d DetailPage) RecordingText() string {
	if d.Recording != "" {
		return d.Recording
	}
	return RecordingNotice
}

// Rows returns the single-line blocks in order.
func (d DetailPage) Rows() []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.IsRow() {
			out = append(out, b)
		}
	}
	return out
}

// Sections returns the list blocks in order.
func (d DetailPage) Sections() []Block {
	var out []Block
	for _, b := range d.Blocks {
		if !b.IsRow() {
			out = append(out, b)
		}
	}
	return out
}

// BuildSummary derives the summary card of rec.
func BuildSummary(rec model.EventRecord) SummaryPage {
	teaser := strings.TrimSpace(rec.Teaser)
	if teaser == "" {
		teaser = DefaultTeaser
	}
	return SummaryPage{
		ID:       rec.ID,
		Title:    rec.Title,
		Status:   rec.Status,
		Date:     rec.Date,
		Time:     rec.Time,
		Location: rec.Location,
		Image:    rec.Image,
		Teaser:   teaser,
		Action:   ActionLabel,
	}
}

// BuildDetail derives the detail view of rec. gallery is used when the
// record carries no gallery of its own.
func BuildDetail(rec model.EventRecord, gallery []string) DetailPage {
	d := DetailPage{
		ID:          rec.ID,
		Title:       rec.Title,
		Status:      rec.Status,
		Date:        rec.Date,
		Time:        rec.Time,
		Location:    rec.Location,
		Image:       rec.Image,
		Description: rec.Description,

		GalleryTitle:   GalleryTitle,
		RecordingTitle: RecordingTitle,
		Back:           BackLabel,
	}
	if rec.HasDuration() {
		d.Duration = strings.TrimSpace(rec.Duration)
	}
	if rec.HasRecording() {
		d.Recording = strings.TrimSpace(rec.Recording)
	}

	if rec.HasSpeaker() {
		d.Blocks = append(d.Blocks, Block{Kind: BlockSpeaker, Title: "Speaker", Value: strings.TrimSpace(rec.Speaker)})
	}
	if rec.HasLevel() {
		d.Blocks = append(d.Blocks, Block{Kind: BlockLevel, Title: "Level", Value: strings.TrimSpace(rec.Level)})
	}
	if rec.HasTargetAudience() {
		d.Blocks = append(d.Blocks, Block{Kind: BlockTargetAudience, Title: "Target Audience", Value: strings.TrimSpace(rec.TargetAudience)})
	}
	if rec.HasAgenda() {
		slots := make([]AgendaSlot, 0, len(rec.Agenda))
		for _, it := range rec.Agenda {
			if strings.TrimSpace(it.Time) == "" && strings.TrimSpace(it.Session) == "" {
				continue
			}
			slots = append(slots, AgendaSlot{Time: it.Time, Session: it.Session})
		}
		d.Blocks = append(d.Blocks, Block{Kind: BlockAgenda, Title: "Topics Covered", Slots: slots})
	}
	if rec.HasLearningOutcomes() {
		d.Blocks = append(d.Blocks, Block{Kind: BlockLearningOutcomes, Title: "Key Takeaways", Items: nonBlank(rec.LearningOutcomes)})
	}
	if rec.HasAdditionalEngagement() {
		d.Blocks = append(d.Blocks, Block{Kind: BlockAdditionalEngagement, Title: "Engagement", Items: nonBlank(rec.AdditionalEngagement)})
	}

	src := rec.Gallery
	if len(nonBlank(src)) == 0 {
		src = gallery
	}
	d.Gallery = nonBlank(src)
	return d
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
