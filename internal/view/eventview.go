package view

import (
	"eventpage/internal/model"
)

// EventView is the stateful presentation unit for one event record. It
// owns the Summary/Detail machine and wires the two Detail reactions:
// scroll-to-top and outside-click collapse.
type EventView struct {
	rec     model.EventRecord
	gallery []string
	machine *Machine

	bounds    Rect
	hasBounds bool
}

// New mounts a view for rec in the Summary state. Pointer-downs reach the
// view through bus; scroller is reset on every entry into Detail.
func New(rec model.EventRecord, gallery []string, bus *PointerBus, scroller Scroller) *EventView {
	v := &EventView{
		rec:     rec,
		gallery: gallery,
		machine: NewMachine(),
	}
	v.machine.On(Detail, ScrollToTop(scroller))
	v.machine.On(Detail, OutsideClick(bus, v.detailBounds, func() { v.ExitDetail() }))
	return v
}

// Record returns the record the view was mounted with.
func (v *EventView) Record() model.EventRecord { return v.rec }

func (v *EventView) State() State { return v.machine.State() }

// Observe forwards to the underlying machine.
func (v *EventView) Observe(fn func(from, to State)) { v.machine.Observe(fn) }

// EnterDetail moves Summary to Detail. It reports whether anything
// happened; calling it in Detail or after Unmount does nothing.
func (v *EventView) EnterDetail() bool {
	changed, _ := v.machine.Transition(Detail)
	return changed
}

// ExitDetail moves Detail back to Summary and drops the detail bounds.
func (v *EventView) ExitDetail() bool {
	changed, _ := v.machine.Transition(Summary)
	if changed {
		v.hasBounds = false
	}
	return changed
}

// SetDetailBounds records where the renderer placed the detail container.
func (v *EventView) SetDetailBounds(r Rect) {
	v.bounds = r
	v.hasBounds = true
}

func (v *EventView) detailBounds() (Rect, bool) {
	return v.bounds, v.hasBounds
}

// Unmount tears the view down, releasing the outside-click listener if
// the view is still in Detail.
func (v *EventView) Unmount() {
	v.machine.Close()
}

// Summary returns the summary card of the record.
func (v *EventView) Summary() SummaryPage {
	return BuildSummary(v.rec)
}

// Detail returns the detail view of the record.
func (v *EventView) Detail() DetailPage {
	return BuildDetail(v.rec, v.gallery)
}
