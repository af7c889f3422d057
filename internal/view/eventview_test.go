package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventpage/internal/model"
)

type countingScroller struct {
	calls  int
	smooth []bool
}

func (s *countingScroller) ScrollToTop(smooth bool) {
	s.calls++
	s.smooth = append(s.smooth, smooth)
}

func fullRecord() model.EventRecord {
	return model.EventRecord{
		ID:             "git-it-right-workshop",
		Title:          "Git It Right!",
		Status:         "Completed",
		Date:           "April 26th, 2025",
		Time:           "Held Successfully",
		Duration:       "1.5 to 2 hours",
		Location:       "Online",
		Description:    "Students learned Git.",
		Speaker:        "Vinayak Sharma",
		Level:          "Beginner-friendly",
		TargetAudience: "1st and 2nd years",
		Agenda: []model.AgendaItem{
			{Time: "00:00 - 00:10", Session: "Welcome"},
			{Time: "00:10 - 00:30", Session: "Understanding Git"},
			{Time: "00:30 - 00:55", Session: "Getting Started with GitHub"},
		},
		LearningOutcomes:     []string{"Purpose of Git", "Managed repositories"},
		AdditionalEngagement: []string{"High participation", "Cheat sheets", "Open source"},
	}
}

func mount(t *testing.T, rec model.EventRecord) (*EventView, *PointerBus, *countingScroller) {
	t.Helper()
	bus := NewPointerBus()
	sc := &countingScroller{}
	v := New(rec, []string{"a.jpg", "b.jpg"}, bus, sc)
	t.Cleanup(v.Unmount)
	return v, bus, sc
}

func TestEventView_StartsInSummaryWithoutListener(t *testing.T) {
	v, bus, sc := mount(t, fullRecord())

	assert.Equal(t, Summary, v.State())
	assert.Equal(t, 0, bus.Len())
	assert.Equal(t, 0, sc.calls)
}

func TestEventView_SummaryHasSingleActionEnteringDetail(t *testing.T) {
	v, _, _ := mount(t, fullRecord())

	page := v.Summary()
	assert.Equal(t, ActionLabel, page.Action)
	assert.Equal(t, DefaultTeaser, page.Teaser)

	require.True(t, v.EnterDetail())
	assert.Equal(t, Detail, v.State())
}

func TestEventView_EnterDetailScrollsToTopOnce(t *testing.T) {
	v, bus, sc := mount(t, fullRecord())

	require.True(t, v.EnterDetail())
	assert.Equal(t, 1, sc.calls)
	assert.Equal(t, []bool{true}, sc.smooth)
	assert.Equal(t, 1, bus.Len())

	// Repeated entry and re-renders are no-ops.
	assert.False(t, v.EnterDetail())
	_ = v.Detail()
	_ = v.Detail()
	assert.Equal(t, 1, sc.calls)
	assert.Equal(t, 1, bus.Len())
}

func TestEventView_ScrollResetPerTransition(t *testing.T) {
	v, _, sc := mount(t, fullRecord())

	for i := 0; i < 3; i++ {
		require.True(t, v.EnterDetail())
		require.True(t, v.ExitDetail())
	}
	assert.Equal(t, 3, sc.calls)
}

func TestEventView_PointerDownInsideKeepsDetail(t *testing.T) {
	v, bus, _ := mount(t, fullRecord())
	require.True(t, v.EnterDetail())
	v.SetDetailBounds(Rect{X: 2, Y: 1, Width: 40, Height: 20})

	bus.Dispatch(Point{X: 10, Y: 5})
	assert.Equal(t, Detail, v.State())
	assert.Equal(t, 1, bus.Len())
}

func TestEventView_PointerDownOutsideExitsDetail(t *testing.T) {
	v, bus, _ := mount(t, fullRecord())
	require.True(t, v.EnterDetail())
	v.SetDetailBounds(Rect{X: 2, Y: 1, Width: 40, Height: 20})

	bus.Dispatch(Point{X: 0, Y: 0})
	assert.Equal(t, Summary, v.State())
	assert.Equal(t, 0, bus.Len())
}

func TestEventView_PointerDownWithoutBoundsIgnored(t *testing.T) {
	v, bus, _ := mount(t, fullRecord())
	require.True(t, v.EnterDetail())

	bus.Dispatch(Point{X: 100, Y: 100})
	assert.Equal(t, Detail, v.State())
}

func TestEventView_ExitDetailRemovesListener(t *testing.T) {
	v, bus, _ := mount(t, fullRecord())
	require.True(t, v.EnterDetail())
	v.SetDetailBounds(Rect{Width: 10, Height: 10})

	require.True(t, v.ExitDetail())
	assert.Equal(t, 0, bus.Len())

	// Simulate a stale capture of the old bounds: still nothing fires.
	bus.Dispatch(Point{X: 50, Y: 50})
	assert.Equal(t, Summary, v.State())
	assert.False(t, v.ExitDetail())
}

func TestEventView_UnmountInDetailRemovesListener(t *testing.T) {
	bus := NewPointerBus()
	sc := &countingScroller{}
	v := New(fullRecord(), nil, bus, sc)

	var transitions int
	v.Observe(func(_, _ State) { transitions++ })

	require.True(t, v.EnterDetail())
	v.SetDetailBounds(Rect{Width: 10, Height: 10})
	v.Unmount()

	assert.Equal(t, 0, bus.Len())
	bus.Dispatch(Point{X: 50, Y: 50})
	assert.Equal(t, 1, transitions)
	assert.Equal(t, Detail, v.State())

	assert.False(t, v.EnterDetail())
	assert.False(t, v.ExitDetail())
	assert.Equal(t, 1, sc.calls)

	// Unmount is idempotent.
	v.Unmount()
}

func TestEventView_TwoViewsShareBus(t *testing.T) {
	bus := NewPointerBus()
	a := New(fullRecord(), nil, bus, &countingScroller{})
	b := New(fullRecord(), nil, bus, &countingScroller{})
	defer a.Unmount()
	defer b.Unmount()

	require.True(t, a.EnterDetail())
	require.True(t, b.EnterDetail())
	a.SetDetailBounds(Rect{Width: 10, Height: 10})
	b.SetDetailBounds(Rect{X: 20, Width: 10, Height: 10})

	bus.Dispatch(Point{X: 5, Y: 5})
	assert.Equal(t, Detail, a.State())
	assert.Equal(t, Summary, b.State())
	assert.Equal(t, 1, bus.Len())
}
