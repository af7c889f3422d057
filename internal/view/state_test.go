package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine_ReleasesInReverseOrder(t *testing.T) {
	m := NewMachine()
	var log []string
	m.On(Detail, func() func() {
		log = append(log, "acquire a")
		return func() { log = append(log, "release a") }
	})
	m.On(Detail, func() func() {
		log = append(log, "acquire b")
		return func() { log = append(log, "release b") }
	})

	changed, err := m.Transition(Detail)
	require.NoError(t, err)
	require.True(t, changed)
	_, err = m.Transition(Summary)
	require.NoError(t, err)

	assert.Equal(t, []string{"acquire a", "acquire b", "release b", "release a"}, log)
}

func TestMachine_EffectMayTransition(t *testing.T) {
	m := NewMachine()
	var released, laterRan bool
	m.On(Detail, func() func() {
		_, _ = m.Transition(Summary)
		return func() { released = true }
	})
	m.On(Detail, func() func() {
		laterRan = true
		return nil
	})

	_, err := m.Transition(Detail)
	require.NoError(t, err)

	assert.Equal(t, Summary, m.State())
	assert.True(t, released)
	assert.False(t, laterRan)
}

func TestMachine_ClosedRejectsTransitions(t *testing.T) {
	m := NewMachine()
	m.Close()

	changed, err := m.Transition(Detail)
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, changed)
	assert.True(t, m.Closed())
}

func TestPointerBus_RemoveDuringDispatch(t *testing.T) {
	bus := NewPointerBus()
	var secondCalls int
	var removeSecond func()

	bus.Add(func(Point) { removeSecond() })
	removeSecond = bus.Add(func(Point) { secondCalls++ })

	bus.Dispatch(Point{})
	assert.Equal(t, 0, secondCalls)
	assert.Equal(t, 1, bus.Len())

	removeSecond()
	assert.Equal(t, 1, bus.Len())
}

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 1, Y: 1, Width: 2, Height: 2}
	assert.True(t, r.Contains(Point{X: 1, Y: 1}))
	assert.True(t, r.Contains(Point{X: 2, Y: 2}))
	assert.False(t, r.Contains(Point{X: 3, Y: 2}))
	assert.False(t, r.Contains(Point{X: 0, Y: 1}))
	assert.False(t, Rect{}.Contains(Point{}))
}
