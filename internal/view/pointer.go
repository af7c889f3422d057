package view

// Point is a pointer position in the renderer's coordinate space (cells
// for the terminal UI).
type Point struct {
	X, Y int
}

// Rect is an axis-aligned box. The zero Rect contains nothing.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether p lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// PointerListener receives pointer-down events.
type PointerListener func(Point)

// PointerBus is the document-wide pointer-down registry. Renderers feed
// raw pointer-downs into Dispatch; components subscribe with Add.
type PointerBus struct {
	nextID    int
	order     []int
	listeners map[int]PointerListener
}

func NewPointerBus() *PointerBus {
	return &PointerBus{listeners: make(map[int]PointerListener)}
}

// Add subscribes l and returns a remove func. Calling remove more than
// once is harmless.
func (b *PointerBus) Add(l PointerListener) (remove func()) {
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.order = append(b.order, id)

	return func() {
		if _, ok := b.listeners[id]; !ok {
			return
		}
		delete(b.listeners, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Dispatch delivers p to the listeners registered when Dispatch started.
// A listener removed by an earlier listener during the same dispatch is
// skipped.
func (b *PointerBus) Dispatch(p Point) {
	snapshot := append([]int(nil), b.order...)
	for _, id := range snapshot {
		l, ok := b.listeners[id]
		if !ok {
			continue
		}
		l(p)
	}
}

// Len returns the number of registered listeners.
func (b *PointerBus) Len() int {
	return len(b.listeners)
}
