package view

// Scroller moves a viewport.
type Scroller interface {
	ScrollToTop(smooth bool)
}

// ScrollerFunc adapts a plain function to Scroller.
type ScrollerFunc func(smooth bool)

func (f ScrollerFunc) ScrollToTop(smooth bool) { f(smooth) }

// ScrollToTop resets s to the top with a smooth transition. It holds no
// resource.
func ScrollToTop(s Scroller) Effect {
	return func() func() {
		s.ScrollToTop(true)
		return nil
	}
}

// OutsideClick subscribes to bus for as long as the triggering state is
// active. A pointer-down outside bounds() calls onOutside; while bounds
// are unknown (ok == false) pointer-downs are ignored.
func OutsideClick(bus *PointerBus, bounds func() (Rect, bool), onOutside func()) Effect {
	return func() func() {
		return bus.Add(func(p Point) {
			r, ok := bounds()
			if !ok || r.Contains(p) {
				return
			}
			onOutside()
		})
	}
}
