package interact

import "github.com/taigrr/roomfolio/pkg/math3d"

// PointerListener receives pointer events in viewport coordinates.
type PointerListener interface {
	PointerMove(x, y float64)
	PointerDown(x, y float64)
	PointerUp(x, y float64)
	PointerLeave()
}

// PointerSource delivers pointer events to subscribed listeners until the
// returned func is called.
type PointerSource interface {
	Subscribe(l PointerListener) (unsubscribe func())
}

// Bus fans pointer events out to its listeners. The terminal host feeds
// it from the input loop.
type Bus struct {
	next      int
	listeners map[int]PointerListener
	order     []int
}

// NewBus creates a bus with no listeners.
func NewBus() *Bus {
	return &Bus{listeners: make(map[int]PointerListener)}
}

// Subscribe implements PointerSource. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(l PointerListener) func() {
	id := b.next
	b.next++
	b.listeners[id] = l
	b.order = append(b.order, id)
	return func() {
		if _, ok := b.listeners[id]; !ok {
			return
		}
		delete(b.listeners, id)
		for i, o := range b.order {
			if o == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	}
}

// Len returns the number of subscribed listeners.
func (b *Bus) Len() int { return len(b.listeners) }

func (b *Bus) each(fn func(PointerListener)) {
	for _, id := range append([]int(nil), b.order...) {
		if l, ok := b.listeners[id]; ok {
			fn(l)
		}
	}
}

// Move dispatches a pointer move.
func (b *Bus) Move(x, y float64) { b.each(func(l PointerListener) { l.PointerMove(x, y) }) }

// Down dispatches a button press.
func (b *Bus) Down(x, y float64) { b.each(func(l PointerListener) { l.PointerDown(x, y) }) }

// Up dispatches a button release.
func (b *Bus) Up(x, y float64) { b.each(func(l PointerListener) { l.PointerUp(x, y) }) }

// Leave dispatches the pointer leaving the viewport.
func (b *Bus) Leave() { b.each(func(l PointerListener) { l.PointerLeave() }) }

// NDC maps a viewport position to normalized device coordinates, x right
// and y up in [-1, 1].
func NDC(x, y, width, height float64) math3d.Vec2 {
	if width <= 0 || height <= 0 {
		return math3d.Vec2{}
	}
	return math3d.V2(x/width*2-1, -(y/height)*2+1)
}
