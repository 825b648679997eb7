package render

import "sync"

// Board holds the most recently published view. Views with a sequence at or below the
// last published one are rejected.
type Board struct {
	mu     sync.RWMutex
	latest View
	has    bool
	subs   map[int]chan View
	nextID int
}

// NewBoard constructs an empty Board.
func NewBoard() *Board {
	return &Board{subs: make(map[int]chan View)}
}

// Publish stores v if it is newer than the current view and notifies subscribers.
func (b *Board) Publish(v View) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.has && v.Seq <= b.latest.Seq {
		return false
	}
	b.latest = v
	b.has = true
	for _, ch := range b.subs {
		offerLatest(ch, v)
	}
	return true
}

// Latest returns the current view and whether one has been published.
func (b *Board) Latest() (View, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.has
}

// Subscribe returns a channel that always holds the newest unread view, and a cancel func.
// Slow readers skip intermediate views.
func (b *Board) Subscribe() (<-chan View, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan View, 1)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func offerLatest(ch chan View, v View) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
