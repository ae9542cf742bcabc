package display

import (
	"sync"

	"tsunami_usgs/internal/models"
)

// Board keeps the current text of each region in memory. It is the surface
// read by the HTTP screen and the websocket stream.
type Board struct {
	mu      sync.RWMutex
	labels  models.Labels
	changed chan struct{}
}

func NewBoard() *Board {
	return &Board{changed: make(chan struct{})}
}

// SetText updates one region and wakes everyone waiting on Changed.
// The board only turns ready once every region holds text.
// Unknown regions are ignored.
func (b *Board) SetText(region Region, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.apply(region, text) {
		return
	}
	l := &b.labels
	l.Ready = l.Title != "" && l.Date != "" && l.TsunamiAlert != ""
	b.notify()
}

// SetTexts applies a complete render under one lock with a single wake-up.
// The board is ready afterwards even if the render left a region out.
func (b *Board) SetTexts(updates ...Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	applied := false
	for _, u := range updates {
		if b.apply(u.Region, u.Text) {
			applied = true
		}
	}
	if !applied {
		return
	}
	b.labels.Ready = true
	b.notify()
}

func (b *Board) apply(region Region, text string) bool {
	switch region {
	case RegionTitle:
		b.labels.Title = text
	case RegionDate:
		b.labels.Date = text
	case RegionTsunamiAlert:
		b.labels.TsunamiAlert = text
	default:
		return false
	}
	return true
}

// notify must be called with mu held.
func (b *Board) notify() {
	close(b.changed)
	b.changed = make(chan struct{})
}

// Labels returns a copy of the current regions.
func (b *Board) Labels() models.Labels {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.labels
}

// Changed returns a channel closed on the next update.
func (b *Board) Changed() <-chan struct{} {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.changed
}
