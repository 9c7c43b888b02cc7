// Package charts renders the analytics charts and owns their per-slot lifecycle.
package charts

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ecotrack/internal/domain/models"
)

// Slot names a display position that holds at most one chart.
type Slot string

const (
	SlotTrend      Slot = "trend"
	SlotComparison Slot = "comparison"
)

// ParseSlot validates a slot name coming from a URL.
func ParseSlot(name string) (Slot, error) {
	switch Slot(name) {
	case SlotTrend, SlotComparison:
		return Slot(name), nil
	}
	return "", fmt.Errorf("unknown chart slot %q", name)
}

// Instance is one rendered chart bound to a slot.
type Instance struct {
	Slot      Slot
	Seq       uint64
	CreatedAt time.Time

	mu        sync.RWMutex
	png       []byte
	destroyed bool
}

// PNG returns the rendered image, or nil once the instance was destroyed.
func (i *Instance) PNG() []byte {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.png
}

// Destroy releases the rendered image. It is safe to call more than once.
func (i *Instance) Destroy() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.png = nil
	i.destroyed = true
}

// Destroyed reports whether Destroy was called.
func (i *Instance) Destroyed() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.destroyed
}

// Board holds the live chart of every slot. Drawing into a slot destroys the
// instance it held before the new one is rendered.
type Board struct {
	mu        sync.Mutex
	slots     map[Slot]*Instance
	seq       uint64
	destroyed int
	logger    *zap.Logger
	now       func() time.Time
}

// NewBoard returns a board with every slot empty.
func NewBoard(logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Board{
		slots:  make(map[Slot]*Instance),
		logger: logger,
		now:    time.Now,
	}
}

// DrawTrend renders the bar + line combo into SlotTrend.
func (b *Board) DrawTrend(series models.TrendSeries) (*Instance, error) {
	return b.draw(SlotTrend, func() ([]byte, bool, error) { return renderTrend(series) })
}

// DrawComparison renders the production vs recycling lines into SlotComparison.
func (b *Board) DrawComparison(points []models.ComparisonPoint) (*Instance, error) {
	return b.draw(SlotComparison, func() ([]byte, bool, error) { return renderComparison(points) })
}

func (b *Board) draw(slot Slot, render func() ([]byte, bool, error)) (*Instance, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseLocked(slot)

	png, ok, err := render()
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", slot, err)
	}
	if !ok {
		b.logger.Debug("chart has no series, slot left empty", zap.String("slot", string(slot)))
		return nil, nil
	}

	b.seq++
	inst := &Instance{Slot: slot, Seq: b.seq, CreatedAt: b.now(), png: png}
	b.slots[slot] = inst
	b.logger.Debug("chart drawn", zap.String("slot", string(slot)), zap.Uint64("seq", inst.Seq), zap.Int("bytes", len(png)))
	return inst, nil
}

// Clear destroys every live instance.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for slot := range b.slots {
		b.releaseLocked(slot)
	}
}

func (b *Board) releaseLocked(slot Slot) {
	inst, ok := b.slots[slot]
	if !ok {
		return
	}
	inst.Destroy()
	delete(b.slots, slot)
	b.destroyed++
}

// Current returns the live instance of slot.
func (b *Board) Current(slot Slot) (*Instance, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	inst, ok := b.slots[slot]
	return inst, ok
}

// Live counts slots currently holding an instance.
func (b *Board) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slots)
}

// Destroyed counts instances released since the board was created.
func (b *Board) Destroyed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyed
}
