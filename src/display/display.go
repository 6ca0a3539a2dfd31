// Package display exposes the active display geometry used by edge-margin
// detection. Bounds are queried lazily and cached briefly because the edge
// check runs on every classified gesture.
package display

import (
	"sync"
	"time"

	"github.com/kbinani/screenshot"

	"selection-capture/src/gesture"
)

const cacheTTL = 5 * time.Second

var (
	mu       sync.Mutex
	cached   []gesture.Rect
	cachedAt time.Time
)

// Bounds returns the bounds of all active displays in virtual-screen
// coordinates. Returns nil when no display is available (headless tests).
func Bounds() []gesture.Rect {
	mu.Lock()
	defer mu.Unlock()
	if cached != nil && time.Since(cachedAt) < cacheTTL {
		return cached
	}

	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil
	}
	rects := make([]gesture.Rect, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		rects = append(rects, gesture.Rect{
			MinX: float64(b.Min.X),
			MinY: float64(b.Min.Y),
			MaxX: float64(b.Max.X),
			MaxY: float64(b.Max.Y),
		})
	}
	cached = rects
	cachedAt = time.Now()
	return rects
}
