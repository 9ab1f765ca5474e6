package voxcontour

import "sync"

// ChangeEvent is the single event kind ContoursPerSlice raises after any
// mutation: observers are expected to re-read state rather than diff it.
type ChangeEvent struct{}

// ContoursPerSlice is a concurrent map from slice index to the smoothed,
// spliced polygon list produced (or interpolated) for that slice. All
// mutation methods raise a single ChangeEvent to every subscribed observer
// after they complete.
type ContoursPerSlice struct {
	mu        sync.RWMutex
	slices    map[int][]ContourPolygon
	observers []func(ChangeEvent)
}

// NewContoursPerSlice returns an empty container.
func NewContoursPerSlice() *ContoursPerSlice {
	return &ContoursPerSlice{slices: make(map[int][]ContourPolygon)}
}

// Subscribe registers fn to be called after every mutation.
func (c *ContoursPerSlice) Subscribe(fn func(ChangeEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

func (c *ContoursPerSlice) notifyReset() {
	for _, fn := range c.observers {
		fn(ChangeEvent{})
	}
}

// SlicesWithContours returns a snapshot of the slice indices currently
// holding a non-empty contour list. Enumeration order is undefined.
func (c *ContoursPerSlice) SlicesWithContours() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]int, 0, len(c.slices))
	for k := range c.slices {
		out = append(out, k)
	}
	return out
}

// ContoursForSlice returns the polygon list for slice i, failing with
// ErrOutOfRange if no entry exists for it.
func (c *ContoursPerSlice) ContoursForSlice(i int) ([]ContourPolygon, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.slices[i]
	if !ok {
		return nil, newErr(ErrOutOfRange, "ContoursForSlice", "no entry for slice %d", i)
	}
	out := make([]ContourPolygon, len(v))
	copy(out, v)
	return out, nil
}

// TryContoursForSlice is the non-failing counterpart of ContoursForSlice.
func (c *ContoursPerSlice) TryContoursForSlice(i int) ([]ContourPolygon, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.slices[i]
	if !ok {
		return nil, false
	}
	out := make([]ContourPolygon, len(v))
	copy(out, v)
	return out, true
}

// ContainsKey reports whether slice i has an entry.
func (c *ContoursPerSlice) ContainsKey(i int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.slices[i]
	return ok
}

// Replace atomically clears the container then copies every non-empty entry
// of other into it, raising one ChangeEvent.
func (c *ContoursPerSlice) Replace(other *ContoursPerSlice) {
	other.mu.RLock()
	snapshot := make(map[int][]ContourPolygon, len(other.slices))
	for k, v := range other.slices {
		if len(v) == 0 {
			continue
		}
		cp := make([]ContourPolygon, len(v))
		copy(cp, v)
		snapshot[k] = cp
	}
	other.mu.RUnlock()

	c.mu.Lock()
	c.slices = snapshot
	c.notifyReset()
	c.mu.Unlock()
}

// Append merges other into the container: for every key in other, a
// non-empty list is inserted or overwritten, an empty one removes the key.
// Raises one ChangeEvent.
func (c *ContoursPerSlice) Append(other *ContoursPerSlice) {
	other.mu.RLock()
	entries := make(map[int][]ContourPolygon, len(other.slices))
	for k, v := range other.slices {
		cp := make([]ContourPolygon, len(v))
		copy(cp, v)
		entries[k] = cp
	}
	other.mu.RUnlock()

	c.mu.Lock()
	for k, v := range entries {
		if len(v) == 0 {
			delete(c.slices, k)
			continue
		}
		c.slices[k] = v
	}
	c.notifyReset()
	c.mu.Unlock()
}

// Set installs list as slice i's polygons (removing the key if list is
// empty) without requiring a second ContoursPerSlice, then raises one
// ChangeEvent. This is the single-slice counterpart of Append, used by the
// per-slice extraction and interpolation pipelines.
func (c *ContoursPerSlice) Set(i int, list []ContourPolygon) {
	c.mu.Lock()
	if len(list) == 0 {
		delete(c.slices, i)
	} else {
		cp := make([]ContourPolygon, len(list))
		copy(cp, list)
		c.slices[i] = cp
	}
	c.notifyReset()
	c.mu.Unlock()
}
