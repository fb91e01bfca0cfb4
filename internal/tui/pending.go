package tui

import (
	"sync"
	"time"

	"github.com/angristan/tradfri-tui/internal/tui/screens"
)

const pendingOpExpiry = 5 * time.Second

// Direction represents the direction of a change
type Direction = screens.Direction

const (
	DirExact = screens.DirExact
	DirUp    = screens.DirUp
	DirDown  = screens.DirDown
)

// Pending fields
const (
	FieldPower      = screens.FieldPower
	FieldBrightness = screens.FieldBrightness
	FieldColor      = screens.FieldColor
)

// PendingOp represents an in-flight write that has not been observed in a poll yet
type PendingOp struct {
	Field     string    // "power", "brightness", "color"
	Target    any       // target value we're moving toward
	Direction Direction // direction of change
	ExpiresAt time.Time
}

type pendingKey struct {
	resource string
	id       int
	field    string
}

// PendingTracker tracks pending writes so a poll that raced a write does not
// flip the optimistic state back
type PendingTracker struct {
	ops map[pendingKey]*PendingOp
	mu  sync.Mutex
}

// NewPendingTracker creates a new pending operations tracker
func NewPendingTracker() *PendingTracker {
	return &PendingTracker{
		ops: make(map[pendingKey]*PendingOp),
	}
}

// Add registers a pending operation (exact match)
func (t *PendingTracker) Add(resource string, id int, field string, value any) {
	t.AddWithDirection(resource, id, field, value, DirExact)
}

// AddWithDirection registers a pending operation with a direction
func (t *PendingTracker) AddWithDirection(resource string, id int, field string, target any, dir Direction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ops[pendingKey{resource, id, field}] = &PendingOp{
		Field:     field,
		Target:    target,
		Direction: dir,
		ExpiresAt: time.Now().Add(pendingOpExpiry),
	}
}

// ShouldIgnore checks if a polled value should be ignored.
// Returns true if the value is on the way to our target or matches it.
// Clears the pending op once the target is reached or passed.
func (t *PendingTracker) ShouldIgnore(resource string, id int, field string, value any) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := pendingKey{resource, id, field}
	op, exists := t.ops[key]
	if !exists {
		return false
	}

	if time.Now().After(op.ExpiresAt) {
		delete(t.ops, key)
		return false
	}

	switch op.Direction {
	case DirExact:
		if valuesEqual(op.Target, value) {
			delete(t.ops, key)
		}
		// Stale value from a poll issued before the write landed
		return true

	case DirUp:
		cmp := compareValues(value, op.Target)
		if cmp <= 0 {
			if cmp == 0 {
				delete(t.ops, key)
			}
			return true
		}
		// Value went higher than target - external change
		delete(t.ops, key)
		return false

	case DirDown:
		cmp := compareValues(value, op.Target)
		if cmp >= 0 {
			if cmp == 0 {
				delete(t.ops, key)
			}
			return true
		}
		// Value went lower than target - external change
		delete(t.ops, key)
		return false
	}

	return false
}

// Forget drops every pending op for a resource, used when a write failed
func (t *PendingTracker) Forget(resource string, id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key := range t.ops {
		if key.resource == resource && key.id == id {
			delete(t.ops, key)
		}
	}
}

// Len returns the number of tracked operations
func (t *PendingTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ops)
}

// Cleanup removes expired pending operations
func (t *PendingTracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for key, op := range t.ops {
		if now.After(op.ExpiresAt) {
			delete(t.ops, key)
		}
	}
}

// compareValues compares two numeric values
// Returns -1 if a < b, 0 if a == b, 1 if a > b
func compareValues(a, b any) int {
	af := toFloat64(a)
	bf := toFloat64(b)

	if af < bf {
		return -1
	} else if af > bf {
		return 1
	}
	return 0
}

func toFloat64(v any) float64 {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float64:
		return val
	}
	return 0
}

// valuesEqual compares two values for equality (exact match)
func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
	case int, int64, float64:
		return toFloat64(a) == toFloat64(b)
	}
	return false
}
