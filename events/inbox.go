// @focus: #inbox { ring }
package events

import (
	"sync/atomic"
)

const (
	// InboxSize bounds pending state changes between two frames. Must
	// be a power of two
	InboxSize = 64

	inboxMask = InboxSize - 1
)

// Inbox is a lock-free MPSC ring buffer carrying state changes from
// host goroutines into the frame loop
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK
//   - Drain: Single consumer (frame loop)
//   - Published flags prevent reading partial writes
//
// Overflow: oldest changes are overwritten when full and counted in
// Dropped; for a debounced state feed losing the oldest is the right
// failure mode
type Inbox struct {
	slots     [InboxSize]StateChange
	published [InboxSize]atomic.Bool // True = slot fully written
	head      atomic.Uint64          // Read index
	tail      atomic.Uint64          // Write index
	dropped   atomic.Uint64
}

func NewInbox() *Inbox {
	in := &Inbox{}
	in.head.Store(0)
	in.tail.Store(0)
	return in
}

// Push adds a change using lock-free CAS with published flags
// Safe for concurrent producers. O(1) amortized
func (in *Inbox) Push(ev StateChange) {
	for {
		currentTail := in.tail.Load()
		nextTail := currentTail + 1

		if in.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & inboxMask

			in.slots[idx] = ev
			in.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread changes
			currentHead := in.head.Load()
			if nextTail-currentHead > InboxSize {
				newHead := nextTail - InboxSize
				if in.head.CompareAndSwap(currentHead, newHead) {
					in.dropped.Add(newHead - currentHead)
				}
			}
			return
		}
	}
}

// Drain returns all pending changes in FIFO order, appended into buf
// so the frame loop can reuse one buffer across frames. Single
// consumer; checks published flags for safety
func (in *Inbox) Drain(buf []StateChange) []StateChange {
	for {
		currentHead := in.head.Load()
		currentTail := in.tail.Load()

		if currentTail == currentHead {
			return buf[:0]
		}

		available := currentTail - currentHead
		if available > InboxSize {
			available = InboxSize
			currentHead = currentTail - InboxSize
		}

		out := buf[:0]
		for i := uint64(0); i < available; i++ {
			idx := (currentHead + i) & inboxMask

			if !in.published[idx].Load() {
				break // Writer incomplete
			}

			out = append(out, in.slots[idx])
			in.published[idx].Store(false)
		}

		newHead := currentHead + uint64(len(out))
		if in.head.CompareAndSwap(currentHead, newHead) {
			return out
		}
	}
}

// Dropped returns the total changes lost to overflow
func (in *Inbox) Dropped() uint64 {
	return in.dropped.Load()
}
