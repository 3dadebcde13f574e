package ldapwire

import (
	"math"
	"sync/atomic"
)

// MaxMessageID is the largest message ID the protocol permits
// (maxInt INTEGER per RFC 4511). The successor of MaxMessageID wraps
// to 1; 0 is reserved for unsolicited notifications and never issued.
const MaxMessageID = math.MaxInt32

// MessageIDAllocator issues strictly increasing message IDs, wrapping
// from MaxMessageID back to 1. It is safe for concurrent callers; hold
// one allocator per session and share it by reference with whichever
// component builds requests.
//
// The zero value is ready to use and issues 1 first.
type MessageIDAllocator struct {
	last atomic.Int32
}

// NewMessageIDAllocator returns a fresh allocator whose first Next
// call returns 1.
func NewMessageIDAllocator() *MessageIDAllocator {
	return &MessageIDAllocator{}
}

// Next returns the next message ID. Allocation is a single atomic
// compare-and-swap with wraparound, never an unguarded read-modify-
// write.
func (a *MessageIDAllocator) Next() int32 {
	for {
		cur := a.last.Load()
		next := cur + 1
		if cur == MaxMessageID {
			next = 1
		}
		if a.last.CompareAndSwap(cur, next) {
			return next
		}
	}
}
