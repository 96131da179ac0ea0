package venue

import (
	"github.com/openvenue/venue-core/record"
)

// The event queue is a bounded ring of fixed-width event slots living in a
// caller-supplied byte region, framed by a record.EventQueueHeader. The
// backing region is never reallocated; when the queue is full the oldest
// event is dropped. Head and tail are wrapping u64 counters, so drop-oldest
// behavior holds bit-for-bit across counter wraparound.

// InitQueueHeader sizes a zeroed header to the region that backs it.
// Returns ErrQueueTooSmall if the region cannot hold one slot.
func InitQueueHeader(h *record.EventQueueHeader, region []byte) error {
	capacity := uint64(len(region) / record.EventSlotSize)
	if capacity == 0 {
		return ErrQueueTooSmall
	}
	h.Head = 0
	h.Tail = 0
	h.Capacity = capacity
	return nil
}

// PushEvent encodes ev into the slot at tail and advances tail by one. If
// the queue was already full, head advances too and the oldest event is
// silently overwritten. Data loss on a full queue is the contract: bounded
// memory, most-recent-N retention.
func PushEvent(h *record.EventQueueHeader, region []byte, ev record.Event) error {
	if h.Capacity == 0 {
		return ErrQueueTooSmall
	}

	idx := h.Tail % h.Capacity
	offset := int(idx) * record.EventSlotSize
	if offset+record.EventSlotSize > len(region) {
		return ErrInvalidAccountData
	}

	if _, err := record.EncodeEvent(region[offset:offset+record.EventSlotSize], ev); err != nil {
		return ErrInvalidAccountData
	}

	h.Tail++
	if h.Tail-h.Head > h.Capacity {
		h.Head++
	}
	return nil
}

// PeekEvents decodes the retained events oldest-first without consuming
// them.
func PeekEvents(h record.EventQueueHeader, region []byte) ([]record.Event, error) {
	if h.Capacity == 0 {
		return nil, nil
	}

	n := h.Len()
	events := make([]record.Event, 0, n)
	for seq := h.Head; seq != h.Tail; seq++ {
		offset := int(seq%h.Capacity) * record.EventSlotSize
		if offset+record.EventSlotSize > len(region) {
			return nil, ErrInvalidAccountData
		}
		ev, err := record.DecodeEvent(region[offset : offset+record.EventSlotSize])
		if err != nil {
			return nil, ErrInvalidAccountData
		}
		events = append(events, ev)
	}
	return events, nil
}

// DrainEvents decodes and consumes all retained events, advancing head to
// tail. This is the settlement-reader side of the queue.
func DrainEvents(h *record.EventQueueHeader, region []byte) ([]record.Event, error) {
	events, err := PeekEvents(*h, region)
	if err != nil {
		return nil, err
	}
	h.Head = h.Tail
	return events, nil
}
