package record

import "encoding/binary"

// EventKind discriminates the settlement event union.
type EventKind uint8

const (
	// EventTrade records one fill between a maker and a taker.
	EventTrade EventKind = 0
	// EventFundingUpdate records a funding-rate change for a market.
	EventFundingUpdate EventKind = 1
)

const (
	tradeEventSize   = 1 + 2*idSize + 2*8
	fundingEventSize = 1 + idSize + 8

	// EventSlotSize is the uniform queue slot width: the maximum encoded
	// size across all event variants. Every encoded event is padded to
	// this width so slot offsets stay variant-independent.
	EventSlotSize = max(tradeEventSize, fundingEventSize)
)

// Event is a settlement event. Kind selects which fields are meaningful:
// Maker/Taker/PriceLots/BaseLots for a trade, Market/FundingRateBps for a
// funding update.
type Event struct {
	Kind EventKind

	// Trade fields.
	Maker     ID
	Taker     ID
	PriceLots int64
	BaseLots  int64

	// FundingUpdate fields.
	Market         ID
	FundingRateBps int64
}

// TradeEvent builds a trade event.
func TradeEvent(maker, taker ID, priceLots, baseLots int64) Event {
	return Event{Kind: EventTrade, Maker: maker, Taker: taker, PriceLots: priceLots, BaseLots: baseLots}
}

// FundingEvent builds a funding-update event.
func FundingEvent(market ID, rateBps int64) Event {
	return Event{Kind: EventFundingUpdate, Market: market, FundingRateBps: rateBps}
}

// EncodeEvent serializes an event into one full queue slot, zero-padding
// shorter variants up to EventSlotSize.
func EncodeEvent(dst []byte, e Event) ([]byte, error) {
	if cap(dst) < EventSlotSize {
		dst = make([]byte, EventSlotSize)
	} else {
		dst = dst[:EventSlotSize]
		for i := range dst {
			dst[i] = 0
		}
	}

	dst[0] = byte(e.Kind)
	switch e.Kind {
	case EventTrade:
		copy(dst[1:33], e.Maker[:])
		copy(dst[33:65], e.Taker[:])
		binary.LittleEndian.PutUint64(dst[65:73], uint64(e.PriceLots))
		binary.LittleEndian.PutUint64(dst[73:81], uint64(e.BaseLots))
	case EventFundingUpdate:
		copy(dst[1:33], e.Market[:])
		binary.LittleEndian.PutUint64(dst[33:41], uint64(e.FundingRateBps))
	default:
		return nil, ErrBadEventKind
	}

	return dst, nil
}

// DecodeEvent parses an event from the front of one queue slot.
func DecodeEvent(src []byte) (Event, error) {
	if len(src) < EventSlotSize {
		return Event{}, ErrShortBuffer
	}

	switch EventKind(src[0]) {
	case EventTrade:
		return Event{
			Kind:      EventTrade,
			Maker:     IDFromBytes(src[1:33]),
			Taker:     IDFromBytes(src[33:65]),
			PriceLots: int64(binary.LittleEndian.Uint64(src[65:73])),
			BaseLots:  int64(binary.LittleEndian.Uint64(src[73:81])),
		}, nil
	case EventFundingUpdate:
		return Event{
			Kind:           EventFundingUpdate,
			Market:         IDFromBytes(src[1:33]),
			FundingRateBps: int64(binary.LittleEndian.Uint64(src[33:41])),
		}, nil
	default:
		return Event{}, ErrBadEventKind
	}
}

// QueueHeaderSize is the encoded size of an EventQueueHeader; the queue
// data region starts at this offset in the queue storage buffer.
const QueueHeaderSize = 3 * 8

// EventQueueHeader frames the ring buffer: tail is the next write
// position, head the oldest retained position, both wrapping u64 counters.
// Invariant: tail-head <= capacity in wrapping arithmetic.
//
// Layout (little-endian): [head:8][tail:8][capacity:8]
type EventQueueHeader struct {
	Head     uint64
	Tail     uint64
	Capacity uint64
}

// Len returns the number of retained events.
func (h EventQueueHeader) Len() uint64 {
	return h.Tail - h.Head
}

// EncodeQueueHeader serializes a queue header into a fixed-size buffer.
func EncodeQueueHeader(dst []byte, h EventQueueHeader) []byte {
	if cap(dst) < QueueHeaderSize {
		dst = make([]byte, QueueHeaderSize)
	} else {
		dst = dst[:QueueHeaderSize]
	}

	binary.LittleEndian.PutUint64(dst[0:8], h.Head)
	binary.LittleEndian.PutUint64(dst[8:16], h.Tail)
	binary.LittleEndian.PutUint64(dst[16:24], h.Capacity)

	return dst
}

// DecodeQueueHeader parses a queue header from the front of src.
func DecodeQueueHeader(src []byte) (EventQueueHeader, error) {
	if len(src) < QueueHeaderSize {
		return EventQueueHeader{}, ErrShortBuffer
	}
	return EventQueueHeader{
		Head:     binary.LittleEndian.Uint64(src[0:8]),
		Tail:     binary.LittleEndian.Uint64(src[8:16]),
		Capacity: binary.LittleEndian.Uint64(src[16:24]),
	}, nil
}
