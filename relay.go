package venue

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/openvenue/venue-core/record"
)

// ErrRelayTimeout is returned when shutdown times out.
var ErrRelayTimeout = errors.New("relay: shutdown timeout")

// Relay is an MPSC ring buffer fanning settlement events out to an
// EventSink. Producers claim sequence slots with CAS; a single consumer
// goroutine delivers events in sequence order. Unlike the on-record event
// queue, the relay never drops: a full buffer back-pressures producers.
type Relay struct {
	// Cache line padding to avoid false sharing
	_                [56]byte
	producerSequence atomic.Int64
	_                [56]byte
	consumerSequence atomic.Int64
	_                [56]byte

	buffer     []record.Event
	bufferMask int64
	capacity   int64

	// published marks slots whose write is visible to the consumer.
	published []int64

	sink EventSink

	isShutdown atomic.Bool
}

// NewRelay creates a relay with the given capacity, which must be a power
// of two.
func NewRelay(capacity int64, sink EventSink) *Relay {
	if capacity <= 0 || (capacity&(capacity-1)) != 0 {
		panic("capacity must be a power of 2")
	}

	r := &Relay{
		buffer:     make([]record.Event, capacity),
		published:  make([]int64, capacity),
		capacity:   capacity,
		bufferMask: capacity - 1,
		sink:       sink,
	}

	r.producerSequence.Store(-1)
	r.consumerSequence.Store(-1)

	for i := range r.published {
		atomic.StoreInt64(&r.published[i], -1)
	}

	return r
}

// Publish hands one event to the relay. Safe for concurrent producers;
// spins while the buffer is full.
func (r *Relay) Publish(ev record.Event) {
	if r.isShutdown.Load() {
		return
	}

	var nextSeq int64
	for {
		currentSeq := r.producerSequence.Load()
		nextSeq = currentSeq + 1

		// The producer may not lap the consumer by more than one buffer.
		wrapPoint := nextSeq - r.capacity
		if wrapPoint > r.consumerSequence.Load() {
			runtime.Gosched()
			continue
		}

		if r.producerSequence.CompareAndSwap(currentSeq, nextSeq) {
			break
		}
		runtime.Gosched()
	}

	index := nextSeq & r.bufferMask
	r.buffer[index] = ev
	atomic.StoreInt64(&r.published[index], nextSeq)
}

// Start launches the consumer goroutine.
func (r *Relay) Start() {
	go r.consumerLoop()
}

// Shutdown stops new publishes and waits for the consumer to deliver every
// claimed event, or until the context expires.
func (r *Relay) Shutdown(ctx context.Context) error {
	r.isShutdown.Store(true)

	for {
		select {
		case <-ctx.Done():
			return ErrRelayTimeout
		default:
			if r.consumerSequence.Load() >= r.producerSequence.Load() {
				return nil
			}
			runtime.Gosched()
		}
	}
}

// Pending returns the number of claimed but undelivered events.
func (r *Relay) Pending() int64 {
	return r.producerSequence.Load() - r.consumerSequence.Load()
}

func (r *Relay) consumerLoop() {
	nextSeq := r.consumerSequence.Load() + 1

	for {
		availableSeq := r.producerSequence.Load()

		if r.isShutdown.Load() {
			r.deliverThrough(nextSeq, r.producerSequence.Load())
			return
		}

		processed := false
		for nextSeq <= availableSeq {
			r.deliverOne(nextSeq)
			nextSeq++
			processed = true
		}

		if !processed {
			runtime.Gosched()
		}
	}
}

func (r *Relay) deliverThrough(nextSeq, availableSeq int64) {
	for nextSeq <= availableSeq {
		r.deliverOne(nextSeq)
		nextSeq++
	}
}

func (r *Relay) deliverOne(seq int64) {
	index := seq & r.bufferMask

	// Spin until the slot's write is published.
	for atomic.LoadInt64(&r.published[index]) != seq {
		runtime.Gosched()
	}

	r.sink.Publish(r.buffer[index])
	r.consumerSequence.Store(seq)
}
