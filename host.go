package venue

import (
	"errors"

	"github.com/openvenue/venue-core/record"
	"github.com/openvenue/venue-core/store"
)

// Host binds the processor to durable storage and the event relay: it is
// the external runtime the core's contract assumes. One Execute call is one
// serialized invocation with exclusive access to the loaded records, and
// records are persisted only when the whole invocation succeeds, which
// provides the whole-invocation atomicity the core itself does not.
type Host struct {
	store *store.Store
	proc  *Processor
	relay *Relay
}

// NewHost creates a host. relay may be nil when no downstream fan-out is
// wanted.
func NewHost(st *store.Store, proc *Processor, relay *Relay) *Host {
	return &Host{store: st, proc: proc, relay: relay}
}

// Allocate creates zeroed record storage of the given size under key,
// owned by owner and funded with balance.
func (h *Host) Allocate(key, owner record.ID, balance uint64, size int) error {
	return h.store.Put(&record.Account{
		Key:     key,
		Owner:   owner,
		Balance: balance,
		Data:    make([]byte, size),
	})
}

// Execute loads the named records, runs one instruction, and persists every
// loaded record with storage in one batch on success. Keys without stored
// records resolve to bare identities (owner ids, recipients), which is
// enough for the opaque-id positions of every operation.
func (h *Host) Execute(keys []record.ID, data []byte) (*Receipt, error) {
	accounts := make([]*record.Account, len(keys))
	touched := make([]*record.Account, 0, len(keys))

	for i, key := range keys {
		acc, err := h.store.Get(key)
		if errors.Is(err, store.ErrNotFound) {
			acc = &record.Account{Key: key}
		} else if err != nil {
			return nil, err
		} else {
			touched = append(touched, acc)
		}
		accounts[i] = acc
	}

	receipt, err := h.proc.Process(accounts, data)
	if err != nil {
		return nil, err
	}

	if err := h.store.PutAll(touched...); err != nil {
		return nil, err
	}

	if h.relay != nil {
		for _, ev := range receipt.Events {
			h.relay.Publish(ev)
		}
	}

	return receipt, nil
}
