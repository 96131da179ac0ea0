package venue

import (
	"github.com/openvenue/venue-core/record"
)

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithClock replaces the trusted time source.
func WithClock(c Clock) ProcessorOption {
	return func(p *Processor) {
		p.clock = c
	}
}

// WithStorageRules replaces the minimum-balance policy.
func WithStorageRules(r StorageRules) ProcessorOption {
	return func(p *Processor) {
		p.rules = r
	}
}

// WithRestingOrders makes PlaceOrder insert the unmatched remainder into a
// free slot of the taker account. Off by default: the engine is match-only
// against externally seeded liquidity.
func WithRestingOrders(enabled bool) ProcessorOption {
	return func(p *Processor) {
		p.restingOrders = enabled
	}
}

// WithOrderIDSource replaces the resting-order id generator.
func WithOrderIDSource(next func() record.U128) ProcessorOption {
	return func(p *Processor) {
		p.nextOrderID = next
	}
}
