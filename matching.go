package venue

import (
	"github.com/openvenue/venue-core/record"
)

// MatchResult summarizes one run of the matching routine.
type MatchResult struct {
	// Events holds one Trade event per fill, in execution order.
	Events []record.Event
	// QuoteVolume accumulates the absolute quote magnitude of every fill.
	// Callers use it for fee and limit checks; nothing is enforced here.
	QuoteVolume int64
	// Remaining is the unmatched base quantity. The routine never creates
	// a resting order for it.
	Remaining int64
}

// MatchOrders matches a taker's desired base quantity against the maker
// accounts' embedded order slots, mutating positions in place.
//
// Makers are visited in the order supplied; there is no price-time priority
// here, so callers wanting a book ordering must arrange the slice first
// (see SortMakers). Slots on the taker's own side, inactive slots
// and empty slots are skipped. Every trade executes at the maker's resting
// price. Position updates are checked; overflow aborts the whole match with
// ErrMath and no partial result.
//
// Self-trading is not prevented: a taker passed inside makers will trade
// against itself. Callers must exclude it.
func MatchOrders(taker *record.UserAccount, makers []record.UserAccount, remainingBaseLots int64, takerIsBid bool) (MatchResult, error) {
	res := MatchResult{Remaining: remainingBaseLots}

	work := *taker
	workMakers := make([]record.UserAccount, len(makers))
	copy(workMakers, makers)

	for mi := range workMakers {
		if res.Remaining <= 0 {
			break
		}
		maker := &workMakers[mi]

		for oi := range maker.OpenOrders {
			order := &maker.OpenOrders[oi]
			if !order.IsActive || order.SideIsBid == takerIsBid {
				continue
			}

			tradeBase := min(res.Remaining, order.BaseLots)
			if tradeBase <= 0 {
				continue
			}

			quoteChange, err := mulI64(tradeBase, order.PriceLots)
			if err != nil {
				return MatchResult{}, err
			}

			if err := applyFill(&work, maker, tradeBase, quoteChange, takerIsBid); err != nil {
				return MatchResult{}, err
			}

			order.BaseLots -= tradeBase
			if order.BaseLots == 0 {
				order.IsActive = false
			}

			abs := quoteChange
			if abs < 0 {
				abs = -abs
			}
			if res.QuoteVolume, err = addI64(res.QuoteVolume, abs); err != nil {
				return MatchResult{}, err
			}

			res.Remaining -= tradeBase
			res.Events = append(res.Events, record.TradeEvent(maker.Owner, work.Owner, order.PriceLots, tradeBase))

			if res.Remaining <= 0 {
				break
			}
		}
	}

	*taker = work
	copy(makers, workMakers)
	return res, nil
}

// applyFill transfers tradeBase and quoteChange between taker and maker.
// The taker gains base and pays quote on a bid; mirrored on an ask.
func applyFill(taker, maker *record.UserAccount, tradeBase, quoteChange int64, takerIsBid bool) error {
	var err error
	if takerIsBid {
		if taker.BasePosition, err = addI64(taker.BasePosition, tradeBase); err != nil {
			return err
		}
		if taker.QuotePosition, err = subI64(taker.QuotePosition, quoteChange); err != nil {
			return err
		}
		if maker.BasePosition, err = subI64(maker.BasePosition, tradeBase); err != nil {
			return err
		}
		if maker.QuotePosition, err = addI64(maker.QuotePosition, quoteChange); err != nil {
			return err
		}
		return nil
	}

	if taker.BasePosition, err = subI64(taker.BasePosition, tradeBase); err != nil {
		return err
	}
	if taker.QuotePosition, err = addI64(taker.QuotePosition, quoteChange); err != nil {
		return err
	}
	if maker.BasePosition, err = addI64(maker.BasePosition, tradeBase); err != nil {
		return err
	}
	if maker.QuotePosition, err = subI64(maker.QuotePosition, quoteChange); err != nil {
		return err
	}
	return nil
}
