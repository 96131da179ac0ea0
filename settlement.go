package venue

import (
	"github.com/igrmk/treemap/v2"

	"github.com/openvenue/venue-core/record"
)

// SettlementView is a downstream consumer of drained queue events: it
// accumulates traded base volume per price level and the latest funding
// rate per market, the view a settlement indexer rebuilds from the ring
// buffer.
type SettlementView struct {
	traded  *treemap.TreeMap[int64, int64]
	funding map[record.ID]int64
	trades  uint64
}

// NewSettlementView creates an empty view.
func NewSettlementView() *SettlementView {
	return &SettlementView{
		traded: treemap.NewWithKeyCompare[int64, int64](func(a, b int64) bool {
			return a < b
		}),
		funding: make(map[record.ID]int64),
	}
}

// Replay applies drained events in queue order.
func (v *SettlementView) Replay(events ...record.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case record.EventTrade:
			if cur, ok := v.traded.Get(ev.PriceLots); ok {
				v.traded.Set(ev.PriceLots, cur+ev.BaseLots)
			} else {
				v.traded.Set(ev.PriceLots, ev.BaseLots)
			}
			v.trades++
		case record.EventFundingUpdate:
			v.funding[ev.Market] = ev.FundingRateBps
		}
	}
}

// TradedAt returns the accumulated base volume traded at a price level.
func (v *SettlementView) TradedAt(priceLots int64) int64 {
	vol, _ := v.traded.Get(priceLots)
	return vol
}

// FundingRate returns the latest funding rate seen for a market, and false
// if none was replayed.
func (v *SettlementView) FundingRate(market record.ID) (int64, bool) {
	rate, ok := v.funding[market]
	return rate, ok
}

// TradeCount returns the number of trade events replayed.
func (v *SettlementView) TradeCount() uint64 {
	return v.trades
}
