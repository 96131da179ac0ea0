package venue

import (
	"sort"

	"github.com/huandu/skiplist"

	"github.com/openvenue/venue-core/record"
)

// DepthItem is one aggregated price level of resting liquidity.
type DepthItem struct {
	PriceLots int64
	BaseLots  int64
	Orders    int
}

// BookView is a read-side index over the resting orders embedded in a set
// of maker accounts. The matching engine itself takes makers in caller
// order; this is the caller-side tool that produces that order, and the
// depth aggregation downstream services want.
type BookView struct {
	bids *skiplist.SkipList
	asks *skiplist.SkipList
}

// NewBookView aggregates the active order slots of the given accounts into
// price levels: bids sorted highest first, asks lowest first.
func NewBookView(makers []record.UserAccount) *BookView {
	v := &BookView{
		bids: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			p1, _ := lhs.(int64)
			p2, _ := rhs.(int64)
			if p1 < p2 {
				return 1
			} else if p1 > p2 {
				return -1
			}
			return 0
		})),
		asks: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			p1, _ := lhs.(int64)
			p2, _ := rhs.(int64)
			if p1 > p2 {
				return 1
			} else if p1 < p2 {
				return -1
			}
			return 0
		})),
	}

	for mi := range makers {
		for _, order := range makers[mi].OpenOrders {
			if !order.IsActive || order.BaseLots <= 0 {
				continue
			}
			v.add(order)
		}
	}

	return v
}

func (v *BookView) add(order record.Order) {
	list := v.asks
	if order.SideIsBid {
		list = v.bids
	}

	if el := list.Get(order.PriceLots); el != nil {
		unit, _ := el.Value.(*DepthItem)
		unit.BaseLots += order.BaseLots
		unit.Orders++
		return
	}

	list.Set(order.PriceLots, &DepthItem{
		PriceLots: order.PriceLots,
		BaseLots:  order.BaseLots,
		Orders:    1,
	})
}

// Depth returns up to limit price levels for one side, best price first.
func (v *BookView) Depth(bid bool, limit int) []DepthItem {
	list := v.asks
	if bid {
		list = v.bids
	}

	result := make([]DepthItem, 0, limit)
	el := list.Front()
	for i := 0; i < limit && el != nil; i++ {
		unit, _ := el.Value.(*DepthItem)
		result = append(result, *unit)
		el = el.Next()
	}
	return result
}

// BestPrice returns the best price level for one side, and false when that
// side is empty.
func (v *BookView) BestPrice(bid bool) (int64, bool) {
	list := v.asks
	if bid {
		list = v.bids
	}
	el := list.Front()
	if el == nil {
		return 0, false
	}
	price, _ := el.Key().(int64)
	return price, true
}

// SortMakers orders maker accounts by their best price opposite the taker:
// cheapest ask first for a bid taker, highest bid first for an ask taker.
// Makers with no matchable slot sink to the end. The matching engine applies
// no ordering of its own, so callers wanting book priority run this first.
func SortMakers(makers []record.UserAccount, takerIsBid bool) {
	best := func(u *record.UserAccount) (int64, bool) {
		found := false
		var price int64
		for _, order := range u.OpenOrders {
			if !order.IsActive || order.BaseLots <= 0 || order.SideIsBid == takerIsBid {
				continue
			}
			if !found {
				price, found = order.PriceLots, true
				continue
			}
			if takerIsBid && order.PriceLots < price {
				price = order.PriceLots
			} else if !takerIsBid && order.PriceLots > price {
				price = order.PriceLots
			}
		}
		return price, found
	}

	sort.SliceStable(makers, func(i, j int) bool {
		pi, oki := best(&makers[i])
		pj, okj := best(&makers[j])
		if oki != okj {
			return oki
		}
		if !oki {
			return false
		}
		if takerIsBid {
			return pi < pj
		}
		return pi > pj
	})
}
