// Package book implements the price-time-priority limit order book: two
// ordered price-keyed indexes (bids descending, asks ascending) of price
// levels, pool-backed order allocation, an O(1) cancel index, and the
// matching algorithm in spec.md §4.F.
package book

import (
	"sort"

	"quantumflow/ingress"
)

// DefaultPoolCapacity sizes a book's order pool when none is given
// explicitly. Exhaustion beyond this is a fatal misconfiguration (spec.md
// §7); callers size the pool to their expected resting-order depth.
const DefaultPoolCapacity = 1 << 16

// Book is the per-symbol limit order book. It is thread-exclusive to the
// matching thread (spec.md §5, §9) and uses no internal synchronization.
type Book struct {
	Symbol string

	pool *Pool

	bidLevels map[uint32]*Level
	askLevels map[uint32]*Level
	bidPrices []uint32 // descending
	askPrices []uint32 // ascending

	orders   map[uint64]int32 // order id -> pool slot index, active orders only
	terminal map[uint64]Status
}

// New builds an empty book for symbol with a pool sized for poolCapacity
// concurrently-resting orders. Books are created lazily by the core loop on
// first observation of a new symbol and live for the process (spec.md §3).
func New(symbol string, poolCapacity int) *Book {
	if poolCapacity <= 0 {
		poolCapacity = DefaultPoolCapacity
	}
	return &Book{
		Symbol:    symbol,
		pool:      NewPool(poolCapacity),
		bidLevels: make(map[uint32]*Level),
		askLevels: make(map[uint32]*Level),
		orders:    make(map[uint64]int32),
		terminal:  make(map[uint64]Status),
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// PlaceOrder matches a new order against the opposite side while it crosses
// and volume remains, then rests any leftover on its own side. It rejects
// (no-op, nil trades) orders with zero price or zero volume.
func (b *Book) PlaceOrder(orderID, agentID uint64, side ingress.Side, price uint32, quantity int64) []Trade {
	if price == 0 || quantity == 0 {
		return nil
	}

	var trades []Trade
	remaining := quantity

	if side == ingress.Buy {
		remaining, trades = b.match(orderID, remaining, &b.askPrices, b.askLevels, func(best uint32) bool { return best <= price })
	} else {
		remaining, trades = b.match(orderID, remaining, &b.bidPrices, b.bidLevels, func(best uint32) bool { return best >= price })
	}

	if remaining == 0 {
		b.terminal[orderID] = Fulfilled
		return trades
	}

	b.rest(orderID, agentID, side, price, quantity, remaining)
	return trades
}

// match consumes the opposite side's best-first levels while crosses, and
// returns the taker's remaining volume plus the trades produced in match
// order (best level first, time priority within each level). oppPrices is
// a pointer to the book's own sorted price slice for that side so that
// level removals during the loop are written straight back.
func (b *Book) match(takerID uint64, remaining int64, oppPrices *[]uint32, oppLevels map[uint32]*Level, crosses func(best uint32) bool) (int64, []Trade) {
	var trades []Trade

	for remaining > 0 && len(*oppPrices) > 0 {
		bestPrice := (*oppPrices)[0]
		if !crosses(bestPrice) {
			break
		}
		level := oppLevels[bestPrice]

		for remaining > 0 && !level.Empty() {
			makerIx := level.Head()
			maker := b.pool.Order(makerIx)

			fill := min64(maker.Remaining, remaining)
			maker.Remaining -= fill
			remaining -= fill
			level.DecrementVolume(fill)

			trades = append(trades, Trade{
				TakerOrderID: takerID,
				MakerOrderID: maker.ID,
				Price:        bestPrice,
				Volume:       fill,
			})

			if maker.Remaining == 0 {
				maker.Status = Fulfilled
				b.terminal[maker.ID] = Fulfilled
				delete(b.orders, maker.ID)
				level.PopFront(b.pool)
				b.pool.Free(makerIx)
			}
		}

		if level.Empty() {
			*oppPrices = removeSortedPrice(*oppPrices, bestPrice)
			delete(oppLevels, bestPrice)
		}
	}

	return remaining, trades
}

func (b *Book) rest(orderID, agentID uint64, side ingress.Side, price uint32, original, remaining int64) {
	ix, ok := b.pool.Allocate()
	if !ok {
		panic("book: order pool exhausted; misconfigured pool capacity")
	}
	order := b.pool.Order(ix)
	*order = Order{
		ID:        orderID,
		AgentID:   agentID,
		Side:      side,
		Price:     price,
		Original:  original,
		Remaining: remaining,
		Status:    Active,
	}
	b.orders[orderID] = ix

	if side == ingress.Buy {
		level, ok := b.bidLevels[price]
		if !ok {
			level = newLevel(price)
			b.bidLevels[price] = level
			b.bidPrices = insertSortedPrice(b.bidPrices, price, true)
		}
		level.PushBack(b.pool, ix)
	} else {
		level, ok := b.askLevels[price]
		if !ok {
			level = newLevel(price)
			b.askLevels[price] = level
			b.askPrices = insertSortedPrice(b.askPrices, price, false)
		}
		level.PushBack(b.pool, ix)
	}
}

// Cancel removes a resting order by id. Unknown ids are a no-op.
func (b *Book) Cancel(orderID uint64) {
	ix, ok := b.orders[orderID]
	if !ok {
		return
	}
	order := b.pool.Order(ix)
	price, side := order.Price, order.Side

	if side == ingress.Buy {
		level := b.bidLevels[price]
		level.Erase(b.pool, ix)
		if level.Empty() {
			delete(b.bidLevels, price)
			b.bidPrices = removeSortedPrice(b.bidPrices, price)
		}
	} else {
		level := b.askLevels[price]
		level.Erase(b.pool, ix)
		if level.Empty() {
			delete(b.askLevels, price)
			b.askPrices = removeSortedPrice(b.askPrices, price)
		}
	}

	order.Status = Cancelled
	b.terminal[orderID] = Cancelled
	delete(b.orders, orderID)
	b.pool.Free(ix)
}

// Status reports an order's lifecycle state. ok is false if the id was
// never observed by this book.
func (b *Book) Status(orderID uint64) (Status, bool) {
	if ix, ok := b.orders[orderID]; ok {
		return b.pool.Order(ix).Status, true
	}
	if st, ok := b.terminal[orderID]; ok {
		return st, true
	}
	return 0, false
}

// BestBid returns the highest resting bid price, or 0 if the bid side is
// empty.
func (b *Book) BestBid() uint32 {
	if len(b.bidPrices) == 0 {
		return 0
	}
	return b.bidPrices[0]
}

// BestAsk returns the lowest resting ask price, or 0 if the ask side is
// empty.
func (b *Book) BestAsk() uint32 {
	if len(b.askPrices) == 0 {
		return 0
	}
	return b.askPrices[0]
}

// Spread returns BestAsk-BestBid when both sides are non-empty, else 0.
func (b *Book) Spread() int64 {
	bid, ask := b.BestBid(), b.BestAsk()
	if bid == 0 || ask == 0 {
		return 0
	}
	return int64(ask) - int64(bid)
}

// Mid returns (BestBid+BestAsk)/2 when both sides are non-empty, else 0.
func (b *Book) Mid() uint32 {
	bid, ask := b.BestBid(), b.BestAsk()
	if bid == 0 || ask == 0 {
		return 0
	}
	return uint32((uint64(bid) + uint64(ask)) / 2)
}

// BidLevels reports the number of distinct bid price levels.
func (b *Book) BidLevels() int { return len(b.bidPrices) }

// AskLevels reports the number of distinct ask price levels.
func (b *Book) AskLevels() int { return len(b.askPrices) }

// RestingOrders reports the number of currently active (indexed) orders.
func (b *Book) RestingOrders() int { return len(b.orders) }

func insertSortedPrice(prices []uint32, price uint32, desc bool) []uint32 {
	idx := sort.Search(len(prices), func(i int) bool {
		if desc {
			return prices[i] <= price
		}
		return prices[i] >= price
	})
	prices = append(prices, 0)
	copy(prices[idx+1:], prices[idx:])
	prices[idx] = price
	return prices
}

func removeSortedPrice(prices []uint32, price uint32) []uint32 {
	for i, p := range prices {
		if p == price {
			return append(prices[:i], prices[i+1:]...)
		}
	}
	return prices
}
