// loadgen synthesizes market-data events and feeds them into a
// quantumflow ingress ring or bridge socket, the way an out-of-process
// producer would, for throughput testing the matching pipeline (adapted
// from the teacher's order-submission benchmark into an ingress-side
// generator, per DESIGN.md).
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"runtime/pprof"
	"time"

	"quantumflow/ingress"
)

func main() {
	totalEvents := flag.Int("events", 500000, "number of market-data events to generate")
	priceLevels := flag.Int("price-levels", 200, "unique price ticks around the mid")
	tick := flag.Float64("tick", 0.01, "external price tick size")
	basePrice := flag.Float64("base-price", 100.0, "mid price used for randomization")
	symbol := flag.String("symbol", "SIM", "symbol to generate events for")
	seed := flag.Int64("seed", time.Now().UnixNano(), "seed for deterministic random streams")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	target := flag.String("target", "ring", "where to send events: \"ring\" (in-process, capacity via -ring-capacity) or a bridge socket path")
	ringCapacity := flag.Int("ring-capacity", ingress.DefaultRingCapacity, "ring capacity when -target=ring")
	tradeRatio := flag.Int("trade-ratio", 10, "1 in N events is a synthesized trade instead of a book-level update")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	var push func(ingress.Event)
	var closeTarget func()

	if *target == "ring" {
		ring := ingress.NewRing(*ringCapacity)
		push = func(e ingress.Event) {
			ring.Push(e)
		}
		closeTarget = func() {
			stats := ring.Stats()
			fmt.Printf("ring stats: pushed=%d dropped=%d size=%d\n", stats.PushCount, stats.DropCount, stats.Size)
		}
	} else {
		addr, err := net.ResolveUnixAddr("unixgram", *target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolve %s: %v\n", *target, err)
			os.Exit(1)
		}
		conn, err := net.DialUnix("unixgram", nil, addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dial %s: %v\n", *target, err)
			os.Exit(1)
		}
		push = func(e ingress.Event) {
			buf := ingress.Encode(e)
			_, _ = conn.Write(buf[:])
		}
		closeTarget = func() { _ = conn.Close() }
	}

	start := time.Now()
	for i := 0; i < *totalEvents; i++ {
		push(nextRandomEvent(rng, uint64(i), *symbol, *basePrice, *priceLevels, *tick, *tradeRatio))
	}
	elapsed := time.Since(start)
	closeTarget()

	eventsPerSec := float64(*totalEvents) / elapsed.Seconds()
	fmt.Printf("generated %d events in %s (%.0f events/s)\n", *totalEvents, elapsed.Truncate(time.Millisecond), eventsPerSec)
}

func nextRandomEvent(rng *rand.Rand, id uint64, symbol string, mid float64, levels int, tick float64, tradeRatio int) ingress.Event {
	side := ingress.Side(rng.Intn(2))
	offset := float64(rng.Intn(levels)) * tick
	var price float64
	if side == ingress.Buy {
		price = mid - offset
	} else {
		price = mid + offset
	}
	if price < tick {
		price = tick
	}

	eventType := ingress.BookLevel
	if tradeRatio > 0 && rng.Intn(tradeRatio) == 0 {
		eventType = ingress.Trade
	}

	qty := uint64(rng.Intn(5)+1) * 100000000 // scaled by the default qty_scale of 10^8

	return ingress.Event{
		Symbol:      symbol,
		Side:        side,
		Type:        eventType,
		Price:       price,
		Quantity:    qty,
		TimestampNs: uint64(time.Now().UnixNano()),
		OrderID:     id + 1,
	}
}
