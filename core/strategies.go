package core

import "quantumflow/strategy"

// DefaultStrategyFactory builds one instance of each of the seven
// strategies from spec.md §4.I with the thresholds spec.md's worked
// examples use (imbalance, funding, momentum); the remaining strategies'
// parameters are not fixed by the spec and are chosen as reasonable
// production defaults (documented as an Open Question resolution).
func DefaultStrategyFactory() []strategy.Strategy {
	return []strategy.Strategy{
		strategy.NewImbalance(5, 0.3),
		strategy.NewMarketMaker(1000, 0.002),
		strategy.NewVWAP(10000, 60000, nil),
		strategy.NewLiquidity(5, 500, 0.5),
		strategy.NewFundingArb(0.001),
		strategy.NewMomentum(5, 0.02),
		strategy.NewPairs(1.0, 20, 2.0),
	}
}
