package pricing

import "math"

// CheapestFor finds the minimum-cost combination of offers granting at least
// packs packs. Quantities are unbounded; a slight overshoot is allowed when it
// is cheaper (a box can beat fifteen singles).
func CheapestFor(s Shop, packs int) Plan {
	if packs <= 0 || len(s.Offers) == 0 {
		return Plan{Currency: s.Currency}
	}

	maxPacks := 0
	for _, o := range s.Offers {
		if o.Packs > maxPacks {
			maxPacks = o.Packs
		}
	}
	if maxPacks == 0 {
		return Plan{Currency: s.Currency}
	}
	limit := packs + maxPacks

	const Inf = int(^uint(0) >> 1)
	dp := make([]int, limit+1)   // min cost to reach exactly n packs
	pr := make([]int, limit+1)   // chosen offer index
	prev := make([]int, limit+1) // previous n
	for n := range dp {
		dp[n], pr[n], prev[n] = Inf, -1, -1
	}
	dp[0] = 0

	for n := 0; n <= limit; n++ {
		if dp[n] == Inf {
			continue
		}
		for i, o := range s.Offers {
			if o.Packs <= 0 {
				continue
			}
			nn := n + o.Packs
			if nn > limit {
				nn = limit
			}
			if cost := dp[n] + o.Price; cost < dp[nn] {
				dp[nn] = cost
				pr[nn] = i
				prev[nn] = n
			}
		}
	}

	best := packs
	for n := packs; n <= limit; n++ {
		if dp[n] < dp[best] {
			best = n
		}
	}
	if dp[best] == Inf {
		return Plan{Currency: s.Currency}
	}

	counts := map[int]int{}
	for n := best; n > 0 && pr[n] != -1; n = prev[n] {
		counts[pr[n]]++
	}
	return buildPlan(s, counts)
}

// MaxPacksUnder computes the most packs purchasable with budget, tax included.
func MaxPacksUnder(s Shop, budget int) Plan {
	if budget <= 0 || len(s.Offers) == 0 {
		return Plan{Currency: s.Currency}
	}

	// pre-tax prices: shrink the budget so the taxed total still fits
	eff := budget
	if s.TaxRate > 0 {
		eff = int(math.Floor(float64(budget) / (1 + s.TaxRate)))
	}

	// dp[c] = max packs with cost exactly c
	dp := make([]int, eff+1)
	choose := make([]int, eff+1)
	for c := range choose {
		choose[c] = -1
	}
	for c := 0; c <= eff; c++ {
		if c > 0 && choose[c] == -1 {
			continue
		}
		for i, o := range s.Offers {
			if o.Price <= 0 {
				continue
			}
			nc := c + o.Price
			if nc <= eff && dp[c]+o.Packs > dp[nc] {
				dp[nc] = dp[c] + o.Packs
				choose[nc] = i
			}
		}
	}
	bestC := 0
	for c := 0; c <= eff; c++ {
		if dp[c] > dp[bestC] {
			bestC = c
		}
	}

	counts := map[int]int{}
	for c := bestC; c > 0 && choose[c] != -1; c -= s.Offers[choose[c]].Price {
		counts[choose[c]]++
	}
	return buildPlan(s, counts)
}
