package gacha

import (
	"math"
	"sort"
)

// SimParams describes one simulation run.
type SimParams struct {
	Cards  []Card
	Rules  Rules
	Cycles int    // full cycles opened per trial
	Seed   uint64 // trial i uses seed+i
}

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64
	Var    float64
	StdDev float64
	P50    float64
	P90    float64
	P99    float64
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-"`
}

// SimResult groups per-box and per-cycle distributions.
type SimResult struct {
	SRPerBox       Stats // SR-prefixed foils per box (SR★ included)
	StarPerBox     Stats // star foils per box
	SRStarPerCycle Stats // SR★ foils per cycle
	PricePerBox    Stats // card value per box, rounded to whole units
	Packs          int   // packs opened across all trials
}

// calcStats computes mean/variance/percentiles for integer samples.
func calcStats(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	// mean
	var sum float64
	for _, v := range xs {
		sum += float64(v)
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for _, v := range xs {
		d := float64(v) - mean
		acc += d * d
	}
	variance := acc / float64(n)
	stddev := math.Sqrt(variance)

	// percentiles
	cp := append([]int(nil), xs...)
	sort.Ints(cp)
	percentile := func(p float64) float64 {
		if n == 1 {
			return float64(cp[0])
		}
		if p <= 0 {
			return float64(cp[0])
		}
		if p >= 1 {
			return float64(cp[n-1])
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return float64(cp[i])
		}
		return float64(cp[i])*(1-f) + float64(cp[i+1])*f
	}

	return Stats{
		Mean:    mean,
		Var:     variance,
		StdDev:  stddev,
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// simulateOne opens p.Cycles full cycles on a fresh engine and appends one
// sample per box / per cycle to the accumulators.
func simulateOne(p SimParams, rng RandomSource, acc *simAcc) error {
	e, err := NewEngine(p.Cards, p.Rules, rng)
	if err != nil {
		return err
	}
	star := p.Rules.StarMarker
	for c := 0; c < p.Cycles; c++ {
		srStar := 0
		for b := 0; b < p.Rules.BoxesPerCycle; b++ {
			var sr, stars int
			var price float64
			for _, pk := range e.OpenBox() {
				cls := Classify(pk.Foil().Rarity, star)
				if cls.IsSR() {
					sr++
				}
				if cls.IsStar() {
					stars++
				}
				if cls == ClassSRStar {
					srStar++
				}
				price += pk.Price
				acc.packs++
			}
			acc.sr = append(acc.sr, sr)
			acc.star = append(acc.star, stars)
			acc.price = append(acc.price, int(math.Round(price)))
		}
		acc.srStar = append(acc.srStar, srStar)
	}
	return nil
}

type simAcc struct {
	sr, star, srStar, price []int
	packs                   int
}

// RunMonteCarlo repeats trials and returns summary stats.
func RunMonteCarlo(p SimParams, trials int) (SimResult, error) {
	if trials <= 0 || p.Cycles <= 0 {
		return SimResult{}, nil
	}
	var acc simAcc
	for i := 0; i < trials; i++ {
		if err := simulateOne(p, NewSeededRNG(p.Seed+uint64(i)), &acc); err != nil {
			return SimResult{}, err
		}
	}
	return SimResult{
		SRPerBox:       calcStats(acc.sr),
		StarPerBox:     calcStats(acc.star),
		SRStarPerCycle: calcStats(acc.srStar),
		PricePerBox:    calcStats(acc.price),
		Packs:          acc.packs,
	}, nil
}
