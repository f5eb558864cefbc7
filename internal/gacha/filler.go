package gacha

// sampleFillers draws n filler cards for a pack whose foil is already chosen.
//
// The base pool is the non-foil-eligible cards, or the whole catalog when
// fewer than n of those exist. Cards sharing the foil's number are removed,
// the rest shuffled and the first n taken: no replacement where the pool
// allows it. When the pool runs short the sample is padded by uniform draws
// with replacement from the unfiltered base pool, so small catalogs still
// produce full packs.
func sampleFillers(p *pools, foil Card, n int, rng RandomSource) []Card {
	if n <= 0 {
		return nil
	}
	base := p.filler
	if len(base) < n {
		base = p.all
	}

	out := make([]Card, 0, len(base))
	for _, c := range base {
		if c.Number != foil.Number {
			out = append(out, c)
		}
	}
	shuffle(out, rng)
	if len(out) > n {
		out = out[:n]
	}
	for len(out) < n {
		out = append(out, pick(base, rng))
	}
	return out
}
