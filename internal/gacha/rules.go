package gacha

// Rules is the numeric shape of packs, boxes and cycles.
type Rules struct {
	PackSize      int     // cards per pack, foil included
	PacksPerBox   int     // packs per box
	BoxesPerCycle int     // boxes sharing one SR★ guarantee
	SRLow         int     // SR foils in a box when the high roll misses
	SRHigh        int     // SR foils in a box when the high roll hits
	SRHighProb    float64 // probability of the high roll
	StarMarker    string  // glyph marking star variants in a rarity code
	Ineligible    string  // card-number marker excluding a card from packs
}

// DefaultRules: 8-card packs (7 filler + 1 foil), 16-pack boxes with 4 or 5
// SR foils (50/50), 12-box cycles.
func DefaultRules() Rules {
	return Rules{
		PackSize:      8,
		PacksPerBox:   16,
		BoxesPerCycle: 12,
		SRLow:         4,
		SRHigh:        5,
		SRHighProb:    0.5,
		StarMarker:    "★",
		Ineligible:    "AP",
	}
}

// Fillers is the number of non-foil slots in a pack.
func (r Rules) Fillers() int { return r.PackSize - 1 }
