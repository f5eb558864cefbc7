package gacha

import (
	"fmt"

	"github.com/xtding233/booster-sim/internal/pricing"
)

// Pack is one opened pack. Cards holds the fillers followed by the foil.
type Pack struct {
	Box    int     `json:"box"`     // 1-based box number within the session
	Index  int     `json:"index"`   // 0-based pack index within the box
	Cards  []Card  `json:"cards"`   // fillers then the foil
	SRSlot bool    `json:"sr_slot"` // planned SR slot
	Rule   Rule    `json:"rule"`    // selector branch that produced the foil
	Price  float64 `json:"price"`   // sum of card prices in this pack
}

// Foil returns the pack's foil card, always the last one.
func (p Pack) Foil() Card {
	if len(p.Cards) == 0 {
		return Card{}
	}
	return p.Cards[len(p.Cards)-1]
}

// DrawState is a snapshot of a session's progress.
type DrawState struct {
	BoxNumber   int     `json:"box_number"`   // 1-based
	PackIndex   int     `json:"pack_index"`   // packs opened in the current box
	SRTarget    int     `json:"sr_target"`
	SRSlots     []int   `json:"sr_slots"`
	SRUsed      int     `json:"sr_used"`
	StarUsed    bool    `json:"star_used"`
	CycleSRStar int     `json:"cycle_sr_star"`
	BoxInCycle  int     `json:"box_in_cycle"` // 0-based
	BoxesOpened int     `json:"boxes_opened"`
	PacksOpened int     `json:"packs_opened"`
	TotalPrice  float64 `json:"total_price"`
}

// Engine draws packs from a fixed catalog. It is not safe for concurrent use;
// callers serialize draws per session.
type Engine struct {
	rules Rules
	pools pools
	rng   RandomSource

	box         BoxPlan
	cycle       *CyclePity
	boxNumber   int
	packIndex   int
	boxesOpened int
	packsOpened int
	tally       pricing.Tally
}

// NewEngine validates the rules, drops ineligible cards and plans the first box.
// It returns ErrEmptyCatalog when no card is left to draw.
func NewEngine(cards []Card, rules Rules, rng RandomSource) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	drawable := eligible(cards, rules.Ineligible)
	if len(drawable) == 0 {
		return nil, fmt.Errorf("new engine: %w", ErrEmptyCatalog)
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	e := &Engine{
		rules: rules,
		pools: partition(drawable, rules.StarMarker),
		rng:   rng,
	}
	e.Reset()
	return e, nil
}

// Reset discards all progress and starts a new session on a fresh box.
func (e *Engine) Reset() {
	e.cycle = NewCyclePity(e.rules.BoxesPerCycle)
	e.box = PlanBox(e.rules, e.rng)
	e.boxNumber = 1
	e.packIndex = 0
	e.boxesOpened = 1
	e.packsOpened = 0
	e.tally.Reset()
}

// CatalogSize is the number of drawable cards.
func (e *Engine) CatalogSize() int { return len(e.pools.all) }

// OpenPack draws the next pack. A finished box rolls over to a freshly
// planned one on the following call.
func (e *Engine) OpenPack() Pack {
	if e.packIndex >= e.rules.PacksPerBox {
		e.nextBox()
	}
	idx := e.packIndex
	foil, rule := e.selectFoil(idx)

	cards := make([]Card, 0, e.rules.PackSize)
	cards = append(cards, sampleFillers(&e.pools, foil, e.rules.Fillers(), e.rng)...)
	cards = append(cards, foil)

	prices := make([]string, len(cards))
	for i, c := range cards {
		prices[i] = c.Price
	}

	pack := Pack{
		Box:    e.boxNumber,
		Index:  idx,
		Cards:  cards,
		SRSlot: e.box.Slots[idx],
		Rule:   rule,
		Price:  e.tally.Add(prices...),
	}
	e.packIndex++
	e.packsOpened++
	return pack
}

// OpenBox opens every pack left in the current box, or a whole new box when
// the current one is finished.
func (e *Engine) OpenBox() []Pack {
	packs := []Pack{e.OpenPack()}
	for e.packIndex < e.rules.PacksPerBox {
		packs = append(packs, e.OpenPack())
	}
	return packs
}

func (e *Engine) nextBox() {
	e.boxNumber++
	e.boxesOpened++
	e.cycle.NextBox()
	e.box = PlanBox(e.rules, e.rng)
	e.packIndex = 0
}

// State returns a copy of the current draw state.
func (e *Engine) State() DrawState {
	return DrawState{
		BoxNumber:   e.boxNumber,
		PackIndex:   e.packIndex,
		SRTarget:    e.box.SRTarget,
		SRSlots:     e.box.SlotIndices(),
		SRUsed:      e.box.SRUsed,
		StarUsed:    e.box.StarUsed,
		CycleSRStar: e.cycle.Hits,
		BoxInCycle:  e.cycle.Box,
		BoxesOpened: e.boxesOpened,
		PacksOpened: e.packsOpened,
		TotalPrice:  e.tally.Total,
	}
}
