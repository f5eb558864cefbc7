package gacha

// Rule names the branch of the foil selector that produced a pack's foil.
type Rule string

const (
	RuleCycleSRStar Rule = "cycle_sr_star" // forced SR★ closing a cycle without one
	RuleSlotStar    Rule = "slot_star"     // SR slot after the quota was already met
	RuleSlotSR      Rule = "slot_sr"       // planned SR slot
	RuleForcedStar  Rule = "forced_star"   // last non-SR pack of a box without a star
	RuleRare        Rule = "rare"          // ordinary pack, non-star R
	RuleFallback    Rule = "fallback"      // required pool was empty
)

// selectFoil chooses the foil for pack idx of the current box and updates the
// box and cycle bookkeeping. Priority order:
//
//  1. last pack of the last box with no SR★ yet this cycle: SR★
//  2. planned SR slot: any star if the quota is already met and no star yet,
//     else SR (star variants excluded once a star was drawn this box)
//  3. other packs: any star if this is the box's last non-SR pack and no star
//     yet, else non-star R
//  4. fallback: any R, any SR, any foil-eligible card, any card
func (e *Engine) selectFoil(idx int) (Card, Rule) {
	p := &e.pools
	b := &e.box
	remaining := e.rules.PacksPerBox - idx

	var (
		card Card
		rule Rule
	)
	switch {
	case e.cycle.Forced(remaining) && len(p.srStar) > 0:
		card, rule = pick(p.srStar, e.rng), RuleCycleSRStar
	case b.Slots[idx]:
		if !b.StarUsed && b.SRUsed >= b.SRTarget && len(p.anyStar) > 0 {
			card, rule = pick(p.anyStar, e.rng), RuleSlotStar
		} else if pool := e.slotPool(); len(pool) > 0 {
			card, rule = pick(pool, e.rng), RuleSlotSR
		}
	default:
		if !b.StarUsed && b.lastNonSlot(idx) && len(p.anyStar) > 0 {
			card, rule = pick(p.anyStar, e.rng), RuleForcedStar
		} else if len(p.rNonStar) > 0 {
			card, rule = pick(p.rNonStar, e.rng), RuleRare
		}
	}
	if rule == "" {
		card, rule = e.fallback(), RuleFallback
	}

	e.record(card, idx)
	return card, rule
}

func (e *Engine) slotPool() []Card {
	if e.box.StarUsed {
		return e.pools.srNonStar
	}
	return e.pools.srAll
}

func (e *Engine) fallback() Card {
	for _, pool := range [][]Card{e.pools.rAll, e.pools.srAll, e.pools.foil, e.pools.all} {
		if len(pool) > 0 {
			return pick(pool, e.rng)
		}
	}
	// unreachable: NewEngine refuses an empty catalog
	return Card{}
}

// record applies post-selection bookkeeping. An SR★ counts toward the box's
// SR quota even when drawn outside a planned SR slot.
func (e *Engine) record(c Card, idx int) {
	cls := Classify(c.Rarity, e.rules.StarMarker)
	slot := e.box.Slots[idx]
	if cls.IsStar() {
		e.box.StarUsed = true
	}
	if cls == ClassSRStar {
		e.cycle.Hit()
		if !slot {
			e.box.SRUsed++
		}
	}
	if cls.IsSR() && slot {
		e.box.SRUsed++
	}
}
