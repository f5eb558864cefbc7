package gacha

// BoxPlan is the commitment made before the first pack of a box is drawn.
// Only SRUsed and StarUsed change while the box is being opened.
type BoxPlan struct {
	SRTarget int
	Slots    []bool // Slots[i] is true when pack i is planned to hold an SR foil
	SRUsed   int
	StarUsed bool
}

// PlanBox picks the box's SR target (SRHigh with probability SRHighProb, else
// SRLow) and a uniformly random subset of that many pack indices.
func PlanBox(rules Rules, rng RandomSource) BoxPlan {
	if rng == nil {
		rng = DefaultRNG()
	}
	target := rules.SRLow
	if high, err := Draw(rules.SRHighProb, rng); err == nil && high {
		target = rules.SRHigh
	}
	if target > rules.PacksPerBox {
		target = rules.PacksPerBox
	}

	idx := make([]int, rules.PacksPerBox)
	for i := range idx {
		idx[i] = i
	}
	shuffle(idx, rng)

	slots := make([]bool, rules.PacksPerBox)
	for _, i := range idx[:target] {
		slots[i] = true
	}
	return BoxPlan{SRTarget: target, Slots: slots}
}

// SlotIndices lists the planned SR pack indices in ascending order.
func (b BoxPlan) SlotIndices() []int {
	out := make([]int, 0, b.SRTarget)
	for i, s := range b.Slots {
		if s {
			out = append(out, i)
		}
	}
	return out
}

// lastNonSlot reports whether no pack after idx is a non-SR pack, i.e. idx is
// the last chance for a non-SR pack of this box to force a star.
func (b BoxPlan) lastNonSlot(idx int) bool {
	for i := idx + 1; i < len(b.Slots); i++ {
		if !b.Slots[i] {
			return false
		}
	}
	return true
}
