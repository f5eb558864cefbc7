package gacha

// CyclePity handles the cycle-level guarantee: Boxes boxes share one SR★
// guarantee, and if none has been drawn when the final pack of the final box
// comes up, that pack is forced to one.

type CyclePity struct {
	Boxes int // threshold: boxes per cycle
	Box   int // index of the current box within the cycle, 0..Boxes-1
	Hits  int // SR★ foils drawn so far this cycle
}

// NewCyclePity creates a cycle counter positioned on its first box.
func NewCyclePity(boxes int) *CyclePity {
	if boxes < 1 {
		boxes = 1
	}
	return &CyclePity{Boxes: boxes}
}

// RemainingBoxes counts the current box and the ones after it in this cycle.
func (cp *CyclePity) RemainingBoxes() int { return cp.Boxes - cp.Box }

// Forced reports whether the pack with remainingPacks left in the box
// (itself included) must be an SR★.
func (cp *CyclePity) Forced(remainingPacks int) bool {
	return remainingPacks == 1 && cp.Hits == 0 && cp.RemainingBoxes() == 1
}

// Hit records one SR★ foil.
func (cp *CyclePity) Hit() { cp.Hits++ }

// NextBox advances to the next box. When the ring wraps a new cycle starts
// and the hit count resets; the return value reports the wrap.
func (cp *CyclePity) NextBox() bool {
	cp.Box++
	if cp.Box >= cp.Boxes {
		cp.Box = 0
		cp.Hits = 0
		return true
	}
	return false
}
