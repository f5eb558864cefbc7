package gacha

import (
	"fmt"
	"math"
	"strings"
)

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

// Validate checks that the rules describe a drawable pack/box/cycle shape.
func (r Rules) Validate() error {
	var errs []string
	if r.PackSize < 2 {
		errs = append(errs, "pack size must be >= 2")
	}
	if r.PacksPerBox < 1 {
		errs = append(errs, "packs per box must be >= 1")
	}
	if r.BoxesPerCycle < 1 {
		errs = append(errs, "boxes per cycle must be >= 1")
	}
	if r.SRLow < 0 || r.SRHigh < r.SRLow {
		errs = append(errs, "sr targets must satisfy 0 <= low <= high")
	}
	if r.PacksPerBox >= 1 && r.SRHigh > r.PacksPerBox {
		errs = append(errs, "sr high target must not exceed packs per box")
	}
	if err := validateProb(r.SRHighProb); err != nil {
		errs = append(errs, "sr high probability must be in [0,1]")
	}
	if r.StarMarker == "" {
		errs = append(errs, "star marker must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid rules: %s", strings.Join(errs, "; "))
	}
	return nil
}
