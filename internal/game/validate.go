package game

import (
	"fmt"
	"strings"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// pack.size
	if cfg.Pack.Size != nil && *cfg.Pack.Size < 2 {
		errs = append(errs, "pack.size must be >= 2 (fillers plus one foil)")
	}

	// box
	if cfg.Box.Packs != nil && *cfg.Box.Packs < 1 {
		errs = append(errs, "box.packs must be >= 1")
	}
	if cfg.Box.SRLow != nil && *cfg.Box.SRLow < 0 {
		errs = append(errs, "box.sr_low must be >= 0")
	}
	if cfg.Box.SRLow != nil && cfg.Box.SRHigh != nil && *cfg.Box.SRHigh < *cfg.Box.SRLow {
		errs = append(errs, "box.sr_high must be >= box.sr_low")
	}
	if cfg.Box.SRHigh != nil && cfg.Box.Packs != nil && *cfg.Box.SRHigh > *cfg.Box.Packs {
		errs = append(errs, "box.sr_high must not exceed box.packs")
	}
	if cfg.Box.SRHighProb != nil {
		if p := *cfg.Box.SRHighProb; p < 0 || p > 1 {
			errs = append(errs, "box.sr_high_prob must be in [0,1]")
		}
	}

	// cycle
	if cfg.Cycle.Boxes != nil && *cfg.Cycle.Boxes < 1 {
		errs = append(errs, "cycle.boxes must be >= 1")
	}

	// markers
	if cfg.Markers != nil && cfg.Markers.Ineligible != nil && strings.TrimSpace(*cfg.Markers.Ineligible) != *cfg.Markers.Ineligible {
		errs = append(errs, "markers.ineligible must not carry surrounding whitespace")
	}

	// pricing
	if p := cfg.Pricing; p != nil {
		if p.PackPrice != nil && *p.PackPrice < 0 {
			errs = append(errs, "pricing.pack_price must be >= 0")
		}
		if p.BoxPrice != nil && *p.BoxPrice < 0 {
			errs = append(errs, "pricing.box_price must be >= 0")
		}
		if p.TaxRate != nil && (*p.TaxRate < 0 || *p.TaxRate >= 1) {
			errs = append(errs, "pricing.tax_rate must be in [0,1)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
