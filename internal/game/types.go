// types.go
package game

import (
	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/pricing"
)

// Raw config loaded from YAML. Pointer fields distinguish "unset" from zero
// so a series file only overrides what it names.
type RawConfig struct {
	Version string      `yaml:"version"`
	Pack    PackConfig  `yaml:"pack"`
	Box     BoxConfig   `yaml:"box"`
	Cycle   CycleConfig `yaml:"cycle"`
	Markers *MarkerCfg  `yaml:"markers,omitempty"`
	Pricing *PricingCfg `yaml:"pricing,omitempty"`
	Notes   string      `yaml:"notes,omitempty"`
}

type PackConfig struct {
	Size *int `yaml:"size"` // cards per pack, foil included
}

type BoxConfig struct {
	Packs      *int     `yaml:"packs"`
	SRLow      *int     `yaml:"sr_low"`
	SRHigh     *int     `yaml:"sr_high"`
	SRHighProb *float64 `yaml:"sr_high_prob"`
}

type CycleConfig struct {
	Boxes *int `yaml:"boxes"`
}

type MarkerCfg struct {
	Star       string  `yaml:"star,omitempty"`
	Ineligible *string `yaml:"ineligible,omitempty"` // "" disables the filter
}

type PricingCfg struct {
	Currency  string   `yaml:"currency"`
	PackPrice *int     `yaml:"pack_price"` // retail price of one pack
	BoxPrice  *int     `yaml:"box_price"`  // retail price of a sealed box
	TaxRate   *float64 `yaml:"tax_rate"`   // 0 when prices include tax
}

// Resolved is a series' effective configuration.
type Resolved struct {
	Series   string
	Rules    gacha.Rules
	Currency string
	Shop     pricing.Shop
	Version  string // effective config version for tracing
}
