package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/pricing"
)

var ErrSeriesName = errors.New("invalid series name")

// Paths helper for default/series files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/config
}

func (p Paths) GamesDir() string {
	return filepath.Join(p.BaseDir, "games")
}
func (p Paths) DefaultPath() string {
	return filepath.Join(p.GamesDir(), "default.yaml")
}
func (p Paths) SeriesPath(series string) string {
	return filepath.Join(p.GamesDir(), series+".yaml")
}

// Loader reads YAML configs and merges default → series.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: series name
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths returns the file layout the loader reads from.
func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → series. Both files are optional;
// missing files contribute nothing. Only series with their own file are
// cached, so arbitrary names cannot grow the cache.
func (l *Loader) LoadMerged(series string) (RawConfig, error) {
	if err := CheckSeries(series); err != nil {
		return RawConfig{}, err
	}
	l.mu.RLock()
	if cfg, ok := l.cache[series]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, _, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	seriesCfg, found, err := readYAML(l.paths.SeriesPath(series))
	if err != nil {
		return RawConfig{}, fmt.Errorf("read series %q: %w", series, err)
	}
	merged := mergeRaw(defCfg, seriesCfg)

	if found {
		l.mu.Lock()
		l.cache[series] = merged
		l.mu.Unlock()
	}

	return merged, nil
}

// Resolve loads, validates and applies a series' config on top of
// gacha.DefaultRules.
func (l *Loader) Resolve(series string) (Resolved, error) {
	raw, err := l.LoadMerged(series)
	if err != nil {
		return Resolved{}, err
	}
	if err := ValidateRaw(raw); err != nil {
		return Resolved{}, fmt.Errorf("series %q: %w", series, err)
	}
	res := Resolved{
		Series:   series,
		Rules:    applyRaw(gacha.DefaultRules(), raw),
		Currency: "円",
		Version:  raw.Version,
	}
	if raw.Pricing != nil && raw.Pricing.Currency != "" {
		res.Currency = raw.Pricing.Currency
	}
	if err := res.Rules.Validate(); err != nil {
		return Resolved{}, fmt.Errorf("series %q: %w", series, err)
	}
	res.Shop = shopFor(res, raw.Pricing)
	return res, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// CheckSeries rejects names that cannot be a series: empty, the reserved
// "default", or anything that would escape the games directory.
func CheckSeries(series string) error {
	if series == "" || series == "default" || series == "." || series == ".." ||
		strings.ContainsAny(series, `/\`) {
		return fmt.Errorf("%w: %q", ErrSeriesName, series)
	}
	return nil
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg,
// found=false and no error.
func readYAML(path string) (cfg RawConfig, found bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, true, err
	}
	return cfg, true, nil
}

// mergeRaw overlays 'b' on 'a': every field set in 'b' wins.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	// top-level scalars
	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// pack / box / cycle
	if b.Pack.Size != nil {
		out.Pack.Size = b.Pack.Size
	}
	if b.Box.Packs != nil {
		out.Box.Packs = b.Box.Packs
	}
	if b.Box.SRLow != nil {
		out.Box.SRLow = b.Box.SRLow
	}
	if b.Box.SRHigh != nil {
		out.Box.SRHigh = b.Box.SRHigh
	}
	if b.Box.SRHighProb != nil {
		out.Box.SRHighProb = b.Box.SRHighProb
	}
	if b.Cycle.Boxes != nil {
		out.Cycle.Boxes = b.Cycle.Boxes
	}

	// markers
	switch {
	case out.Markers == nil && b.Markers != nil:
		c := *b.Markers
		out.Markers = &c
	case out.Markers != nil && b.Markers != nil:
		c := *out.Markers
		if b.Markers.Star != "" {
			c.Star = b.Markers.Star
		}
		if b.Markers.Ineligible != nil {
			c.Ineligible = b.Markers.Ineligible
		}
		out.Markers = &c
	}

	// pricing
	if b.Pricing != nil {
		var c PricingCfg
		if out.Pricing != nil {
			c = *out.Pricing
		}
		if b.Pricing.Currency != "" {
			c.Currency = b.Pricing.Currency
		}
		if b.Pricing.PackPrice != nil {
			c.PackPrice = b.Pricing.PackPrice
		}
		if b.Pricing.BoxPrice != nil {
			c.BoxPrice = b.Pricing.BoxPrice
		}
		if b.Pricing.TaxRate != nil {
			c.TaxRate = b.Pricing.TaxRate
		}
		out.Pricing = &c
	}

	return out
}

// shopFor builds the retail price list; unset prices leave offers out.
func shopFor(res Resolved, cfg *PricingCfg) pricing.Shop {
	var pack, box int
	var tax float64
	if cfg != nil {
		if cfg.PackPrice != nil {
			pack = *cfg.PackPrice
		}
		if cfg.BoxPrice != nil {
			box = *cfg.BoxPrice
		}
		if cfg.TaxRate != nil {
			tax = *cfg.TaxRate
		}
	}
	return pricing.NewShop(res.Currency, pack, box, res.Rules.PacksPerBox, tax)
}

// applyRaw writes every set field of raw onto rules.
func applyRaw(rules gacha.Rules, raw RawConfig) gacha.Rules {
	if raw.Pack.Size != nil {
		rules.PackSize = *raw.Pack.Size
	}
	if raw.Box.Packs != nil {
		rules.PacksPerBox = *raw.Box.Packs
	}
	if raw.Box.SRLow != nil {
		rules.SRLow = *raw.Box.SRLow
	}
	if raw.Box.SRHigh != nil {
		rules.SRHigh = *raw.Box.SRHigh
	}
	if raw.Box.SRHighProb != nil {
		rules.SRHighProb = *raw.Box.SRHighProb
	}
	if raw.Cycle.Boxes != nil {
		rules.BoxesPerCycle = *raw.Cycle.Boxes
	}
	if raw.Markers != nil {
		if raw.Markers.Star != "" {
			rules.StarMarker = raw.Markers.Star
		}
		if raw.Markers.Ineligible != nil {
			rules.Ineligible = *raw.Markers.Ineligible
		}
	}
	return rules
}
