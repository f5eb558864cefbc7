package game

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/booster-sim/internal/gacha"
)

func writeRules(t *testing.T, dir, name, body string) {
	t.Helper()
	games := filepath.Join(dir, "games")
	require.NoError(t, os.MkdirAll(games, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(games, name), []byte(body), 0o644))
}

func TestResolveWithoutFilesUsesDefaults(t *testing.T) {
	l := NewLoader(t.TempDir())
	res, err := l.Resolve("神樂鉢")
	require.NoError(t, err)
	assert.Equal(t, gacha.DefaultRules(), res.Rules)
	assert.Equal(t, "円", res.Currency)
	assert.Equal(t, "神樂鉢", res.Series)
}

func TestResolveMergesSeriesOverDefault(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "default.yaml", `
version: "1"
pack:
  size: 6
box:
  packs: 10
  sr_low: 2
  sr_high: 3
markers:
  star: "☆"
pricing:
  currency: "JPY"
`)
	writeRules(t, dir, "alpha.yaml", `
version: "2"
box:
  sr_high: 4
  sr_high_prob: 0.25
cycle:
  boxes: 6
markers:
  ineligible: ""
`)
	l := NewLoader(dir)
	res, err := l.Resolve("alpha")
	require.NoError(t, err)

	want := gacha.DefaultRules()
	want.PackSize = 6
	want.PacksPerBox = 10
	want.SRLow = 2
	want.SRHigh = 4
	want.SRHighProb = 0.25
	want.BoxesPerCycle = 6
	want.StarMarker = "☆"
	want.Ineligible = ""
	assert.Equal(t, want, res.Rules)
	assert.Equal(t, "JPY", res.Currency)
	assert.Equal(t, "2", res.Version)

	// series without a file gets the default layer only
	res, err = l.Resolve("beta")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rules.SRHigh)
	assert.Equal(t, "AP", res.Rules.Ineligible)
}

func TestResolveRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "bad.yaml", `
pack:
  size: 1
box:
  packs: 4
  sr_low: 3
  sr_high: 2
  sr_high_prob: 1.5
cycle:
  boxes: 0
`)
	_, err := NewLoader(dir).Resolve("bad")
	require.Error(t, err)
	for _, msg := range []string{"pack.size", "box.sr_high must be >= box.sr_low", "sr_high_prob", "cycle.boxes"} {
		assert.Contains(t, err.Error(), msg)
	}
}

func TestResolveRejectsBrokenYAML(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "broken.yaml", "pack: [")
	_, err := NewLoader(dir).Resolve("broken")
	assert.Error(t, err)
}

func TestSeriesNameChecked(t *testing.T) {
	l := NewLoader(t.TempDir())
	for _, name := range []string{"", "..", "a/b", `a\b`, "default"} {
		_, err := l.Resolve(name)
		assert.ErrorIs(t, err, ErrSeriesName, "name %q", name)
	}
}

func TestInvalidate(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "gamma.yaml", "box:\n  sr_low: 1\n")
	l := NewLoader(dir)
	res, err := l.Resolve("gamma")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rules.SRLow)

	writeRules(t, dir, "gamma.yaml", "box:\n  sr_low: 2\n")
	res, err = l.Resolve("gamma")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rules.SRLow, "cached until invalidated")

	l.Invalidate()
	res, err = l.Resolve("gamma")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rules.SRLow)
}

func TestOnlySeriesWithFilesAreCached(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "default.yaml", "box:\n  sr_low: 3\n")
	writeRules(t, dir, "gamma.yaml", "box:\n  sr_low: 1\n")
	l := NewLoader(dir)

	for i := 0; i < 50; i++ {
		res, err := l.Resolve(fmt.Sprintf("unknown-%d", i))
		require.NoError(t, err)
		assert.Equal(t, 3, res.Rules.SRLow)
	}
	_, err := l.Resolve("gamma")
	require.NoError(t, err)

	l.mu.RLock()
	defer l.mu.RUnlock()
	assert.Len(t, l.cache, 1)
	assert.Contains(t, l.cache, "gamma")
}

func TestStaticResolver(t *testing.T) {
	s := Static{Rules: gacha.DefaultRules(), Currency: "円"}
	res, err := s.Resolve("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", res.Series)
	_, err = s.Resolve("../x")
	assert.ErrorIs(t, err, ErrSeriesName)
}

func TestResolveShop(t *testing.T) {
	dir := t.TempDir()
	writeRules(t, dir, "default.yaml", `
pricing:
  currency: "円"
  pack_price: 330
  box_price: 5280
`)
	writeRules(t, dir, "promo.yaml", `
box:
  packs: 10
pricing:
  box_price: 3000
  tax_rate: 0.1
`)
	l := NewLoader(dir)

	res, err := l.Resolve("promo")
	require.NoError(t, err)
	require.Len(t, res.Shop.Offers, 2)
	assert.Equal(t, 330, res.Shop.Offers[0].Price, "pack price inherited from default")
	assert.Equal(t, 10, res.Shop.Offers[1].Packs, "box offer follows box.packs")
	assert.Equal(t, 3000, res.Shop.Offers[1].Price)
	assert.Equal(t, 0.1, res.Shop.TaxRate)
	assert.Equal(t, "円", res.Shop.Currency)

	writeRules(t, dir, "bad.yaml", "pricing:\n  pack_price: -1\n  tax_rate: 1.5\n")
	_, err = l.Resolve("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pricing.pack_price")
	assert.Contains(t, err.Error(), "pricing.tax_rate")
}
