// resolve.go
package game

import (
	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/pricing"
)

// Resolver turns a series name into its effective rules. *Loader is the
// file-backed implementation.
type Resolver interface {
	Resolve(series string) (Resolved, error)
}

// Static resolves every series to the same rules.
type Static struct {
	Rules    gacha.Rules
	Currency string
	Shop     pricing.Shop
}

func (s Static) Resolve(series string) (Resolved, error) {
	if err := CheckSeries(series); err != nil {
		return Resolved{}, err
	}
	return Resolved{Series: series, Rules: s.Rules, Currency: s.Currency, Shop: s.Shop}, nil
}
