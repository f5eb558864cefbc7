package session

import (
	"context"

	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/game"
	"github.com/xtding233/booster-sim/internal/pricing"
)

// Progress is the draw state plus display fields, shared by the HTTP and
// gRPC APIs.
type Progress struct {
	gacha.DrawState
	Series    string       `json:"series"`
	Currency  string       `json:"currency"`
	TotalText string       `json:"total_price_text"`
	Spent     pricing.Plan `json:"spent"` // cheapest retail cost of the packs opened so far
}

// NewProgress snapshots e for display.
func NewProgress(e *gacha.Engine, res game.Resolved) Progress {
	st := e.State()
	return Progress{
		DrawState: st,
		Series:    res.Series,
		Currency:  res.Currency,
		TotalText: pricing.Format(st.TotalPrice, res.Currency),
		Spent:     pricing.CheapestFor(res.Shop, st.PacksOpened),
	}
}

// Packs is the result of one draw request.
type Packs struct {
	Packs    []gacha.Pack `json:"packs"`
	Progress Progress     `json:"progress"`
}

// Open runs open against the key's engine and returns the packs with the
// progress after them.
func (m *Manager) Open(ctx context.Context, key Key, open func(*gacha.Engine) []gacha.Pack) (Packs, error) {
	var out Packs
	err := m.Do(ctx, key, func(e *gacha.Engine, res game.Resolved) error {
		out.Packs = open(e)
		out.Progress = NewProgress(e, res)
		return nil
	})
	return out, err
}

// Snapshot returns the key's progress. A key with no session gets the
// progress of a session that has opened nothing, and none is registered.
func (m *Manager) Snapshot(ctx context.Context, key Key) (Progress, error) {
	if s, ok := m.lookup(key); ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.engine != nil {
			return NewProgress(s.engine, s.resolved), nil
		}
	}
	e, res, err := m.build(ctx, key.Series)
	if err != nil {
		return Progress{}, err
	}
	p := NewProgress(e, res)
	// the box plan of a throwaway engine means nothing to the visitor
	p.SRTarget, p.SRSlots = 0, nil
	return p, nil
}

// OpenN returns an opener for n consecutive packs, crossing box boundaries
// as needed.
func OpenN(n int) func(*gacha.Engine) []gacha.Pack {
	return func(e *gacha.Engine) []gacha.Pack {
		packs := make([]gacha.Pack, 0, n)
		for i := 0; i < n; i++ {
			packs = append(packs, e.OpenPack())
		}
		return packs
	}
}
