// Package catalog stores the card catalog the draw engine is fed from: one
// ordered card list per series.
package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/xtding233/booster-sim/internal/gacha"
)

var ErrSeriesNotFound = errors.New("series not found")

// Store is a keyed collection of cards, one list per series.
type Store interface {
	// ListSeries returns every series name in ascending order.
	ListSeries(ctx context.Context) ([]string, error)
	// Cards returns a series' cards in catalog order, or ErrSeriesNotFound.
	Cards(ctx context.Context, series string) ([]gacha.Card, error)
	// Upsert inserts cards or updates existing ones keyed by
	// (series, number, rarity). New cards are appended to the series order.
	Upsert(ctx context.Context, cards []gacha.Card) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.RWMutex
	series map[string][]gacha.Card
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{series: make(map[string][]gacha.Card)}
}

func (m *MemoryStore) ListSeries(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.series))
	for name := range m.series {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) Cards(_ context.Context, series string) ([]gacha.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cards, ok := m.series[series]
	if !ok {
		return nil, ErrSeriesNotFound
	}
	return append([]gacha.Card(nil), cards...), nil
}

func (m *MemoryStore) Upsert(_ context.Context, cards []gacha.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range cards {
		if c.Series == "" || c.Number == "" {
			return ErrInvalidCard
		}
		list := m.series[c.Series]
		replaced := false
		for i := range list {
			if list[i].Number == c.Number && list[i].Rarity == c.Rarity {
				list[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			list = append(list, c)
		}
		m.series[c.Series] = list
	}
	return nil
}
