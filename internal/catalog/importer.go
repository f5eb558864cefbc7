package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/booster-sim/internal/gacha"
)

var ErrInvalidCard = errors.New("card needs a series and a card number")

// seedFile is the YAML layout of one series:
//
//	series: 神樂鉢
//	cards:
//	  - card_number: KGR-001
//	    card_name: ...
//	    rare: SR★
//	    money: "1,200 円"
type seedFile struct {
	Series string       `yaml:"series"`
	Cards  []gacha.Card `yaml:"cards"`
}

// ImportYAML parses one seed file. Every card gets the file's series.
func ImportYAML(r io.Reader) (string, []gacha.Card, error) {
	var f seedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return "", nil, fmt.Errorf("decode seed: %w", err)
	}
	if f.Series == "" {
		return "", nil, fmt.Errorf("seed has no series: %w", ErrInvalidCard)
	}
	for i := range f.Cards {
		if f.Cards[i].Number == "" {
			return "", nil, fmt.Errorf("seed %q card #%d: %w", f.Series, i+1, ErrInvalidCard)
		}
		f.Cards[i].Series = f.Series
	}
	return f.Series, f.Cards, nil
}

// ImportFile reads a seed file from disk into store and returns the series
// name and number of cards written.
func ImportFile(ctx context.Context, store Store, path string) (string, int, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer fh.Close()

	series, cards, err := ImportYAML(fh)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := store.Upsert(ctx, cards); err != nil {
		return "", 0, fmt.Errorf("%s: %w", path, err)
	}
	return series, len(cards), nil
}
