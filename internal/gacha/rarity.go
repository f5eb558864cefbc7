package gacha

import "strings"

// Card is one catalog entry as the engine sees it.
type Card struct {
	Number   string `json:"card_number" yaml:"card_number"`
	Name     string `json:"card_name,omitempty" yaml:"card_name,omitempty"`
	Series   string `json:"series,omitempty" yaml:"series,omitempty"`
	Rarity   string `json:"rare" yaml:"rare"`
	Price    string `json:"money,omitempty" yaml:"money,omitempty"`
	ImageURL string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

// Class is the rarity tier derived from a card's rarity code.
type Class int

const (
	ClassFiller Class = iota
	ClassOtherStar
	ClassR
	ClassRStar
	ClassSR
	ClassSRStar
)

func (c Class) String() string {
	switch c {
	case ClassSRStar:
		return "SR★"
	case ClassSR:
		return "SR"
	case ClassRStar:
		return "R★"
	case ClassR:
		return "R"
	case ClassOtherStar:
		return "★"
	default:
		return "filler"
	}
}

// Classify derives the tier from a rarity code: prefix SR, prefix R (not SR),
// anything else; each optionally carrying the star marker.
func Classify(rarity, starMarker string) Class {
	star := starMarker != "" && strings.Contains(rarity, starMarker)
	switch {
	case strings.HasPrefix(rarity, "SR"):
		if star {
			return ClassSRStar
		}
		return ClassSR
	case strings.HasPrefix(rarity, "R"):
		if star {
			return ClassRStar
		}
		return ClassR
	case star:
		return ClassOtherStar
	}
	return ClassFiller
}

// IsStar reports whether the tier carries the star marker.
func (c Class) IsStar() bool {
	return c == ClassSRStar || c == ClassRStar || c == ClassOtherStar
}

// IsSR reports whether the tier has the SR prefix (SR★ included).
func (c Class) IsSR() bool { return c == ClassSR || c == ClassSRStar }

// IsR reports whether the tier has the R prefix but not SR.
func (c Class) IsR() bool { return c == ClassR || c == ClassRStar }

// FoilEligible reports whether a card of this tier may take the foil slot.
func (c Class) FoilEligible() bool { return c != ClassFiller }

// pools partitions a catalog by tier. Built once per engine since the catalog
// never changes after load.
type pools struct {
	all       []Card
	filler    []Card // not foil-eligible
	foil      []Card // foil-eligible
	srStar    []Card
	anyStar   []Card // SR★, R★, ★
	srAll     []Card // SR and SR★
	srNonStar []Card
	rAll      []Card // R and R★
	rNonStar  []Card
}

func partition(cards []Card, starMarker string) pools {
	p := pools{all: cards}
	for _, c := range cards {
		cls := Classify(c.Rarity, starMarker)
		if cls.FoilEligible() {
			p.foil = append(p.foil, c)
		} else {
			p.filler = append(p.filler, c)
		}
		if cls.IsStar() {
			p.anyStar = append(p.anyStar, c)
		}
		switch cls {
		case ClassSRStar:
			p.srStar = append(p.srStar, c)
			p.srAll = append(p.srAll, c)
		case ClassSR:
			p.srAll = append(p.srAll, c)
			p.srNonStar = append(p.srNonStar, c)
		case ClassRStar:
			p.rAll = append(p.rAll, c)
		case ClassR:
			p.rAll = append(p.rAll, c)
			p.rNonStar = append(p.rNonStar, c)
		}
	}
	return p
}

// eligible drops cards whose number carries the ineligibility marker.
func eligible(cards []Card, marker string) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if marker != "" && strings.Contains(c.Number, marker) {
			continue
		}
		out = append(out, c)
	}
	return out
}
