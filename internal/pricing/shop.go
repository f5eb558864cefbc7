package pricing

import (
	"math"
	"sort"
)

// Offer is a purchasable bundle of packs, e.g. a single pack or a sealed box.
type Offer struct {
	ID    string // e.g. "pack", "box"
	Name  string // display name
	Packs int    // packs granted
	Price int    // price in whole currency units
}

// Shop is a series' retail price list.
type Shop struct {
	Currency string
	// If prices are pre-tax, TaxRate is applied on the subtotal.
	// Tax-inclusive prices use TaxRate=0.
	TaxRate float64
	Offers  []Offer
}

// NewShop builds the usual two-offer shop. Non-positive prices leave the
// offer out.
func NewShop(currency string, packPrice, boxPrice, packsPerBox int, taxRate float64) Shop {
	s := Shop{Currency: currency, TaxRate: taxRate}
	if packPrice > 0 {
		s.Offers = append(s.Offers, Offer{ID: "pack", Name: "single pack", Packs: 1, Price: packPrice})
	}
	if boxPrice > 0 && packsPerBox > 0 {
		s.Offers = append(s.Offers, Offer{ID: "box", Name: "sealed box", Packs: packsPerBox, Price: boxPrice})
	}
	return s
}

// Plan summarizes a purchase plan.
type Plan struct {
	Purchases []Purchase `json:"purchases,omitempty"`
	Sub       int        `json:"subtotal"` // before tax
	Tax       int        `json:"tax"`
	Total     int        `json:"total"`
	Packs     int        `json:"packs"`
	Currency  string     `json:"currency"`
}

// Purchase is one line item in the plan.
type Purchase struct {
	OfferID   string `json:"offer_id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int    `json:"unit_price"`
	UnitPacks int    `json:"unit_packs"`
	Subtotal  int    `json:"subtotal"`
}

// applyTax computes tax and total given a subtotal and a tax rate.
func applyTax(sub int, taxRate float64) (tax int, total int) {
	if taxRate <= 0 {
		return 0, sub
	}
	t := int(math.Round(float64(sub) * taxRate))
	return t, sub + t
}

// buildPlan turns per-offer counts into a plan with stable line order.
func buildPlan(s Shop, counts map[int]int) Plan {
	plan := Plan{Currency: s.Currency}
	idx := make([]int, 0, len(counts))
	for i := range counts {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for _, i := range idx {
		o, qty := s.Offers[i], counts[i]
		sub := o.Price * qty
		plan.Purchases = append(plan.Purchases, Purchase{
			OfferID:   o.ID,
			Name:      o.Name,
			Qty:       qty,
			UnitPrice: o.Price,
			UnitPacks: o.Packs,
			Subtotal:  sub,
		})
		plan.Sub += sub
		plan.Packs += o.Packs * qty
	}
	plan.Tax, plan.Total = applyTax(plan.Sub, s.TaxRate)
	return plan
}
