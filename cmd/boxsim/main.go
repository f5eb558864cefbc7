// Command boxsim opens many simulated cycles of a series and prints the
// rarity distribution per box and per cycle.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/xtding233/booster-sim/internal/catalog"
	"github.com/xtding233/booster-sim/internal/gacha"
	"github.com/xtding233/booster-sim/internal/game"
	"github.com/xtding233/booster-sim/internal/pricing"
)

type options struct {
	series  string
	file    string // seed YAML used instead of the database
	db      string
	rules   string
	cycles  int
	trials  int
	seed    uint64
	budget  int // retail budget to plan a purchase for, 0 skips it
	noColor bool
}

func main() {
	var o options
	flag.StringVar(&o.series, "series", "", "series to simulate")
	flag.StringVar(&o.file, "file", "", "read cards from a seed YAML file instead of the database")
	flag.StringVar(&o.db, "db", "data/cards.db", "SQLite catalog path")
	flag.StringVar(&o.rules, "rules", "config", "rules directory (holding games/*.yaml)")
	flag.IntVar(&o.cycles, "cycles", 1, "cycles opened per trial")
	flag.IntVar(&o.trials, "trials", 1000, "number of trials")
	flag.Uint64Var(&o.seed, "seed", 1, "base seed; trial i uses seed+i")
	flag.IntVar(&o.budget, "budget", 0, "also report the most packs this budget buys at retail")
	flag.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	flag.Parse()

	if o.noColor {
		color.NoColor = true
	}
	if err := run(context.Background(), o, os.Stdout); err != nil {
		color.Red("boxsim: %v", err)
		os.Exit(1)
	}
}

func loadCards(ctx context.Context, o options) (string, []gacha.Card, error) {
	if o.file != "" {
		fh, err := os.Open(o.file)
		if err != nil {
			return "", nil, err
		}
		defer fh.Close()
		return catalog.ImportYAML(fh)
	}
	if o.series == "" {
		return "", nil, fmt.Errorf("-series or -file is required")
	}
	db, err := catalog.OpenSQLite(o.db)
	if err != nil {
		return "", nil, err
	}
	defer db.Close()
	cards, err := db.Cards(ctx, o.series)
	return o.series, cards, err
}

func run(ctx context.Context, o options, w io.Writer) error {
	series, cards, err := loadCards(ctx, o)
	if err != nil {
		return err
	}
	res, err := game.NewLoader(o.rules).Resolve(series)
	if err != nil {
		return err
	}

	sim, err := gacha.RunMonteCarlo(gacha.SimParams{
		Cards:  cards,
		Rules:  res.Rules,
		Cycles: o.cycles,
		Seed:   o.seed,
	}, o.trials)
	if err != nil {
		return err
	}
	report(w, series, res, sim, o)
	return nil
}

func report(w io.Writer, series string, res game.Resolved, sim gacha.SimResult, o options) {
	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	label := color.New(color.FgYellow).SprintFunc()

	r := res.Rules
	fmt.Fprintf(w, "%s %s\n", title("series"), series)
	fmt.Fprintf(w, "  %d trials x %d cycles x %d boxes x %d packs = %d packs\n",
		o.trials, o.cycles, r.BoxesPerCycle, r.PacksPerBox, sim.Packs)

	row := func(name string, s gacha.Stats) {
		fmt.Fprintf(w, "  %-18s mean %7.3f  sd %6.3f  p50 %6.1f  p90 %6.1f  p99 %6.1f\n",
			label(name), s.Mean, s.StdDev, s.P50, s.P90, s.P99)
	}
	row("SR per box", sim.SRPerBox)
	row("star per box", sim.StarPerBox)
	row("SR★ per cycle", sim.SRStarPerCycle)
	row("value per box", sim.PricePerBox)

	if len(res.Shop.Offers) == 0 {
		return
	}
	box := pricing.CheapestFor(res.Shop, r.PacksPerBox)
	cycle := pricing.CheapestFor(res.Shop, r.PacksPerBox*r.BoxesPerCycle)
	fmt.Fprintf(w, "%s\n", title("retail"))
	fmt.Fprintf(w, "  %-18s %s\n", label("per box"), pricing.Format(float64(box.Total), res.Currency))
	fmt.Fprintf(w, "  %-18s %s\n", label("per cycle"), pricing.Format(float64(cycle.Total), res.Currency))

	ratio := 0.0
	if box.Total > 0 {
		ratio = sim.PricePerBox.Mean / float64(box.Total)
	}
	paint := color.New(color.FgRed).SprintfFunc()
	if ratio >= 1 {
		paint = color.New(color.FgGreen).SprintfFunc()
	}
	fmt.Fprintf(w, "  %-18s %s\n", label("value / cost"), paint("%.2f", ratio))

	if o.budget <= 0 {
		return
	}
	plan := pricing.MaxPacksUnder(res.Shop, o.budget)
	fmt.Fprintf(w, "%s %s\n", title("budget"), pricing.Format(float64(o.budget), res.Currency))
	fmt.Fprintf(w, "  %-18s %d (%.2f boxes)\n", label("packs"), plan.Packs, float64(plan.Packs)/float64(r.PacksPerBox))
	for _, p := range plan.Purchases {
		fmt.Fprintf(w, "  %-18s %d x %s\n", label(p.Name), p.Qty, pricing.Format(float64(p.UnitPrice), res.Currency))
	}
	fmt.Fprintf(w, "  %-18s %s\n", label("spent"), pricing.Format(float64(plan.Total), res.Currency))
	if plan.Packs > 0 {
		fmt.Fprintf(w, "  %-18s %.2f SR, %.2f SR★\n", label("expected"),
			sim.SRPerBox.Mean*float64(plan.Packs)/float64(r.PacksPerBox),
			sim.SRStarPerCycle.Mean*float64(plan.Packs)/float64(r.PacksPerBox*r.BoxesPerCycle))
	}
}
