// Command seed imports YAML card files into the SQLite catalog.
//
//	seed -db data/cards.db data/seed/*.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/xtding233/booster-sim/internal/catalog"
)

func main() {
	db := flag.String("db", "data/cards.db", "SQLite catalog path")
	dir := flag.String("dir", "", "import every *.yaml file in this directory")
	flag.Parse()

	files := flag.Args()
	if *dir != "" {
		matches, err := filepath.Glob(filepath.Join(*dir, "*.yaml"))
		if err != nil {
			color.Red("seed: %v", err)
			os.Exit(1)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		color.Yellow("seed: nothing to import")
		flag.Usage()
		os.Exit(2)
	}
	if err := run(context.Background(), *db, files, os.Stdout); err != nil {
		color.Red("seed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dbPath string, files []string, w io.Writer) error {
	store, err := catalog.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ok := color.New(color.FgGreen).SprintFunc()
	total := 0
	for _, f := range files {
		series, n, err := catalog.ImportFile(ctx, store, f)
		if err != nil {
			return err
		}
		total += n
		fmt.Fprintf(w, "%s %s: %d cards (%s)\n", ok("imported"), series, n, filepath.Base(f))
	}
	fmt.Fprintf(w, "%d cards from %d files into %s\n", total, len(files), dbPath)
	return nil
}
