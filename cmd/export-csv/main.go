package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"hopdb/internal/catalog"
	"hopdb/internal/config"
	"hopdb/internal/hops"
	"hopdb/pkg/database"
)

func main() {
	var (
		configPath = flag.String("config", "hopdb.yaml", "configuration file")
		outPath    = flag.String("out", "data/hops.csv", "output CSV path")
		source     = flag.String("source", "", "only hops whose source contains this text")
		country    = flag.String("country", "", "only hops from this country")
	)
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.Config{Path: cfg.Output.DBPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	n, err := exportHops(ctx, hops.NewRepo(db), hops.ListQuery{Source: *source, Country: *country}, *outPath)
	if err != nil {
		log.Fatalf("export hops failed: %v", err)
	}

	log.Printf("exported %d hops to %s", n, *outPath)
}

func exportHops(ctx context.Context, repo *hops.Repo, q hops.ListQuery, outPath string) (int, error) {
	list, err := repo.List(ctx, q)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := catalog.WriteCSV(f, list); err != nil {
		return 0, err
	}
	return len(list), f.Close()
}
