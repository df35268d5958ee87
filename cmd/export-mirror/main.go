package main

import (
	"context"
	"flag"
	"log"
	"time"

	"hopdb/internal/config"
	"hopdb/internal/hops"
	"hopdb/internal/mirror"
	"hopdb/pkg/database"
)

// Writes the raw records of a stored run to one snapshot per source, ready
// for mirror-server.
func main() {
	var (
		configPath = flag.String("config", "hopdb.yaml", "configuration file")
		outDir     = flag.String("out", "", "snapshot directory (defaults to mirror.data_dir)")
		runID      = flag.String("run", "", "run id (defaults to the latest run)")
	)
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	dir := *outDir
	if dir == "" {
		dir = cfg.Mirror.DataDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.Config{Path: cfg.Output.DBPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	repo := hops.NewRepo(db)
	id := *runID
	if id == "" {
		if id, err = repo.LatestRunID(ctx); err != nil {
			log.Fatalf("find latest run: %v", err)
		}
		if id == "" {
			log.Fatalf("no runs stored in %s", cfg.Output.DBPath)
		}
	}

	sources, err := repo.Sources(ctx, id)
	if err != nil {
		log.Fatalf("list sources: %v", err)
	}

	store := mirror.NewStore(dir)
	for _, sc := range sources {
		records, err := repo.SourceRecords(ctx, id, sc.Source)
		if err != nil {
			log.Fatalf("read %s: %v", sc.Source, err)
		}
		path, err := store.Write(sc.Source, records, cfg.Output.Indent)
		if err != nil {
			log.Fatalf("write %s: %v", sc.Source, err)
		}
		log.Printf("exported %d records of %s to %s", len(records), sc.Source, path)
	}

	log.Printf("exported %d sources of run %s", len(sources), id)
}
