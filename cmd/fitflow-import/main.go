package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Perentie01/fitflow/internal/config"
	"github.com/Perentie01/fitflow/internal/importer"
	"github.com/Perentie01/fitflow/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to plan file, CSV or TSV (required)")
	yes := flag.Bool("yes", false, "confirm the import (without this flag only the preview is shown)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitflow-import -config config.yaml -file plan.tsv [-yes]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	text, err := os.ReadFile(*filePath)
	if err != nil {
		log.Error("failed to read plan file", "file", *filePath, "error", err)
		os.Exit(1)
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	imp := importer.New(db, log)

	p, err := imp.Preview(string(text))
	if err != nil {
		log.Error("preview failed", "error", err)
		os.Exit(1)
	}

	log.Info("plan parsed", "rows", p.Rows, "blocks", p.BlockIDs)
	for _, c := range p.Preview {
		log.Info("preview row",
			"row", c.Row,
			"block", c.Workout.BlockID,
			"day", c.Workout.Day,
			"exercise", c.Workout.ExerciseName,
			"category", c.Workout.Category,
			"type", c.Workout.Type,
			"sets", c.Workout.Sets,
		)
	}
	for _, e := range p.Errors {
		log.Warn("validation error", "detail", e)
	}

	if len(p.Errors) > 0 {
		log.Error("cannot import: plan has validation errors", "count", len(p.Errors))
		os.Exit(1)
	}

	if !*yes {
		log.Info("preview only — re-run with -yes to replace the store with this plan")
		return
	}

	// Import replaces everything: all existing blocks, workouts, and
	// progress are deleted before the plan is written.
	stats, err := imp.Confirm(context.Background(), p.Token)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	log.Info("import complete",
		"workouts_imported", stats.WorkoutsImported,
		"blocks_created", stats.BlocksCreated,
		"active_block", stats.ActiveBlock,
	)
}
