package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Perentie01/fitflow/internal/config"
	"github.com/Perentie01/fitflow/internal/exporter"
	"github.com/Perentie01/fitflow/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	blockID := flag.String("block", "", "block id to export; defaults to the active block")
	outPath := flag.String("out", "", "output file; defaults to fitflow-<block>.tsv in the current directory, '-' for stdout")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
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

	ctx := context.Background()

	target := *blockID
	if target == "" {
		active, err := db.ActiveBlock(ctx)
		if err != nil {
			log.Error("failed to look up active block", "error", err)
			os.Exit(1)
		}
		if active == nil {
			fmt.Fprintf(os.Stderr, "no active block; pass -block explicitly\n")
			os.Exit(1)
		}
		target = active.BlockID
	}

	file, err := exporter.Export(ctx, db, target)
	if err != nil {
		log.Error("export failed", "block", target, "error", err)
		os.Exit(1)
	}

	if *outPath == "-" {
		if _, err := os.Stdout.Write(file.Data); err != nil {
			log.Error("writing to stdout failed", "error", err)
			os.Exit(1)
		}
		return
	}

	dest := *outPath
	if dest == "" {
		dest = file.Name
	}
	if err := os.WriteFile(dest, file.Data, 0o644); err != nil {
		log.Error("writing export failed", "file", dest, "error", err)
		os.Exit(1)
	}
	log.Info("export written", "block", target, "file", dest, "bytes", len(file.Data))
}
