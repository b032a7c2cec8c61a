package main

import (
	"context"
	"fmt"
	"os"

	dbfs "github.com/garnizeh/jobtracker/db"
	"github.com/garnizeh/jobtracker/internal/config"
	"github.com/garnizeh/jobtracker/internal/db"
)

func main() {
	ctx := context.Background()
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.EnsureSchema(ctx, database, dbfs.Schema); err != nil {
		fmt.Fprintf(os.Stderr, "Schema error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database %s initialized successfully.\n", cfg.DatabasePath)
}
