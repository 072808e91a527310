// Command migrate applies db/schema.sql to the configured database using
// Atlas declarative migrations. The dev database is used by Atlas to
// compute the diff and never receives application data.
package main

import (
	"context"
	"log/slog"
	"os"

	"courtbook/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
	"github.com/joho/godotenv"
)

const schemaFile = "file://db/schema.sql"

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	devURL := os.Getenv("ATLAS_DEV_URL")
	if devURL == "" {
		devURL = "docker://postgres/17/dev"
	}

	client, err := atlasexec.NewClient(".", "atlas")
	if err != nil {
		slog.Error("failed to init atlas client", "error", err)
		os.Exit(1)
	}

	res, err := client.SchemaApply(context.Background(), &atlasexec.SchemaApplyParams{
		URL:    cfg.DB.BuildDSN(),
		To:     schemaFile,
		DevURL: devURL,
	})
	if err != nil {
		slog.Error("schema apply failed", "error", err)
		os.Exit(1)
	}

	slog.Info("schema applied", "changes", len(res.Changes.Applied))
}
