// LotLayout HTTP API
//
// Serves the stall planner over JSON. Set S3_BUCKET to enable publishing
// of exports; see internal/config for the other variables.
//
// Build:
//   go build -o lotlayout-server ./cmd/server

package main

import (
	"context"
	"log"

	"github.com/piwi3910/LotLayout/internal/config"
	"github.com/piwi3910/LotLayout/internal/importer"
	"github.com/piwi3910/LotLayout/internal/model"
	"github.com/piwi3910/LotLayout/internal/server"
	"github.com/piwi3910/LotLayout/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	dims := model.DefaultDimensions()
	if cfg.DimensionsFile != "" {
		dims, err = importer.ImportDimensions(cfg.DimensionsFile)
		if err != nil {
			log.Fatalf("Failed to load dimensions: %v", err)
		}
		log.Printf("Loaded dimensions from %s", cfg.DimensionsFile)
	}

	h := server.NewHandler(dims)
	if cfg.PublishingEnabled() {
		store, err := storage.NewS3Adapter(context.Background(), cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			log.Fatalf("Failed to create S3 client: %v", err)
		}
		h.SetPublisher(storage.NewPublisher(store, cfg.S3Prefix))
		log.Printf("Publishing to s3://%s/%s", store.Bucket(), cfg.S3Prefix)
	} else {
		log.Println("S3_BUCKET not set, publishing disabled")
	}

	e := server.New(cfg, h)
	log.Printf("Server starting on port %s", cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
