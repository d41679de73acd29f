package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"tanshin_insight/pkg/api/analyze"
	"tanshin_insight/pkg/api/upload"
	"tanshin_insight/pkg/core/eval"
	"tanshin_insight/pkg/core/pipeline"
	"tanshin_insight/pkg/core/store"
)

const defaultMaxUploadBytes = 16 << 20

func main() {
	// Load environment variables
	godotenv.Load()

	thresholds, err := eval.LoadThresholds("resources/thresholds.yaml")
	if err != nil {
		fmt.Printf("[WARNING] Failed to load thresholds: %v\n", err)
		fmt.Println("  Falling back to built-in defaults")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	documents, err := store.NewDocumentStore(uploadDir)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	maxBytes := int64(defaultMaxUploadBytes)
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			maxBytes = parsed
		}
	}

	// Result cache: Postgres when DATABASE_URL is set, local files otherwise.
	ctx := context.Background()
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[WARNING] DB init failed, result cache falls back to files: %v\n", err)
		} else {
			defer store.Close()
		}
	}
	results := store.NewResultCache(store.GetPool(), "")

	p := pipeline.New(thresholds, documents, results)

	uploadHandler := upload.NewHandler(documents, maxBytes)
	analyzeHandler := analyze.NewHandler(p)
	http.HandleFunc("/api/upload", uploadHandler.HandleUpload)
	http.HandleFunc("/api/analyze/", analyzeHandler.HandleAnalyze)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/upload")
	fmt.Println("  - GET  /api/analyze/{id}")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("[FATAL] Server failed to start: %v", err)
		os.Exit(1)
	}
}
