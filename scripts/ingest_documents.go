package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/cv-coach/internal/config"
	"alfredoptarigan/cv-coach/internal/logging"
	"alfredoptarigan/cv-coach/internal/services"
)

// Ingests career-guidance documents (PDF or DOCX) into Qdrant so analysis
// reports can cite them. Re-running replaces the chunks of each file.
func main() {
	dir := flag.String("dir", "./reference_docs", "directory holding the guidance documents")
	chunkSize := flag.Int("chunk-size", 1000, "maximum chunk size in characters")
	overlap := flag.Int("overlap", 200, "characters shared between consecutive chunks")
	flag.Parse()

	cfg := config.Load()

	logger, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.Qdrant.Enabled() {
		logger.Fatal("QDRANT_URL is not set, nothing to ingest into")
	}

	ctx := context.Background()

	geminiService, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
		Timeout:    cfg.Gemini.Timeout,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize Gemini", zap.Error(err))
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, logger)
	if err != nil {
		logger.Fatal("failed to initialize Qdrant", zap.Error(err))
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		logger.Fatal("failed to initialize collection", zap.Error(err))
	}

	paths, err := guidanceFiles(*dir)
	if err != nil {
		logger.Fatal("failed to list guidance documents", zap.String("dir", *dir), zap.Error(err))
	}
	if len(paths) == 0 {
		logger.Warn("no PDF or DOCX files found", zap.String("dir", *dir))
		return
	}

	extractor := services.NewTextExtractor()
	chunker := services.NewTextChunker()

	successCount, failCount := 0, 0

	for _, path := range paths {
		source := filepath.Base(path)
		fileLog := logger.With(zap.String("source", source))

		text, err := extractor.ExtractFile(path)
		if err != nil {
			fileLog.Error("failed to extract text", zap.Error(err))
			failCount++
			continue
		}

		chunks := chunker.ChunkText(text, *chunkSize, *overlap)
		fileLog.Info("document chunked", zap.Int("characters", len(text)), zap.Int("chunks", len(chunks)))

		if err := qdrantService.DeleteSource(ctx, source); err != nil {
			fileLog.Error("failed to clear previous chunks", zap.Error(err))
			failCount++
			continue
		}

		stored := 0
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				fileLog.Warn("failed to embed chunk", zap.Int("chunk", i+1), zap.Error(err))
				continue
			}

			if err := qdrantService.UpsertChunk(ctx, source, services.DocTypeCareerGuide, chunk, embedding); err != nil {
				fileLog.Warn("failed to store chunk", zap.Int("chunk", i+1), zap.Error(err))
				continue
			}
			stored++
		}

		fileLog.Info("document ingested", zap.Int("stored", stored), zap.Int("chunks", len(chunks)))
		if stored == 0 {
			failCount++
			continue
		}
		successCount++
	}

	logger.Info("ingestion finished", zap.Int("succeeded", successCount), zap.Int("failed", failCount))

	if failCount > 0 {
		os.Exit(1)
	}
}

func guidanceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := services.FileTypeFromName(entry.Name()); ok && !strings.HasPrefix(entry.Name(), "~$") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	return paths, nil
}
