package main

import (
	"context"
	"errors"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

// Reference material lives in one folder per category, e.g.
// reference_docs/ats_compliance/parsing_tips.pdf
const referenceRoot = "./reference_docs"

var categories = []string{
	services.CategoryGeneral,
	services.CategoryATS,
	services.CategoryJobMatch,
}

type referenceDoc struct {
	Path     string
	Category string
}

func main() {
	log.Println("🚀 Starting guideline ingestion...")

	cfg := config.Load()
	ctx := context.Background()

	geminiService, err := services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, "")
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	if !cfg.Qdrant.Enabled() {
		log.Fatalf("❌ QDRANT_URL is required for ingestion")
	}
	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	extractor := services.NewDocumentExtractor(storageService)
	chunker := services.NewTextChunker(1000, 200)

	docs, err := findReferenceDocs(referenceRoot)
	if err != nil {
		log.Fatalf("❌ Failed to list reference documents: %v", err)
	}
	if len(docs) == 0 {
		log.Fatalf("❌ No reference documents found under %s", referenceRoot)
	}

	successCount := 0
	failCount := 0

	for _, doc := range docs {
		source := filepath.Base(doc.Path)
		log.Printf("📄 Processing: %s (%s)", source, doc.Category)

		data, err := os.ReadFile(doc.Path)
		if err != nil {
			log.Printf("   ❌ Failed to read file: %v", err)
			failCount++
			continue
		}

		text, err := extractor.Extract(ctx, models.UploadedDocument{
			Data:      data,
			MediaType: mime.TypeByExtension(filepath.Ext(doc.Path)),
			Filename:  source,
		})
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}

		chunks := chunker.Chunk(text)
		if len(chunks) == 0 {
			log.Printf("   ⚠️  No text found, skipping...")
			failCount++
			continue
		}
		log.Printf("   ✂️  %d characters, %d chunks", len(text), len(chunks))

		// drop chunks from an earlier, possibly longer, version of the file
		if err := qdrantService.DeleteSource(ctx, source); err != nil {
			log.Printf("   ❌ Failed to clear previous chunks: %v", err)
			failCount++
			continue
		}

		stored := 0
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
				continue
			}

			err = qdrantService.UpsertGuideline(ctx, services.GuidelineChunk{
				Source:   source,
				Category: doc.Category,
				Index:    i,
				Text:     chunk,
			}, embedding)
			if err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}
			stored++
		}

		if stored != len(chunks) {
			log.Printf("   ⚠️  Stored %d/%d chunks", stored, len(chunks))
			failCount++
			continue
		}

		log.Printf("   ✅ Stored %d chunks", stored)
		successCount++
	}

	log.Println(strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary: %d succeeded, %d failed", successCount, failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		os.Exit(1)
	}
}

func findReferenceDocs(root string) ([]referenceDoc, error) {
	var docs []referenceDoc
	for _, category := range categories {
		dir := filepath.Join(root, category)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			docs = append(docs, referenceDoc{Path: filepath.Join(dir, e.Name()), Category: category})
		}
	}
	return docs, nil
}
