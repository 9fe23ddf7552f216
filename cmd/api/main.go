package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/middleware"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
	"alfredoptarigan/resume-analyzer/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	shutdownTracing, err := telemetry.Init(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to initialize tracing: %v", err)
	}

	// Initialize database
	db, sqlDB, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	analysisRepo := repositories.NewAnalysisRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}
	extractor := services.NewDocumentExtractor(storageService)

	generator, err := services.NewReportGenerator(ctx, services.GeneratorConfig{
		Provider:     cfg.LLM.Provider,
		Model:        cfg.LLM.Model,
		GeminiAPIKey: cfg.LLM.GeminiAPIKey,
		OpenAIAPIKey: cfg.LLM.OpenAIAPIKey,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize %s generator: %v", cfg.LLM.Provider, err)
	}
	log.Printf("✅ Report generator initialized (provider=%s)\n", cfg.LLM.Provider)

	guidelines, embedder := initGuidelines(ctx, cfg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	analyzerMetrics, err := services.NewAnalyzerMetrics(registry)
	if err != nil {
		log.Fatalf("❌ Failed to register analyzer metrics: %v", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		log.Fatalf("❌ Failed to register HTTP metrics: %v", err)
	}

	analyzerService := services.NewAnalyzerService(services.AnalyzerConfig{
		Repository: analysisRepo,
		Generator:  generator,
		Parser:     services.NewFeedbackParser(),
		Guidelines: guidelines,
		Embedder:   embedder,
		Retry: services.RetryPolicy{
			MaxAttempts:  cfg.Worker.RetryMaxAttempts,
			InitialDelay: cfg.Worker.RetryInitialDelay,
		},
		Metrics: analyzerMetrics,
	})
	log.Println("✅ Analyzer service initialized")

	worker := services.NewWorker(analysisRepo, analyzerService, services.WorkerConfig{
		Concurrency:  cfg.Worker.Concurrency,
		QueueSize:    cfg.Worker.QueueSize,
		PollInterval: cfg.Worker.PollInterval,
	})
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize Handlers
	h := handlers.Handlers{
		Extract:  handlers.NewExtractHandler(extractor, cfg.Storage.MaxFileSize),
		Analysis: handlers.NewAnalysisHandler(analysisRepo, extractor, worker, cfg.Storage.MaxFileSize),
		Feedback: handlers.NewFeedbackHandler(services.NewFeedbackParser()),
		Skills:   handlers.NewSkillsHandler(analyzerService),
		Version:  handlers.NewVersionHandler(services.NewVersionStore()),
	}
	log.Println("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		// multipart overhead on top of the largest accepted file
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(httpMetrics.Handler())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${locals:request_id} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: middleware.RequestIDHeader,
	}))

	app.Get("/health", handlers.HealthCheck(sqlDB))
	app.Get("/healthz", handlers.LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := app.Group("/api/v1")
	handlers.RegisterRoutes(api, h)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/extract",
				"POST /api/v1/analyses",
				"GET /api/v1/analyses",
				"GET /api/v1/analyses/:id",
				"POST /api/v1/feedback/parse",
				"POST /api/v1/job-descriptions/skills",
				"POST /api/v1/versions",
				"GET /api/v1/versions",
				"GET /api/v1/versions/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("🛑 Shutting down server...")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Printf("⚠️  Failed to flush traces: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("⚠️  Failed to close database: %v", err)
	}
}

// initGuidelines connects the optional guideline library. Analyses still run without it,
// just with no reference guidelines in the prompt.
func initGuidelines(ctx context.Context, cfg *config.Config) (services.QdrantService, services.Embedder) {
	if !cfg.Qdrant.Enabled() {
		log.Println("ℹ️  QDRANT_URL not set, guideline retrieval disabled")
		return nil, nil
	}

	gemini, err := services.NewGeminiService(ctx, cfg.LLM.GeminiAPIKey, "")
	if err != nil {
		log.Printf("⚠️  Embeddings unavailable, guideline retrieval disabled: %v\n", err)
		return nil, nil
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Printf("⚠️  Failed to initialize Qdrant, guideline retrieval disabled: %v\n", err)
		return nil, nil
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := qdrantService.InitCollection(initCtx); err != nil {
		log.Printf("⚠️  Failed to initialize Qdrant collection, guideline retrieval disabled: %v\n", err)
		return nil, nil
	}

	log.Println("✅ Qdrant initialized successfully")
	return qdrantService, gemini
}
