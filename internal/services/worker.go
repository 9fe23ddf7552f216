package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/repositories"
)

const (
	defaultQueueSize    = 100
	defaultPollInterval = 10 * time.Second
	defaultPollBatch    = 10
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(analysisID uuid.UUID) bool
}

type WorkerConfig struct {
	Concurrency  int
	QueueSize    int
	PollInterval time.Duration
	PollBatch    int
}

type worker struct {
	repo         repositories.AnalysisRepository
	analyzer     AnalyzerService
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	pollBatch    int
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewWorker(
	repo repositories.AnalysisRepository,
	analyzer AnalyzerService,
	cfg WorkerConfig,
) Worker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.PollBatch < 1 {
		cfg.PollBatch = defaultPollBatch
	}

	return &worker{
		repo:         repo,
		analyzer:     analyzer,
		jobQueue:     make(chan uuid.UUID, cfg.QueueSize),
		concurrency:  cfg.Concurrency,
		pollInterval: cfg.PollInterval,
		pollBatch:    cfg.PollBatch,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker. Jobs already running are allowed to finish.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker. It never blocks: when the queue is full the analysis
// stays queued in the database and the poller picks it up later.
func (w *worker) EnqueueJob(analysisID uuid.UUID) bool {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", analysisID)
		return false
	default:
	}

	select {
	case w.jobQueue <- analysisID:
		log.Printf("📥 Job %s enqueued\n", analysisID)
		return true
	default:
		log.Printf("⚠️  Job queue full, leaving job %s to the poller\n", analysisID)
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d context done\n", workerID)
			return
		case analysisID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing job %s\n", workerID, analysisID)
			if err := w.analyzer.Analyze(ctx, analysisID); err != nil {
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, analysisID, err)
			} else {
				log.Printf("✅ Worker #%d completed job %s\n", workerID, analysisID)
			}
		}
	}
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting pending jobs poller")

	// analyses left queued by a previous run
	w.enqueuePending(ctx)

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending jobs poller stopped")
			return
		case <-ctx.Done():
			log.Println("🔄 Pending jobs poller context done")
			return
		case <-ticker.C:
			w.enqueuePending(ctx)
		}
	}
}

func (w *worker) enqueuePending(ctx context.Context) {
	pendingJobs, err := w.repo.FindPendingJobs(ctx, w.pollBatch)
	if err != nil {
		log.Printf("⚠️  Failed to fetch pending jobs: %v\n", err)
		return
	}

	if len(pendingJobs) > 0 {
		log.Printf("📋 Found %d pending jobs\n", len(pendingJobs))
	}

	for _, job := range pendingJobs {
		if !w.EnqueueJob(job.ID) {
			return
		}
	}
}
