// Package batch enriches many transcripts concurrently. One failing or
// panicking document never aborts the rest of the batch.
package batch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	appctx "github.com/Ramsey-B/sorrel/pkg/context"
	"github.com/Ramsey-B/sorrel/pkg/enrichment"
	"github.com/Ramsey-B/sorrel/pkg/metrics"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/review"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Enricher runs the pipeline for one transcript
type Enricher interface {
	Enrich(ctx context.Context, t *models.Transcript) (*enrichment.Result, error)
}

// Outcome is the result of one transcript of a batch
type Outcome struct {
	Index      int                `json:"index"`
	DocumentID string             `json:"document_id"`
	Result     *enrichment.Result `json:"result,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Failed reports whether the document could not be enriched at all
func (o Outcome) Failed() bool {
	return o.Error != ""
}

// Summary counts the outcomes of a batch
type Summary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
	Failed  int `json:"failed"`
	Review  int `json:"review"`
}

// Summarize counts outcomes
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		switch {
		case o.Failed():
			s.Failed++
		case o.Result.Errors.Valid():
			s.Valid++
		default:
			s.Invalid++
		}
		if o.Result != nil {
			s.Review += len(o.Result.Review)
		}
	}
	return s
}

// Runner processes transcripts with a fixed pool of workers
type Runner struct {
	enricher Enricher
	sink     review.Sink
	workers  int
	logger   ectologger.Logger
}

// NewRunner creates a Runner. A nil sink drops review items.
func NewRunner(enricher Enricher, sink review.Sink, workers int, logger ectologger.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		enricher: enricher,
		sink:     sink,
		workers:  workers,
		logger:   logger,
	}
}

type job struct {
	index      int
	transcript *models.Transcript
}

// Run enriches every transcript and returns the outcomes in input order
func (r *Runner) Run(ctx context.Context, source string, transcripts []*models.Transcript) []Outcome {
	ctx, span := tracing.StartSpan(ctx, "batch.Runner.Run")
	defer span.End()

	outcomes := make([]Outcome, len(transcripts))
	if len(transcripts) == 0 {
		return outcomes
	}

	numWorkers := min(r.workers, len(transcripts))

	jobs := make(chan job, len(transcripts))
	results := make(chan Outcome, len(transcripts))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcome := r.Process(ctx, source, j.transcript)
				outcome.Index = j.index
				results <- outcome
			}
		}()
	}

	for i, t := range transcripts {
		jobs <- job{index: i, transcript: t}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for outcome := range results {
		outcomes[outcome.Index] = outcome
	}

	summary := Summarize(outcomes)
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"source":  source,
		"total":   summary.Total,
		"valid":   summary.Valid,
		"invalid": summary.Invalid,
		"failed":  summary.Failed,
		"review":  summary.Review,
	}).Info("Batch finished")

	return outcomes
}

// Process enriches one transcript, recovering from panics, and forwards its
// review items to the sink
func (r *Runner) Process(ctx context.Context, source string, t *models.Transcript) (outcome Outcome) {
	documentID := ""
	if t != nil {
		documentID = t.ID
	}
	ctx = appctx.SetDocumentID(ctx, documentID)
	ctx = appctx.SetSource(ctx, source)
	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"document_id": documentID,
		"source":      source,
	})

	outcome.DocumentID = documentID
	start := time.Now()
	metrics.BatchInFlight.Inc()

	defer func() {
		metrics.BatchInFlight.Dec()
		if rec := recover(); rec != nil {
			metrics.BatchPanicsTotal.Inc()
			log.WithField("stack", string(debug.Stack())).Errorf("Recovered panic while enriching document: %v", rec)
			outcome.Result = nil
			outcome.Error = fmt.Sprintf("panic: %v", rec)
		}

		result := OutcomeValid
		switch {
		case outcome.Failed():
			result = OutcomeFailed
		case !outcome.Result.Errors.Valid():
			result = OutcomeInvalid
		}
		metrics.DocumentsTotal.WithLabelValues(source, result).Inc()
		metrics.DocumentDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	}()

	res, err := r.enricher.Enrich(ctx, t)
	if err != nil {
		log.WithError(err).Warn("Failed to enrich document")
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Result = res

	if r.sink != nil && len(res.Review) > 0 {
		if err := r.sink.Submit(ctx, res.Review); err != nil {
			// review delivery does not fail the document
			log.WithError(err).Error("Failed to submit review items")
		}
	}

	return outcome
}
