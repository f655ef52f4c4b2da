// Package enrichment runs the full resolution pipeline over one transcript
// and assembles the enriched document record
package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/sorrel/pkg/annotation"
	"github.com/Ramsey-B/sorrel/pkg/letter"
	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/merging"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/registry"
	"github.com/Ramsey-B/sorrel/pkg/resolver"
	"github.com/Ramsey-B/sorrel/pkg/roles"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
	"github.com/Ramsey-B/sorrel/pkg/validation"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Options are the matching thresholds of the pipeline, on the 0-100 scale
type Options struct {
	Fields            matching.Thresholds
	RegistryThreshold float64
	DocumentThreshold float64
	PlaceThreshold    float64
	OrgThreshold      float64
}

// DefaultOptions returns the default thresholds
func DefaultOptions() Options {
	return Options{
		Fields:            matching.DefaultThresholds(),
		RegistryThreshold: 90,
		DocumentThreshold: 85,
		PlaceThreshold:    85,
		OrgThreshold:      85,
	}
}

// Result is the outcome of enriching one transcript
type Result struct {
	Document  *models.Document           `json:"document"`
	Errors    validation.Errors          `json:"errors"`
	Malformed []annotation.MalformedError `json:"malformed"`
	Review    []models.ReviewItem        `json:"review"`
	Conflicts []models.MergeConflict     `json:"conflicts"`
}

// Enricher sequences the pipeline stages. It holds no per-document state
// and may be shared by concurrent workers.
type Enricher struct {
	logger        ectologger.Logger
	snapshot      *registry.Snapshot
	engine        *merging.Engine
	places        *resolver.PlaceResolver
	organizations *resolver.OrganizationResolver
	roles         *roles.Assigner
	letters       *letter.Resolver
}

// New creates an Enricher over an immutable registry snapshot
func New(logger ectologger.Logger, snapshot *registry.Snapshot, opts Options) *Enricher {
	if snapshot == nil {
		snapshot = registry.Empty()
	}
	scorer := matching.NewScorer()
	persons := resolver.NewPersonResolver(matching.NewPersonScorer(scorer, opts.Fields), opts.RegistryThreshold)
	engine := merging.NewEngine(logger, persons, opts.DocumentThreshold)
	vocab := roles.NewVocabulary(snapshot)

	return &Enricher{
		logger:        logger,
		snapshot:      snapshot,
		engine:        engine,
		places:        resolver.NewPlaceResolver(scorer, opts.PlaceThreshold),
		organizations: resolver.NewOrganizationResolver(scorer, opts.OrgThreshold),
		roles:         roles.NewAssigner(logger, vocab),
		letters:       letter.NewResolver(logger, engine, vocab),
	}
}

// Snapshot returns the registry snapshot the enricher resolves against
func (e *Enricher) Snapshot() *registry.Snapshot {
	return e.snapshot
}

// Enrich runs every stage over one transcript. A transcript that fails
// structural validation is rejected with an error; everything else,
// including validation failures of the produced record, is reported on the
// Result.
func (e *Enricher) Enrich(ctx context.Context, t *models.Transcript) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "enrichment.Enricher.Enrich")
	defer span.End()

	if t == nil {
		return nil, fmt.Errorf("transcript is required")
	}
	if err := validate.Struct(t); err != nil {
		return nil, fmt.Errorf("invalid transcript %q: %w", t.ID, err)
	}

	logger := e.logger.WithContext(ctx).WithField("document_id", t.ID)
	run := newRun(e, t)

	run.extract()
	run.resolvePersons(ctx)
	run.resolvePlaces()
	run.resolveOrganizations()
	run.resolveLetter(ctx)
	run.extractDates()
	run.extractEvents()
	run.assemble()

	errs := validation.Validate(run.doc)
	if !errs.Valid() {
		logger.WithField("errors", errs).Debug("Enriched document failed validation")
	}

	logger.WithFields(map[string]any{
		"persons":       len(run.doc.MentionedPersons),
		"places":        len(run.doc.MentionedPlaces),
		"organizations": len(run.doc.MentionedOrganizations),
		"events":        len(run.doc.MentionedEvents),
		"dates":         len(run.doc.MentionedDates),
		"review":        len(run.review),
		"malformed":     len(run.malformed),
	}).Info("Document enriched")

	return &Result{
		Document:  run.doc,
		Errors:    errs,
		Malformed: run.malformed,
		Review:    run.review,
		Conflicts: run.conflicts,
	}, nil
}

// normalizeType lowercases a vocabulary value, keeping the prior one when set
func normalizeType(prior, fresh string) string {
	if prior != "" {
		return prior
	}
	return strings.ToLower(strings.TrimSpace(fresh))
}
