// Package documents serves the enrichment and validation endpoints
package documents

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/sorrel/pkg/batch"
	appctx "github.com/Ramsey-B/sorrel/pkg/context"
	"github.com/Ramsey-B/sorrel/pkg/enrichment"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/validation"
)

const source = "http"

// MaxBatchSize bounds the transcripts of one batch request
const MaxBatchSize = 100

var validate = validator.New(validator.WithRequiredStructEnabled())

// ResultEmitter publishes enrichment results
type ResultEmitter interface {
	EmitResult(ctx context.Context, documentID string, result *enrichment.Result) error
}

// Handler serves the document endpoints
type Handler struct {
	runner  *batch.Runner
	emitter ResultEmitter
	logger  ectologger.Logger
}

// NewHandler creates a Handler. emitter is optional.
func NewHandler(runner *batch.Runner, emitter ResultEmitter, logger ectologger.Logger) *Handler {
	return &Handler{
		runner:  runner,
		emitter: emitter,
		logger:  logger,
	}
}

// Register registers document routes
func (h *Handler) Register(g *echo.Group) {
	g.POST("/enrich", h.Enrich)
	g.POST("/enrich/batch", h.EnrichBatch)
	g.POST("/validate", h.Validate)
}

// Enrich runs the pipeline over one transcript
func (h *Handler) Enrich(c echo.Context) error {
	ctx := c.Request().Context()

	var t models.Transcript
	if err := c.Bind(&t); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if t.ID == "" {
		t.ID = appctx.GetDocumentID(ctx)
	}
	if err := validate.Struct(&t); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "id and at least one line are required")
	}

	outcome := h.runner.Process(ctx, source, &t)
	if outcome.Failed() {
		return httperror.NewHTTPError(http.StatusUnprocessableEntity, outcome.Error)
	}

	h.emit(ctx, t.ID, outcome.Result)
	return c.JSON(http.StatusOK, outcome.Result)
}

// BatchRequest is the request body of the batch endpoint
type BatchRequest struct {
	Transcripts []*models.Transcript `json:"transcripts" validate:"required,min=1"`
}

// BatchResponse is the response body of the batch endpoint
type BatchResponse struct {
	Summary  batch.Summary   `json:"summary"`
	Outcomes []batch.Outcome `json:"outcomes"`
}

// EnrichBatch enriches several transcripts. Failed documents are reported
// per outcome; the request itself succeeds.
func (h *Handler) EnrichBatch(c echo.Context) error {
	ctx := c.Request().Context()

	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Transcripts) == 0 {
		return httperror.NewHTTPError(http.StatusBadRequest, "at least one transcript is required")
	}
	if len(req.Transcripts) > MaxBatchSize {
		return httperror.NewHTTPError(http.StatusRequestEntityTooLarge, "too many transcripts in one batch")
	}

	outcomes := h.runner.Run(ctx, source, req.Transcripts)
	for _, o := range outcomes {
		if !o.Failed() {
			h.emit(ctx, o.DocumentID, o.Result)
		}
	}

	return c.JSON(http.StatusOK, BatchResponse{
		Summary:  batch.Summarize(outcomes),
		Outcomes: outcomes,
	})
}

// ValidateResponse is the response body of the validate endpoint
type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Errors validation.Errors `json:"errors"`
}

// Validate checks a document record against the domain rules
func (h *Handler) Validate(c echo.Context) error {
	var doc models.Document
	if err := c.Bind(&doc); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	errs := validation.Validate(&doc)
	return c.JSON(http.StatusOK, ValidateResponse{Valid: errs.Valid(), Errors: errs})
}

func (h *Handler) emit(ctx context.Context, documentID string, result *enrichment.Result) {
	if h.emitter == nil {
		return
	}
	if err := h.emitter.EmitResult(ctx, documentID, result); err != nil {
		h.logger.WithContext(ctx).WithError(err).WithField("document_id", documentID).Warn("Failed to emit document events")
	}
}
