package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	appctx "github.com/Ramsey-B/sorrel/pkg/context"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, appctx.GetRequestID(ctx))

	ctx = appctx.SetRequestID(ctx, "req-1")
	ctx = appctx.SetDocumentID(ctx, "doc-1")
	ctx = appctx.SetSource(ctx, "kafka")
	ctx = appctx.SetRoute(ctx, "/api/v1/documents/enrich")

	assert.Equal(t, "req-1", appctx.GetRequestID(ctx))
	assert.Equal(t, "doc-1", appctx.GetDocumentID(ctx))
	assert.Equal(t, "kafka", appctx.GetSource(ctx))
	assert.Equal(t, "/api/v1/documents/enrich", appctx.GetRoute(ctx))
	assert.Empty(t, appctx.GetMethod(ctx))
}
