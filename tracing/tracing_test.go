package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStart(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("procdef", exporter))

	ctx, parent := Start(context.Background(), "createProcess", "Order", "1")
	_, child := Start(ctx, "verify", "Order", "1")
	child.Errors(2).End(errors.New("too many endpoints"))
	parent.End(nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "procdef.verify", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Len(t, spans[0].Attributes, 3)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.Equal(t, "procdef.createProcess", spans[1].Name)
	assert.Equal(t, codes.Ok, spans[1].Status.Code)
	assert.Contains(t, spans[1].Attributes, AttrDefinition.String("Order"))

	var nilSpan *Span
	nilSpan.End(nil)
	assert.Nil(t, nilSpan.Errors(1))
}
