package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans created by this module
const TracerName = "github.com/viant/procdef"

// Span attribute keys
const (
	AttrDefinition = attribute.Key("procdef.definition")
	AttrVersion    = attribute.Key("procdef.version")
	AttrErrors     = attribute.Key("procdef.errors")
)

var (
	providerOnce sync.Once
	providerErr  error
)

// Init exports spans as JSON to outputFile, or to stdout when outputFile is empty
func Init(serviceName, outputFile string) error {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		w = f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return err
	}
	return InitWithExporter(serviceName, exporter)
}

// InitWithExporter registers a global provider with exporter; only the first
// call in a process takes effect
func InitWithExporter(serviceName string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}
	providerOnce.Do(func() {
		res, err := resource.New(context.Background(),
			resource.WithAttributes(attribute.String("service.name", serviceName)))
		if err != nil {
			providerErr = err
			return
		}
		otel.SetTracerProvider(sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
			sdktrace.WithResource(res),
		))
	})
	return providerErr
}

// Span traces one definition operation
type Span struct {
	span trace.Span
}

// Start opens the span "procdef.<operation>" for a definition name and version
func Start(ctx context.Context, operation, definition, version string) (context.Context, *Span) {
	ctx, span := otel.Tracer(TracerName).Start(ctx, "procdef."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(AttrDefinition.String(definition), AttrVersion.String(version)))
	return ctx, &Span{span: span}
}

// Errors records how many verification problems were found
func (s *Span) Errors(count int) *Span {
	if s != nil {
		s.span.SetAttributes(AttrErrors.Int(count))
	}
	return s
}

// End sets the span status from err and closes it
func (s *Span) End(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
