// Package tracing provides OpenTelemetry tracing integration.
//
// InitTracer installs an OTLP/HTTP exporting TracerProvider. Middleware opens
// a server span per HTTP request, and the summarization pipeline opens one
// span per reduction level through GetTracer.
//
// Example usage:
//
//	shutdown, err := tracing.InitTracer(ctx, tracing.Config{Enabled: true, Endpoint: "localhost:4318", Insecure: true})
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
package tracing
