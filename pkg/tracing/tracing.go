package tracing

import (
    "context"

    "go.opentelemetry.io/otel"
    "go.opentelemetry.io/otel/exporters/otlp/otlptrace"
    "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
    "go.opentelemetry.io/otel/sdk/resource"
    sdktrace "go.opentelemetry.io/otel/sdk/trace"
    semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

    "github.com/d60-Lab/social-feed/config"
)

// Init 初始化 otlp-http tracer；返回关闭函数
func Init(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
    if !cfg.Trace.Enabled {
        return func(context.Context) error { return nil }, nil
    }
    exp, err := otlptrace.New(ctx, otlptracehttp.NewClient(
        otlptracehttp.WithEndpoint(cfg.Trace.Endpoint),
        otlptracehttp.WithInsecure(),
    ))
    if err != nil {
        return nil, err
    }
    res, err := resource.New(ctx, resource.WithAttributes(
        semconv.ServiceName("social-feed"),
    ))
    if err != nil {
        return nil, err
    }
    tp := sdktrace.NewTracerProvider(
        sdktrace.WithBatcher(exp),
        sdktrace.WithResource(res),
    )
    otel.SetTracerProvider(tp)
    return tp.Shutdown, nil
}
