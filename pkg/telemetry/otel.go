package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// エクスポーターの種類。
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// ErrUnknownExporter は未知のエクスポーターが指定されたことを表す。
var ErrUnknownExporter = errors.New("未知のトレースエクスポーター")

// ShutdownFunc は溜まったスパンを送信してプロバイダーを停止する。
type ShutdownFunc func(context.Context) error

// Options はトレーサープロバイダーの初期化オプション。
type Options struct {
	// ServiceName はservice.name属性の値。
	ServiceName string
	// Environment はdeployment.environment属性の値。
	Environment string
	// Exporter はエクスポーターの種類。空ならnone。
	Exporter string
	// Endpoint はOTLPエクスポーターの送信先（host:port）。空なら環境変数に従う。
	Endpoint string
	// Insecure はOTLPをTLSなしで送信するかどうか。
	Insecure bool
	// Writer はstdoutエクスポーターの出力先。nilなら標準出力。
	Writer io.Writer
}

// Init はトレーサープロバイダーを初期化し、グローバルに登録する。
// 戻り値のShutdownFuncはプロセス終了時に呼び出すこと。
func Init(ctx context.Context, opts Options) (trace.TracerProvider, ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if opts.Exporter == "" || opts.Exporter == ExporterNone {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, func(context.Context) error { return nil }, nil
	}

	exporter, err := newExporter(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("deployment.environment", opts.Environment),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("リソースの生成に失敗: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)

	return tp, tp.Shutdown, nil
}

// newExporter はOptionsに応じたスパンエクスポーターを生成する。
func newExporter(ctx context.Context, opts Options) (sdktrace.SpanExporter, error) {
	switch opts.Exporter {
	case ExporterStdout:
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("stdoutエクスポーターの生成に失敗: %w", err)
		}
		return exporter, nil
	case ExporterOTLP:
		var httpOpts []otlptracehttp.Option
		if opts.Endpoint != "" {
			httpOpts = append(httpOpts, otlptracehttp.WithEndpoint(opts.Endpoint))
		}
		if opts.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("OTLPエクスポーターの生成に失敗: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExporter, opts.Exporter)
	}
}
