// 犬種画像ゲートウェイのエントリポイント。
// GET /doggo/{breed} を画像APIに中継し、画像URLを最大5件返す。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nao1215/doggo/internal/config"
	"github.com/nao1215/doggo/internal/gateway"
	"github.com/nao1215/doggo/pkg/logging"
	"github.com/nao1215/doggo/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ゲートウェイが異常終了しました: %v\n", err)
		os.Exit(1)
	}
}

// run は設定・ロガー・トレーサーを初期化し、シグナルを受けるまでサーバーを動かす。
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "gateway",
	})
	if err != nil {
		return fmt.Errorf("ロガーの初期化に失敗: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracer, err := telemetry.Init(ctx, telemetry.Options{
		ServiceName: "doggo-gateway",
		Environment: cfg.Env,
		Exporter:    cfg.OTelExporter,
		Endpoint:    cfg.OTelEndpoint,
		Insecure:    cfg.OTelInsecure,
	})
	if err != nil {
		return fmt.Errorf("トレーサーの初期化に失敗: %w", err)
	}
	defer flushTracer(logger, shutdownTracer)

	server, err := gateway.NewServer(cfg, logger, gateway.WithTracerProvider(tp))
	if err != nil {
		return fmt.Errorf("ゲートウェイの初期化に失敗: %w", err)
	}

	logger.Info().
		Str("env", cfg.Env).
		Str("upstream", cfg.UpstreamBaseURL).
		Msg("ゲートウェイを起動します")
	if err := server.Run(ctx); err != nil {
		return err
	}

	logger.Info().Msg("ゲートウェイを停止しました")
	return nil
}

// flushTracer は未送信のスパンを送信する。
func flushTracer(logger zerolog.Logger, shutdown telemetry.ShutdownFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("トレースの送信に失敗しました")
	}
}
