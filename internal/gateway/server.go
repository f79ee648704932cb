package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	servertiming "github.com/mitchellh/go-server-timing"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/doggo/internal/config"
	"github.com/nao1215/doggo/internal/upstream"
	"github.com/nao1215/doggo/pkg/httpclient"
	"github.com/nao1215/doggo/pkg/middleware"
)

// serviceName はトレースとログに付与するサービス名。
const serviceName = "doggo-gateway"

// ImageSource は犬種の画像一覧を取得する上流API。
type ImageSource interface {
	BreedImages(ctx context.Context, breed string) (*httpclient.Response, error)
}

// Server はゲートウェイのHTTPサーバー。
// リクエスト間で共有する可変状態は持たない。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// httpServer はリッスンとグレースフルシャットダウンを担う。
	httpServer *http.Server
	// images は画像APIのクライアント。
	images ImageSource
	// logger は構造化ロガー。
	logger zerolog.Logger
	// cfg はサーバーの設定。
	cfg *config.Config
}

// options はNewServerのオプション。
type options struct {
	tracerProvider trace.TracerProvider
	images         ImageSource
}

// Option はNewServerのオプション。
type Option func(*options)

// WithTracerProvider は受信リクエストのトレースに使うプロバイダーを設定する。
// 未指定ならグローバルのプロバイダーを使う。
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithImageSource は画像APIの実装を差し替える。
// 未指定ならcfg.UpstreamBaseURLに接続するクライアントを生成する。
func WithImageSource(src ImageSource) Option {
	return func(o *options) {
		o.images = src
	}
}

// NewServer は新しいゲートウェイサーバーを生成する。
func NewServer(cfg *config.Config, logger zerolog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("設定がnilです")
	}

	o := options{tracerProvider: otel.GetTracerProvider()}
	for _, opt := range opts {
		opt(&o)
	}

	images := o.images
	if images == nil {
		if cfg.UpstreamInsecureSkipVerify {
			logger.Warn().
				Str("upstream", cfg.UpstreamBaseURL).
				Msg("画像APIのTLS証明書検証が無効になっています")
		}
		images = upstream.New(httpclient.New(cfg.UpstreamBaseURL,
			httpclient.WithTimeout(cfg.UpstreamTimeout),
			httpclient.WithInsecureSkipVerify(cfg.UpstreamInsecureSkipVerify),
			httpclient.WithUserAgent(serviceName),
		))
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(otelgin.Middleware(serviceName, otelgin.WithTracerProvider(o.tracerProvider)))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins, []string{http.MethodGet}))
	router.Use(middleware.Static(cfg.StaticRoot))

	s := &Server{
		router: router,
		images: images,
		logger: logger,
		cfg:    cfg,
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	return s, nil
}

// Handler はServer-Timingヘッダーを付与するHTTPハンドラーを返す。
func (s *Server) Handler() http.Handler {
	return servertiming.Middleware(s.router, nil)
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.GET("/doggo/:breed", s.handleBreedImages())

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})
}

// Run はリッスンを開始し、ctxがキャンセルされるまでリクエストを処理する。
func (s *Server) Run(ctx context.Context) error {
	ln, err := s.Listen(ctx)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Listen は設定されたアドレスでTCPリスナーを生成する。
// 成功・失敗のどちらもログに出力する。
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		s.logger.Error().Err(err).Str("address", s.httpServer.Addr).Msg("ゲートウェイの起動に失敗しました")
		return nil, fmt.Errorf("リッスンに失敗: %w", err)
	}

	addr := ln.Addr().String()
	_, port, _ := net.SplitHostPort(addr)
	s.logger.Info().
		Str("address", addr).
		Str("url", fmt.Sprintf("http://localhost:%s", port)).
		Msg("ゲートウェイを起動しました")

	return ln, nil
}

// Serve はlnでリクエストを処理し、ctxがキャンセルされたらグレースフルシャットダウンする。
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTPサーバーが異常終了: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Info().Msg("ゲートウェイを停止します")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("グレースフルシャットダウンに失敗: %w", err)
		}
		return nil
	})

	return g.Wait()
}
