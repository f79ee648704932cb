// Package config は環境変数からゲートウェイの設定を読み込む。
//
// DOGGO_ で始まる環境変数（.envファイルがあればその内容も含む）を
// koanfで構造体にマッピングし、validatorで検証する。
// 例: DOGGO_UPSTREAM_TIMEOUT -> upstream_timeout -> Config.UpstreamTimeout
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// .envファイルがあれば起動時に環境変数として読み込む
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix は設定に使う環境変数の接頭辞。
const envPrefix = "DOGGO_"

// listKeys はカンマ区切りで複数の値を受け付けるキー。
var listKeys = map[string]struct{}{
	"cors_allowed_origins": {},
}

// Config はゲートウェイの設定。
type Config struct {
	// Env は実行環境（development/production など）。ログとトレースに付与する。
	Env string `koanf:"env" validate:"required"`
	// Port はHTTPサーバーのリッスンポート。
	Port string `koanf:"port" validate:"required,numeric"`

	// UpstreamBaseURL は画像APIのベースURL。
	UpstreamBaseURL string `koanf:"upstream_base_url" validate:"required,url"`
	// UpstreamTimeout は画像APIへのリクエストのタイムアウト。0ならタイムアウトなし。
	UpstreamTimeout time.Duration `koanf:"upstream_timeout" validate:"min=0s"`
	// UpstreamInsecureSkipVerify は画像APIのTLS証明書検証を無効化する。
	UpstreamInsecureSkipVerify bool `koanf:"upstream_insecure_skip_verify"`

	// StaticRoot は静的ファイルの配信元ディレクトリ。空なら配信しない。
	StaticRoot string `koanf:"static_root"`
	// CORSAllowedOrigins はCORSで許可するオリジン。"*" は全オリジンを許可する。
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required,min=1"`

	// ReadTimeout はhttp.ServerのReadTimeout。
	ReadTimeout time.Duration `koanf:"read_timeout" validate:"min=1s"`
	// WriteTimeout はhttp.ServerのWriteTimeout。
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"min=1s"`
	// IdleTimeout はhttp.ServerのIdleTimeout。
	IdleTimeout time.Duration `koanf:"idle_timeout" validate:"min=1s"`
	// ShutdownTimeout はグレースフルシャットダウンの待ち時間。
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=1s"`

	// LogLevel はログレベル。
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	// LogFormat はログの出力形式。
	LogFormat string `koanf:"log_format" validate:"oneof=console json"`

	// OTelExporter はトレースのエクスポーター。
	OTelExporter string `koanf:"otel_exporter" validate:"oneof=none stdout otlp"`
	// OTelEndpoint はOTLPエクスポーターの送信先。
	OTelEndpoint string `koanf:"otel_endpoint"`
	// OTelInsecure はOTLPをTLSなしで送信するかどうか。
	OTelInsecure bool `koanf:"otel_insecure"`
}

// Default はデフォルト値を設定したConfigを返す。
func Default() *Config {
	return &Config{
		Env:                "development",
		Port:               "9000",
		UpstreamBaseURL:    "https://dog.ceo",
		UpstreamTimeout:    10 * time.Second,
		StaticRoot:         "webroot",
		CORSAllowedOrigins: []string{"*"},
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       30 * time.Second,
		IdleTimeout:        60 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		LogFormat:          "console",
		OTelExporter:       "none",
	}
}

// Load は環境変数を読み込み、検証済みのConfigを返す。
// 設定されていない項目はDefaultの値になる。
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("環境変数の読み込みに失敗: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("設定のマッピングに失敗: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}
	return cfg, nil
}

// splitList はカンマ区切りの値を分割し、空要素を取り除く。
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}

// Addr はHTTPサーバーのリッスンアドレスを返す。
func (c *Config) Addr() string {
	return ":" + c.Port
}
