// Package telemetry はOpenTelemetryのトレーサープロバイダーを初期化する。
//
// エクスポーターはnone（no-op）、stdout、otlp（HTTP）から選択する。
package telemetry
