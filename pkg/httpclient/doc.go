// Package httpclient は外部APIとのHTTP通信を行うクライアントを提供する。
//
// 接続プールを持つhttp.Clientを全リクエストで共有し、タイムアウト、
// TLS検証の有無、OpenTelemetryによる送信側トレースをまとめて設定する。
// ステータスコードの解釈は呼び出し側に任せ、レスポンス受信前の失敗のみを
// TransportErrorとして返す。
package httpclient
