// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// パニックリカバリ、リクエストIDの付与、構造化リクエストログ、
// CORS設定、静的ファイル配信など、ルートの手前に積むミドルウェアを含む。
package middleware
