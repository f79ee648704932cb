// Package logging はzerologベースの構造化ロガーを生成する。
//
// 端末に出力する場合は色付きのコンソール形式、それ以外はNoColorの
// コンソール形式またはJSON形式で出力する。
package logging
