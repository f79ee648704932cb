package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// ErrInvalidLevel は未知のログレベルが指定されたことを表す。
var ErrInvalidLevel = errors.New("不正なログレベル")

// Options はロガーの生成オプション。
type Options struct {
	// Level はログレベル（debug/info/warn/error）。空ならinfo。
	Level string
	// Format は出力形式（console/json）。空ならconsole。
	Format string
	// Service はログに付与するサービス名。
	Service string
	// Out は出力先。nilなら標準エラー出力。
	Out io.Writer
}

// New はOptionsに従ってロガーを生成する。
func New(opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Format != "json" {
		out = consoleWriter(out)
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger(), nil
}

// ParseLevel はログレベル文字列をzerologのレベルに変換する。
func ParseLevel(level string) (zerolog.Level, error) {
	switch level {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("%w: %q (debug, info, warn, error のいずれか)", ErrInvalidLevel, level)
	}
}

// consoleWriter は端末でのみ色付けするコンソール出力を返す。
func consoleWriter(out io.Writer) io.Writer {
	noColor := true
	if f, ok := out.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return zerolog.ConsoleWriter{Out: out, NoColor: noColor, TimeFormat: time.DateTime}
}
