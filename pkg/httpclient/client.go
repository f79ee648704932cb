package httpclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// defaultTimeout は外部APIへのリクエストのデフォルトタイムアウト。
const defaultTimeout = 30 * time.Second

// Client は外部APIとの通信用HTTPクライアント。
// 内部のhttp.Clientは全リクエストで共有され、リクエスト固有の状態は持たない。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先のベースURL。
	baseURL string
	// userAgent はUser-Agentヘッダーに設定する値。空なら設定しない。
	userAgent string
}

// config はNewに渡すオプションの集約。
type config struct {
	timeout            time.Duration
	insecureSkipVerify bool
	transport          http.RoundTripper
	userAgent          string
}

// Option はClientの生成オプション。
type Option func(*config)

// WithTimeout はリクエスト全体のタイムアウトを設定する。0以下ならタイムアウトなし。
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithInsecureSkipVerify はTLS証明書の検証を無効化する。
// 検証なしの接続は中間者攻撃に無防備になるため、明示的に有効化した場合のみ使う。
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *config) {
		c.insecureSkipVerify = skip
	}
}

// WithTransport は下位のRoundTripperを差し替える。主にテスト用。
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) {
		c.transport = rt
	}
}

// WithUserAgent はUser-Agentヘッダーを設定する。
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// New は新しいHTTPクライアントを生成する。
// baseURLには接続先のベースURL（例: "https://dog.ceo"）を指定する。
func New(baseURL string, opts ...Option) *Client {
	cfg := config{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	transport := cfg.transport
	if transport == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.insecureSkipVerify {
			base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // 明示的なオプトイン時のみ
		}
		transport = base
	}

	timeout := cfg.timeout
	if timeout < 0 {
		timeout = 0
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:       timeout,
			Transport:     otelhttp.NewTransport(transport),
			CheckRedirect: noRedirect,
		},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: cfg.userAgent,
	}
}

// noRedirect はリダイレクトを追従せず、3xxのレスポンスをそのまま呼び出し側に返させる。
func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// Response は外部APIのレスポンス。
// Bodyはステータスが200の場合のみ読み込まれる。
type Response struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int
	// StatusMessage はステータス行の理由句（例: "Not Found"）。
	StatusMessage string
	// Body はレスポンスボディ。
	Body []byte
}

// TransportError はレスポンスを受信する前に失敗したことを表す。
// DNS解決、接続拒否、TLSハンドシェイク失敗、タイムアウトが該当する。
type TransportError struct {
	// URL はリクエスト先のURL。
	URL string
	// Err は元のエラー。
	Err error
}

// Error はエラーメッセージを返す。
func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTPリクエストの送信に失敗: url=%s: %v", e.URL, e.Err)
}

// Unwrap は元のエラーを返す。
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTimeout はerrがタイムアウトまたはデッドライン超過によるものかを判定する。
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// Get は指定パスにGETリクエストを送信する。
// ステータスコードの判定は呼び出し側に任せる。
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	result := &Response{
		StatusCode:    resp.StatusCode,
		StatusMessage: reasonPhrase(resp),
	}
	if resp.StatusCode != http.StatusOK {
		// 接続を再利用できるようにボディを読み捨てる
		_, _ = io.Copy(io.Discard, resp.Body)
		return result, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("レスポンスボディの読み取りに失敗: %w", err)}
	}
	result.Body = body
	return result, nil
}

// reasonPhrase はステータス行から理由句を取り出す。
// net/httpのStatusは "404 Not Found" 形式なので先頭のコードを取り除く。
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}
