// Package upstream は犬の画像API（dog.ceo互換）へのアクセスを提供する。
package upstream

import (
	"context"
	"net/url"

	"github.com/nao1215/doggo/pkg/httpclient"
)

// DefaultBaseURL は画像APIのデフォルトのベースURL。
const DefaultBaseURL = "https://dog.ceo"

// Client は画像APIのクライアント。
type Client struct {
	// http は共有のHTTPクライアント。
	http *httpclient.Client
}

// New は新しい画像APIクライアントを生成する。
func New(hc *httpclient.Client) *Client {
	return &Client{http: hc}
}

// BreedImages は犬種の画像一覧を取得する。
// breedはパスセグメントとしてエスケープしてから埋め込む。
func (c *Client) BreedImages(ctx context.Context, breed string) (*httpclient.Response, error) {
	return c.http.Get(ctx, BreedImagesPath(breed))
}

// BreedImagesPath は犬種の画像一覧APIのパスを返す。
func BreedImagesPath(breed string) string {
	return "/api/breed/" + url.PathEscape(breed) + "/images"
}
