package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	servertiming "github.com/mitchellh/go-server-timing"

	"github.com/nao1215/doggo/pkg/httpclient"
	"github.com/nao1215/doggo/pkg/middleware"
)

// upstreamMetric はServer-Timingに記録する画像API呼び出しのメトリクス名。
const upstreamMetric = "upstream"

// handleBreedImages は犬種の画像URLを最大5件返すハンドラを返す。
//
// 画像APIが200を返した場合はEnvelopeに変換して200で返す。
// それ以外のステータスはボディを解釈せず、同じステータスコードと理由句を
// text/plainで返す。
func (s *Server) handleBreedImages() gin.HandlerFunc {
	return func(c *gin.Context) {
		breed := c.Param("breed")
		ctx := c.Request.Context()

		var metric *servertiming.Metric
		if timing := servertiming.FromContext(ctx); timing != nil {
			metric = timing.NewMetric(upstreamMetric).WithDesc("breed images").Start()
		}
		resp, err := s.images.BreedImages(ctx, breed)
		if metric != nil {
			metric.Stop()
		}

		if err != nil {
			s.respondUpstreamError(c, breed, err)
			return
		}

		if resp.StatusCode != http.StatusOK {
			c.Data(resp.StatusCode, "text/plain; charset=utf-8", []byte(resp.StatusMessage))
			return
		}

		envelope, err := ExtractEnvelope(resp.Body)
		if err != nil {
			_ = c.Error(err)
			s.logger.Warn().
				Err(err).
				Str("request_id", middleware.GetRequestID(c)).
				Str("breed", breed).
				Msg("画像APIのレスポンスを変換できません")
			c.JSON(http.StatusBadGateway, gin.H{"error": "画像APIのレスポンス形式が不正です"})
			return
		}

		c.JSON(http.StatusOK, envelope)
	}
}

// respondUpstreamError は画像APIからレスポンスを受け取れなかった場合の応答を書き込む。
// タイムアウトは504、それ以外の通信失敗は502とする。
func (s *Server) respondUpstreamError(c *gin.Context, breed string, err error) {
	_ = c.Error(err)

	status := http.StatusBadGateway
	message := "画像APIとの通信に失敗しました"
	if httpclient.IsTimeout(err) {
		status = http.StatusGatewayTimeout
		message = "画像APIが時間内に応答しませんでした"
	}

	var te *httpclient.TransportError
	event := s.logger.Error()
	if !errors.As(err, &te) {
		// リクエスト生成など通信以前の失敗
		event = s.logger.Warn()
	}
	event.Err(err).
		Str("request_id", middleware.GetRequestID(c)).
		Str("breed", breed).
		Int("status", status).
		Msg("画像APIの呼び出しに失敗しました")

	c.JSON(status, gin.H{"error": message})
}
