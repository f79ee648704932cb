package gateway

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// MaxImages はレスポンスに含める画像URLの最大件数。
const MaxImages = 5

// statusSuccess は成功時のstatusフィールドの値。
const statusSuccess = "success"

// ErrMalformedPayload は画像APIの200レスポンスが期待した形式でないことを表す。
var ErrMalformedPayload = errors.New("画像APIのレスポンス形式が不正")

// Envelope はクライアントに返すレスポンス。
type Envelope struct {
	// Message は画像URLの一覧。最大MaxImages件で、画像APIの順序を保つ。
	Message []string `json:"message"`
	// Status は常に "success"。
	Status string `json:"status"`
}

// ExtractEnvelope は画像APIのレスポンスボディからEnvelopeを組み立てる。
// message配列の先頭min(n, MaxImages)件を取り出す。n=0なら空配列になる。
// ボディがJSONでない場合、messageが配列でない場合、要素が文字列でない場合は
// ErrMalformedPayloadを返す。
func ExtractEnvelope(body []byte) (Envelope, error) {
	if !gjson.ValidBytes(body) {
		return Envelope{}, fmt.Errorf("%w: JSONとして解釈できません", ErrMalformedPayload)
	}

	message := gjson.GetBytes(body, "message")
	if !message.IsArray() {
		return Envelope{}, fmt.Errorf("%w: message配列がありません", ErrMalformedPayload)
	}

	images := make([]string, 0, MaxImages)
	var elemErr error
	message.ForEach(func(_, value gjson.Result) bool {
		if len(images) == MaxImages {
			return false
		}
		if value.Type != gjson.String {
			elemErr = fmt.Errorf("%w: message[%d]が文字列ではありません", ErrMalformedPayload, len(images))
			return false
		}
		images = append(images, value.Str)
		return true
	})
	if elemErr != nil {
		return Envelope{}, elemErr
	}

	return Envelope{Message: images, Status: statusSuccess}, nil
}
