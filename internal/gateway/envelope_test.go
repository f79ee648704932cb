package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// imagesBody はn件の画像URLを持つ画像APIのレスポンスボディを生成する。
func imagesBody(t *testing.T, n int) ([]byte, []string) {
	t.Helper()

	images := make([]string, n)
	for i := range images {
		images[i] = fmt.Sprintf("https://images.dog.ceo/breeds/hound-afghan/n%08d.jpg", i)
	}
	body, err := json.Marshal(map[string]any{"message": images, "status": "success"})
	require.NoError(t, err)
	return body, images
}

// TestExtractEnvelope_Prefix は先頭min(n, 5)件が順序を保って取り出されることを検証する。
func TestExtractEnvelope_Prefix(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 37; n++ {
		body, images := imagesBody(t, n)

		got, err := ExtractEnvelope(body)
		require.NoError(t, err, "n=%d", n)

		want := images[:min(n, MaxImages)]
		assert.Equal(t, want, got.Message, "n=%d", n)
		assert.Equal(t, "success", got.Status, "n=%d", n)
	}
}

// TestExtractEnvelope は境界値と不正なペイロードを検証する。
func TestExtractEnvelope(t *testing.T) {
	t.Parallel()

	t.Run("空配列の場合はnullではなく空配列になること", func(t *testing.T) {
		t.Parallel()

		got, err := ExtractEnvelope([]byte(`{"message":[],"status":"success"}`))
		require.NoError(t, err)

		out, err := json.Marshal(got)
		require.NoError(t, err)
		assert.Equal(t, `{"message":[],"status":"success"}`, string(out))
	})

	t.Run("3件の場合は全件がそのまま含まれること", func(t *testing.T) {
		t.Parallel()

		got, err := ExtractEnvelope([]byte(`{"message":["a","b","c"]}`))
		require.NoError(t, err)

		out, err := json.Marshal(got)
		require.NoError(t, err)
		assert.Equal(t, `{"message":["a","b","c"],"status":"success"}`, string(out))
	})

	t.Run("6件目以降の要素は型を問わず無視されること", func(t *testing.T) {
		t.Parallel()

		got, err := ExtractEnvelope([]byte(`{"message":["a","b","c","d","e",42,null]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got.Message)
	})

	malformed := []struct {
		name string
		body string
	}{
		{name: "JSONでない場合", body: `<html>oops</html>`},
		{name: "空ボディの場合", body: ``},
		{name: "途中で切れたJSONの場合", body: `{"message":["a",`},
		{name: "messageが無い場合", body: `{"status":"success"}`},
		{name: "messageが文字列の場合", body: `{"message":"Breed not found"}`},
		{name: "messageがオブジェクトの場合", body: `{"message":{"hound":[]}}`},
		{name: "トップレベルが配列の場合", body: `["a","b"]`},
		{name: "要素が文字列でない場合", body: `{"message":["a",1,"c"]}`},
	}
	for _, tt := range malformed {
		t.Run(tt.name+"はErrMalformedPayloadになること", func(t *testing.T) {
			t.Parallel()

			_, err := ExtractEnvelope([]byte(tt.body))
			assert.ErrorIs(t, err, ErrMalformedPayload)
			assert.True(t, strings.HasPrefix(err.Error(), ErrMalformedPayload.Error()))
		})
	}
}
