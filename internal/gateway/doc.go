// Package gateway は犬種画像ゲートウェイのHTTPサーバーを提供する。
//
// GET /doggo/{breed} を受け付け、画像APIの /api/breed/{breed}/images を
// 呼び出し、message配列の先頭最大5件を {"message": [...], "status": "success"}
// の形式で返す。画像APIが200以外を返した場合は同じステータスコードと
// 理由句をそのまま返す。画像APIに到達できない場合やレスポンスの形式が
// 不正な場合は、必ず502（タイムアウトは504）を返す。
package gateway
