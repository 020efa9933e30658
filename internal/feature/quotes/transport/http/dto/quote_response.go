// Package dto defines data transfer objects for the quotes HTTP API.
package dto

// PointResponse は1日分の終値のレスポンスDTOです。
type PointResponse struct {
	Date  string  `json:"date"`  // 日付 (YYYY-MM-DD)
	Close float64 `json:"close"` // 終値
}

// QuotesResponse は要求されたシンボル式ごとの系列です。
type QuotesResponse map[string][]PointResponse

// ErrorResponse はエラー時のレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
