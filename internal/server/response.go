// internal/server/response.go
//
// 本檔負責統一 HTTP 回應格式。
// 透過集中管理 JSON 與錯誤輸出，可確保整個 REST API 的一致性與可維護性。
// 設計理念：
//   - 「成功回應」使用標準 JSON 編碼（Content-Type: application/json）。
//   - 「錯誤回應」統一由 writeErr 輸出，並集中處理領域錯誤 → HTTP 狀態碼的映射。
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"ledger/internal/bank"
)

// writeJSON 統一輸出成功回應。
// - code：HTTP 狀態碼（例如 200, 201）
// - v：可被 JSON 序列化的物件（map、struct、slice 皆可）
// 實務上所有成功路徑皆應透過此函式回傳，以維持一致格式。
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr 統一輸出錯誤回應：{"error": "..."} 搭配對應狀態碼。
func writeErr(w http.ResponseWriter, err error, code int) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// statusFor 將領域錯誤映射為 HTTP 狀態碼。
// 未知錯誤一律視為 400（皆屬呼叫端輸入問題；系統錯誤於 handler 內另行處理）。
func statusFor(err error) int {
	switch {
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, bank.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, bank.ErrInsufficient), errors.Is(err, bank.ErrNonZeroBalance):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
