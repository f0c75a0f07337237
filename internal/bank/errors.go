// internal/bank/errors.go
//
// 本檔集中定義「領域錯誤（domain errors）」。
// 這些錯誤屬於商業邏輯層級（非系統錯誤），會由上層 HTTP handler 轉換成適當的 HTTP 狀態碼。
// 統一集中管理錯誤類別能確保 API 回傳行為一致、方便測試與維護。
//
// 錯誤分類對應四種失敗型態：
//   - 參數不合法 (invalid argument)
//   - 帳戶不存在 (not found)
//   - 驗證失敗 (authentication mismatch)
//   - 前置條件不符 (precondition violation：餘額不足、刪除時餘額非零)
//
// I/O 與資料格式錯誤定義於 storage 層，不在此檔。

package bank

import "errors"

var (
	// ErrInvalidArgument 代表呼叫端輸入不合法：空字串、帳號長度錯誤、金額非正數等。
	// 一律在任何狀態查詢之前檢查。對應 HTTP 狀態碼 400 Bad Request。
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound 代表帳戶不存在。
	// 對應 HTTP 狀態碼 404 Not Found。
	ErrNotFound = errors.New("account not found")

	// ErrAuth 代表 PIN 或姓名與帳戶不符。
	// 對應 HTTP 狀態碼 401 Unauthorized。
	ErrAuth = errors.New("authentication failed")

	// ErrInsufficient 代表餘額不足，導致提款或轉帳失敗。
	// 對應 HTTP 狀態碼 409 Conflict。
	ErrInsufficient = errors.New("insufficient balance")

	// ErrNonZeroBalance 代表刪除帳戶時餘額不為零。
	// 對應 HTTP 狀態碼 409 Conflict。
	ErrNonZeroBalance = errors.New("balance must be zero before deletion")

	// ErrSameAccount 代表轉帳來源與目標帳戶相同。
	// 對應 HTTP 狀態碼 400 Bad Request。
	ErrSameAccount = errors.New("sender and receiver are same")
)
