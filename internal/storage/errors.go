// internal/storage/errors.go
//
// 集中定義持久化層的錯誤類別。
// 與 bank 層的領域錯誤分開管理：此處皆屬系統/資料層級錯誤，
// 上層以 errors.Is 判別後決定是否回報或終止。

package storage

import "errors"

var (
	// ErrMalformed 代表快照內容存在但無法解析成預期結構。
	// 解析錯誤不重試（重試不會修好格式問題），且不影響現有 in-memory 狀態。
	ErrMalformed = errors.New("malformed snapshot data")

	// ErrDirNotFound 代表資料目錄不存在或無法建立。
	ErrDirNotFound = errors.New("data directory not found")

	// ErrPermission 代表權限不足，無法讀寫快照檔。
	ErrPermission = errors.New("permission denied")
)
