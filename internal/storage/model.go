// internal/storage/model.go
//
// 定義「資料持久化層 (storage layer)」的結構模型。
// 該層的責任是提供 Bank 系統的資料序列化格式（JSON 快照），
// 欄位名稱與巢狀結構即為磁碟上的正式格式，不可隨意更名。
//
// ───────────────────────────────
// 設計理念：
// - **關注分離**：此層僅定義資料結構，不涉入商業邏輯。
// - **格式穩定**：磁碟格式為兩個獨立的紀錄陣列（帳戶檔與交易檔）。
// - **寬容讀取**：時間戳以 ISO-8601 寬容解析，可讀回舊版產出的快照。
// ───────────────────────────────
package storage

import (
	"encoding/json"
	"time"

	"github.com/relvacode/iso8601"
	"github.com/shopspring/decimal"
)

func init() {
	// 快照中的金額以純數字（非字串）呈現，維持人類可讀的磁碟格式。
	decimal.MarshalJSONWithoutQuotes = true
}

// PersistAccount 為帳戶在儲存層的序列化格式。
// 不含同步鎖或方法，僅保存資料狀態，確保可安全序列化至 JSON。
type PersistAccount struct {
	Name          string          `json:"Name"`          // 持有人名稱
	AccountNumber string          `json:"AccountNumber"` // 11 位帳號
	Pin           string          `json:"Pin"`           // 明文 PIN
	Balance       decimal.Decimal `json:"Balance"`       // 帳戶餘額，定點數
}

// PersistTransaction 為交易日誌在儲存層的序列化格式。
// RecipientAccountId 僅於 Transfer 類型存在；讀取時允許缺漏或 null。
type PersistTransaction struct {
	TransactionID      string          `json:"TransactionId"`
	AccountID          string          `json:"AccountId"`
	Type               string          `json:"Type"` // Deposit | Withdrawal | Transfer
	Amount             decimal.Decimal `json:"Amount"`
	Timestamp          Timestamp       `json:"Timestamp"`
	RecipientAccountID string          `json:"RecipientAccountId,omitempty"`
}

// Timestamp 包裝 time.Time，寫出 RFC3339，讀入時以 ISO-8601 寬容解析。
// 舊版匯出的快照可能帶 7 位小數秒或缺少時區，標準庫的 RFC3339 解析會拒絕，
// 因此讀取端改用 iso8601 套件。
type Timestamp struct {
	time.Time
}

// MarshalJSON 以 RFC3339Nano 格式輸出時間戳。
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON 寬容解析 ISO-8601 變體；null 視為未設置。
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := iso8601.ParseString(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
