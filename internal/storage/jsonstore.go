// internal/storage/jsonstore.go
//
// 提供 JSON 快照的序列化與反序列化實作，含有限次數的重試。
// 用於 Bank 系統的輕量持久化方案，可在未接資料庫前保存狀態。
// 寫入採「原子寫入」策略 (atomic write)：先寫入 .tmp 檔，再以 rename() 取代原檔，
// 可避免中途寫入失敗導致檔案損壞，是常見的安全儲存設計模式。
//
// ───────────────────────────────
// 設計理念：
// - **獨立層 (storage)**：不關心商業邏輯，只處理 I/O 序列化。
// - **容忍暫時性爭用**：檔案被其他程序短暫佔用時，以線性退避重試（預設 3 次、50ms × 次數）。
// - **錯誤可判別**：目錄不存在、權限不足、格式錯誤各為獨立錯誤類別，包裝底層原因。
// ───────────────────────────────
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	defaultRetries = 3
	defaultBackoff = 50 * time.Millisecond
)

// Store 為快照讀寫器。Retries 與 Backoff 可由設定層調整；
// 第 n 次失敗後等待 Backoff × n 再重試（線性退避）。
type Store struct {
	Retries int
	Backoff time.Duration
}

// NewStore 回傳採預設重試參數的 Store。
func NewStore() *Store {
	return &Store{Retries: defaultRetries, Backoff: defaultBackoff}
}

// SaveAccounts 將帳戶紀錄整批寫入 path（縮排 JSON 陣列）。
func (s *Store) SaveAccounts(path string, recs []PersistAccount) error {
	return s.save(path, recs)
}

// SaveTransactions 將交易紀錄整批寫入 path（縮排 JSON 陣列）。
func (s *Store) SaveTransactions(path string, recs []PersistTransaction) error {
	return s.save(path, recs)
}

// LoadAccounts 讀取帳戶快照。
// 回傳值 ok 為 false 代表檔案不存在或內容空白（呼叫端應保留現有集合）。
func (s *Store) LoadAccounts(path string) (recs []PersistAccount, ok bool, err error) {
	data, ok, err := s.read(path)
	if err != nil || !ok {
		return nil, false, err
	}
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return recs, true, nil
}

// LoadTransactions 讀取交易快照；語意同 LoadAccounts。
func (s *Store) LoadTransactions(path string) (recs []PersistTransaction, ok bool, err error) {
	data, ok, err := s.read(path)
	if err != nil || !ok {
		return nil, false, err
	}
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	return recs, true, nil
}

// save 確保目的目錄存在後，以重試包裝的原子寫入輸出快照。
// 重試耗盡時回傳最後一次失敗（包裝分類後的錯誤），不默默放棄。
func (s *Store) save(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return classify("create data directory", err)
		}
	}
	var lastErr error
	for attempt := 1; attempt <= s.Retries; attempt++ {
		lastErr = writeSnapshot(path, v)
		if lastErr == nil {
			return nil
		}
		// 權限不足等非暫時性錯誤不值得重試
		if !transient(lastErr) {
			break
		}
		if attempt < s.Retries {
			time.Sleep(s.Backoff * time.Duration(attempt))
		}
	}
	return classify(fmt.Sprintf("write %s", path), lastErr)
}

// read 以重試讀取檔案內容。
// 回傳 ok=false 且無錯誤的情況：檔案不存在、或內容空白。
// 資料目錄整個不存在則屬 I/O 錯誤（ErrDirNotFound）。
func (s *Store) read(path string) (data []byte, ok bool, err error) {
	if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
		if dir := filepath.Dir(path); dir != "." {
			if _, dirErr := os.Stat(dir); errors.Is(dirErr, fs.ErrNotExist) {
				return nil, false, classify(fmt.Sprintf("read %s", path), dirErr)
			}
		}
		// 檔案單純不存在：交由呼叫端保留現有狀態
		return nil, false, nil
	}
	var lastErr error
	for attempt := 1; attempt <= s.Retries; attempt++ {
		data, lastErr = os.ReadFile(path)
		if lastErr == nil {
			if len(bytes.TrimSpace(data)) == 0 {
				return nil, false, nil
			}
			return data, true, nil
		}
		if !transient(lastErr) {
			break
		}
		if attempt < s.Retries {
			time.Sleep(s.Backoff * time.Duration(attempt))
		}
	}
	return nil, false, classify(fmt.Sprintf("read %s", path), lastErr)
}

// writeSnapshot 以原子方式寫出縮排 JSON：
//  1. 寫入 path+".tmp" 暫存檔。
//  2. 寫入完成後使用 os.Rename() 取代正式檔案。
//
// 這樣設計確保在寫入中斷（例如停電或程式崩潰）時，原檔不會損壞。
func writeSnapshot(path string, v any) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	// 使用縮排格式輸出，方便人類閱讀（例如除錯或手動檢視）
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	// 原子替換
	return os.Rename(tmp, path)
}

// transient 判斷錯誤是否值得重試：
// 目錄不存在與權限不足屬永久性錯誤，其餘（如檔案被鎖定）視為暫時性。
func transient(err error) bool {
	return !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrPermission)
}

// classify 將底層 I/O 錯誤映射成可判別的錯誤類別，並保留原因。
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %v", ErrDirNotFound, op, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %v", ErrPermission, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
