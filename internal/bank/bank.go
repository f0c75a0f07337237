// internal/bank/bank.go

// Package bank 定義核心商業邏輯：帳戶生命週期（建立、編輯、刪除、查詢）、
// 資金移動（存款、提款、轉帳）、交易日誌與快照持久化的進出口。
// 採用單一互斥鎖 (sync.Mutex) 保障所有狀態變更「原子且序列化」，避免競爭條件。
// 金額以 decimal 定點數儲存，避免浮點誤差。
package bank

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ledger/internal/storage"
)

// 預設快照路徑；呼叫端可於 SaveData / LoadData 覆寫。
const (
	DefaultAccountsPath     = "data/accounts.json"
	DefaultTransactionsPath = "data/transactions.json"
)

// minPinLen 為開戶時 PIN 的最小長度；低於此長度視為「不開戶」的軟性拒絕，非錯誤。
const minPinLen = 4

// Bank 為聚合根 (Aggregate Root)：管理全系統帳戶與交易日誌。
// - mu：序列化所有讀寫，確保跨帳戶操作（轉帳）原子完成。
// - rng：帳號產生所用的亂數來源，可注入固定種子以利測試（取代全域亂數）。
// - accts：帳戶集合，維持插入順序；帳號唯一性以線性掃描保證（規模小，無需索引）。
// - txs：append-only 交易日誌；Bank 自身邏輯只寫不讀。
type Bank struct {
	mu    sync.Mutex
	rng   *rand.Rand
	store *storage.Store
	accts []*Account
	txs   []Transaction
}

// Option 用於客製 Bank 的相依元件（亂數來源、儲存層）。
type Option func(*Bank)

// WithRand 注入帳號產生用的亂數來源；測試可傳入固定種子取得可重現的帳號序列。
func WithRand(r *rand.Rand) Option {
	return func(b *Bank) { b.rng = r }
}

// WithStore 注入持久化儲存層（可調整重試次數與退避時間）。
func WithStore(s *storage.Store) Option {
	return func(b *Bank) { b.store = s }
}

// NewBank 建立空白銀行實例（僅就緒的 in-memory 狀態，無外部依賴）。
func NewBank(opts ...Option) *Bank {
	b := &Bank{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		store: storage.NewStore(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// findAccount 以線性掃描尋找帳戶；呼叫端必須持有 mu。
func (b *Bank) findAccount(number string) *Account {
	for _, a := range b.accts {
		if a.AccountNumber == number {
			return a
		}
	}
	return nil
}

// generateAccountNumber 以拒絕取樣 (rejection sampling) 產生全行唯一的 11 位帳號：
// 重複抽取 11 個獨立均勻的十進位數字，直到與現有帳號皆不碰撞為止。
// 帳戶數遠小於 10^11，期望迭代次數 ≈ 1；呼叫端必須持有 mu。
func (b *Bank) generateAccountNumber() string {
	digits := make([]byte, accountNumberLen)
	for {
		for i := range digits {
			digits[i] = byte('0' + b.rng.Intn(10))
		}
		num := string(digits)
		if b.findAccount(num) == nil {
			return num
		}
	}
}

// CreateAccount 建立新帳戶並回傳系統產生的 11 位帳號。
//   - name 或 pin 為空 → ErrInvalidArgument
//   - len(pin) < 4 → 回傳空字串且無錯誤（商業規則的軟性拒絕，不開戶）
//
// 成功時帳戶以零餘額加入集合。
func (b *Bank) CreateAccount(name, pin string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidArgument)
	}
	if pin == "" {
		return "", fmt.Errorf("%w: pin is empty", ErrInvalidArgument)
	}
	if len(pin) < minPinLen {
		// 軟性拒絕：回傳「未開戶」哨兵值而非錯誤
		return "", nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	num := b.generateAccountNumber()
	a, err := NewAccount(name, num, pin, decimal.Zero)
	if err != nil {
		return "", err
	}
	b.accts = append(b.accts, a)
	return num, nil
}

// EditAccount 修改帳戶持有人名稱。
// 驗證順序：參數格式 → 帳戶存在 → PIN 相符 → 就地修改。
func (b *Bank) EditAccount(accountNumber, oldPin, newName string) error {
	if accountNumber == "" || oldPin == "" || newName == "" {
		return fmt.Errorf("%w: all fields are required", ErrInvalidArgument)
	}
	if len(accountNumber) != accountNumberLen {
		return fmt.Errorf("%w: account number must be %d digits", ErrInvalidArgument, accountNumberLen)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.findAccount(accountNumber)
	if a == nil {
		return ErrNotFound
	}
	if a.Pin != oldPin {
		return ErrAuth
	}
	a.Name = newName
	return nil
}

// DeleteAccount 刪除帳戶。
// 姓名與 PIN 各自獨立核對、兩者皆須相符；餘額必須為零才允許刪除。
func (b *Bank) DeleteAccount(accountNumber, name, pin string) error {
	if accountNumber == "" || name == "" || pin == "" {
		return fmt.Errorf("%w: all fields are required", ErrInvalidArgument)
	}
	if len(accountNumber) != accountNumberLen {
		return fmt.Errorf("%w: account number must be %d digits", ErrInvalidArgument, accountNumberLen)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, a := range b.accts {
		if a.AccountNumber != accountNumber {
			continue
		}
		if a.Name != name || a.Pin != pin {
			return ErrAuth
		}
		if !a.Balance.IsZero() {
			return ErrNonZeroBalance
		}
		b.accts = append(b.accts[:i], b.accts[i+1:]...)
		return nil
	}
	return ErrNotFound
}

// GetAccountDetails 以「帳號 + PIN」組合查詢帳戶。
// 帳號與 PIN 須同時匹配同一筆紀錄；查無或 PIN 錯誤一律回傳 (nil, nil)，
// 刻意不區分兩者，避免洩漏帳號是否存在。回傳值為拷貝，不暴露內部指標。
func (b *Bank) GetAccountDetails(accountNumber, pin string) (*Account, error) {
	if accountNumber == "" || pin == "" {
		return nil, fmt.Errorf("%w: account number and pin are required", ErrInvalidArgument)
	}
	if len(accountNumber) != accountNumberLen {
		return nil, fmt.Errorf("%w: account number must be %d digits", ErrInvalidArgument, accountNumberLen)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accts {
		if a.AccountNumber == accountNumber && a.Pin == pin {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// DepositFunds 存款：金額需 > 0；若帳戶不存在回傳 ErrNotFound。
// 於臨界區內同時更新餘額與追加日誌，確保兩者一致性。
func (b *Bank) DepositFunds(accountNumber string, amount decimal.Decimal) error {
	if accountNumber == "" {
		return fmt.Errorf("%w: account number is empty", ErrInvalidArgument)
	}
	if len(accountNumber) != accountNumberLen {
		return fmt.Errorf("%w: account number must be %d digits", ErrInvalidArgument, accountNumberLen)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be > 0", ErrInvalidArgument)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.findAccount(accountNumber)
	if a == nil {
		return ErrNotFound
	}
	tx, err := NewTransaction(uuid.NewString(), accountNumber, TxDeposit, amount, time.Now(), "")
	if err != nil {
		return err
	}
	a.Balance = a.Balance.Add(amount)
	b.txs = append(b.txs, *tx)
	return nil
}

// WithdrawFunds 提款：需通過 PIN 驗證且餘額足夠（維持非負）。
// 檢查全數通過前不做任何變更，避免部分成功。
func (b *Bank) WithdrawFunds(accountNumber, pin string, amount decimal.Decimal) error {
	if accountNumber == "" || pin == "" {
		return fmt.Errorf("%w: account number and pin are required", ErrInvalidArgument)
	}
	if len(accountNumber) != accountNumberLen {
		return fmt.Errorf("%w: account number must be %d digits", ErrInvalidArgument, accountNumberLen)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be > 0", ErrInvalidArgument)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.findAccount(accountNumber)
	if a == nil {
		return ErrNotFound
	}
	if a.Pin != pin {
		return ErrAuth
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficient
	}
	tx, err := NewTransaction(uuid.NewString(), accountNumber, TxWithdrawal, amount, time.Now(), "")
	if err != nil {
		return err
	}
	a.Balance = a.Balance.Sub(amount)
	b.txs = append(b.txs, *tx)
	return nil
}

// TransferFunds 轉帳為「單一臨界區內」的原子操作：
// 1) 檢核參數 → 2) 寄件方存在且 PIN 相符 → 3) 收件方存在 → 4) 餘額足夠
// → 5) 同步扣款與入帳 → 6) 追加一筆寄件方視角的 Transfer 日誌。
// 任一步驟失敗皆不會改變任何帳戶狀態。收件方不會產生對應的日誌紀錄。
func (b *Bank) TransferFunds(senderNumber, senderPin, receiverNumber string, amount decimal.Decimal) error {
	if senderNumber == "" || receiverNumber == "" || senderPin == "" {
		return fmt.Errorf("%w: all fields are required", ErrInvalidArgument)
	}
	if len(senderNumber) != accountNumberLen || len(receiverNumber) != accountNumberLen {
		return fmt.Errorf("%w: account numbers must be %d digits", ErrInvalidArgument, accountNumberLen)
	}
	if senderNumber == receiverNumber {
		return ErrSameAccount
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be > 0", ErrInvalidArgument)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	// 寄件方先查詢並驗證 PIN，之後才查詢收件方；
	// 收件方不存在的錯誤只會在寄件方驗證通過後浮現。
	from := b.findAccount(senderNumber)
	if from == nil {
		return ErrNotFound
	}
	if from.Pin != senderPin {
		return ErrAuth
	}
	to := b.findAccount(receiverNumber)
	if to == nil {
		return ErrNotFound
	}
	if from.Balance.LessThan(amount) {
		return ErrInsufficient
	}

	tx, err := NewTransaction(uuid.NewString(), senderNumber, TxTransfer, amount, time.Now(), receiverNumber)
	if err != nil {
		return err
	}
	from.Balance = from.Balance.Sub(amount)
	to.Balance = to.Balance.Add(amount)
	b.txs = append(b.txs, *tx)
	return nil
}

// Accounts 回傳所有帳戶的拷貝快照（插入順序）；不暴露內部指標，維持封裝。
func (b *Bank) Accounts() []Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Account, 0, len(b.accts))
	for _, a := range b.accts {
		out = append(out, *a)
	}
	return out
}

// TransactionLog 回傳完整交易日誌的拷貝（插入順序）。
func (b *Bank) TransactionLog() []Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Transaction, len(b.txs))
	copy(out, b.txs)
	return out
}

// SaveData 將帳戶與交易日誌分別序列化到兩個獨立檔案。
// 路徑為空字串時採用預設相對路徑。兩個檔案各自帶有限次數重試；
// 重試耗盡的寫入失敗會被回報（不吞掉），且兩個檔案都會嘗試寫入。
func (b *Bank) SaveData(accountsPath, transactionsPath string) error {
	if accountsPath == "" {
		accountsPath = DefaultAccountsPath
	}
	if transactionsPath == "" {
		transactionsPath = DefaultTransactionsPath
	}

	b.mu.Lock()
	accts := make([]storage.PersistAccount, 0, len(b.accts))
	for _, a := range b.accts {
		accts = append(accts, storage.PersistAccount{
			Name:          a.Name,
			AccountNumber: a.AccountNumber,
			Pin:           a.Pin,
			Balance:       a.Balance,
		})
	}
	txs := make([]storage.PersistTransaction, 0, len(b.txs))
	for _, t := range b.txs {
		rec := storage.PersistTransaction{
			TransactionID: t.ID,
			AccountID:     t.AccountNumber,
			Type:          string(t.Type),
			Amount:        t.Amount,
			Timestamp:     storage.Timestamp{Time: t.Timestamp},
		}
		if t.RecipientAccountNumber != "" {
			rec.RecipientAccountID = t.RecipientAccountNumber
		}
		txs = append(txs, rec)
	}
	b.mu.Unlock()

	return errors.Join(
		b.store.SaveAccounts(accountsPath, accts),
		b.store.SaveTransactions(transactionsPath, txs),
	)
}

// LoadData 從兩個快照檔還原狀態，整批取代 (replace) 對應的 in-memory 集合：
//   - 檔案不存在或內容空白 → 該集合維持原狀（允許僅載入其中一個檔案）
//   - 內容存在但解析失敗 → 回傳 storage.ErrMalformed，且不清空現有狀態
//
// 載入採「取代」而非合併，與快照語意一致。
func (b *Bank) LoadData(accountsPath, transactionsPath string) error {
	if accountsPath == "" {
		accountsPath = DefaultAccountsPath
	}
	if transactionsPath == "" {
		transactionsPath = DefaultTransactionsPath
	}

	accts, haveAccts, err := b.store.LoadAccounts(accountsPath)
	if err != nil {
		return err
	}
	txs, haveTxs, err := b.store.LoadTransactions(transactionsPath)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if haveAccts {
		replacement := make([]*Account, 0, len(accts))
		for _, pa := range accts {
			replacement = append(replacement, &Account{
				Name:          pa.Name,
				AccountNumber: pa.AccountNumber,
				Pin:           pa.Pin,
				Balance:       pa.Balance,
			})
		}
		b.accts = replacement
	}
	if haveTxs {
		replacement := make([]Transaction, 0, len(txs))
		for _, pt := range txs {
			replacement = append(replacement, Transaction{
				ID:                     pt.TransactionID,
				AccountNumber:          pt.AccountID,
				Type:                   TxType(pt.Type),
				Amount:                 pt.Amount,
				Timestamp:              pt.Timestamp.Time,
				RecipientAccountNumber: pt.RecipientAccountID,
			})
		}
		b.txs = replacement
	}
	return nil
}
