// internal/bank/transaction.go
//
// 定義交易日誌 (Transaction) 的領域模型。
// 交易紀錄為 append-only：每次成功的存款、提款或轉帳（寄件方視角）各產生一筆，
// 建立後不再修改、也不會被刪除；Bank 自身邏輯不讀取日誌，僅供持久化與查詢。

package bank

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TxType 為交易類型列舉。
type TxType string

const (
	TxDeposit    TxType = "Deposit"
	TxWithdrawal TxType = "Withdrawal"
	TxTransfer   TxType = "Transfer"
)

// Transaction represents a single ledger record.
// RecipientAccountNumber 僅在 Type == Transfer 時設置（寄件方視角的單筆紀錄）。
type Transaction struct {
	ID                     string          `json:"transaction_id"`
	AccountNumber          string          `json:"account_number"`
	Type                   TxType          `json:"type"`
	Amount                 decimal.Decimal `json:"amount"`
	Timestamp              time.Time       `json:"timestamp"`
	RecipientAccountNumber string          `json:"recipient_account_number,omitempty"`
}

// NewTransaction 建立交易值物件並依序驗證欄位。
// 驗證順序固定（測試會斷言先出現的錯誤訊息）：
//  1. id 不得為空
//  2. accountNumber 不得為空
//  3. amount 必須 > 0
//  4. timestamp 不得為零值
//  5. Transfer 類型必須帶 recipient；其餘類型不得帶
//  6. recipient（若存在）必須為 11 位
//  7. accountNumber 必須為 11 位
func NewTransaction(id, accountNumber string, typ TxType, amount decimal.Decimal, ts time.Time, recipient string) (*Transaction, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: transaction id is empty", ErrInvalidArgument)
	}
	if accountNumber == "" {
		return nil, fmt.Errorf("%w: account number is empty", ErrInvalidArgument)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be > 0", ErrInvalidArgument)
	}
	if ts.IsZero() {
		return nil, fmt.Errorf("%w: timestamp is not set", ErrInvalidArgument)
	}
	if typ == TxTransfer && recipient == "" {
		return nil, fmt.Errorf("%w: transfer requires a recipient account number", ErrInvalidArgument)
	}
	if typ != TxTransfer && recipient != "" {
		return nil, fmt.Errorf("%w: recipient is only valid for transfers", ErrInvalidArgument)
	}
	if recipient != "" && len(recipient) != accountNumberLen {
		return nil, fmt.Errorf("%w: recipient account number must be %d digits", ErrInvalidArgument, accountNumberLen)
	}
	if len(accountNumber) != accountNumberLen {
		return nil, fmt.Errorf("%w: account number must be %d digits", ErrInvalidArgument, accountNumberLen)
	}
	return &Transaction{
		ID:                     id,
		AccountNumber:          accountNumber,
		Type:                   typ,
		Amount:                 amount,
		Timestamp:              ts,
		RecipientAccountNumber: recipient,
	}, nil
}
