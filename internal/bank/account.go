// Package bank 定義核心領域模型與業務規則。
// 本檔定義 Account 結構與其驗證建構子，不含任何 HTTP 或儲存細節。

package bank

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// accountNumberLen 為系統統一的帳號長度（11 位十進位數字）。
const accountNumberLen = 11

// Account represents a bank account.
// Balance 使用 decimal 定點數，避免浮點誤差（金額如 1000.50 可精確表示）。
type Account struct {
	Name          string          `json:"name"`
	AccountNumber string          `json:"account_number"`
	Pin           string          `json:"-"`
	Balance       decimal.Decimal `json:"balance"`
}

// NewAccount 建立帳戶值物件並驗證所有欄位：
//   - name、pin 不得為空
//   - accountNumber 必須為剛好 11 位十進位數字
//   - balance 不得為負
//
// 外部呼叫端不應直接使用本建構子；帳戶一律經由 Bank.CreateAccount 產生。
func NewAccount(name, accountNumber, pin string, balance decimal.Decimal) (*Account, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is empty", ErrInvalidArgument)
	}
	if !isAccountNumber(accountNumber) {
		return nil, fmt.Errorf("%w: account number must be %d digits", ErrInvalidArgument, accountNumberLen)
	}
	if pin == "" {
		return nil, fmt.Errorf("%w: pin is empty", ErrInvalidArgument)
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance cannot be negative", ErrInvalidArgument)
	}
	return &Account{Name: name, AccountNumber: accountNumber, Pin: pin, Balance: balance}, nil
}

// isAccountNumber 檢查字串是否為剛好 11 位十進位數字。
func isAccountNumber(s string) bool {
	if len(s) != accountNumberLen {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
