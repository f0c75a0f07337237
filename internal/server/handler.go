// internal/server/handler.go
//
// Package server
// ─────────────────────────────────────────────
// 提供 HTTP RESTful 介面，作為 bank 模組的應用層 (Application Layer)。
// 每個 handler 僅負責：
//  1. 接收與驗證 HTTP 請求
//  2. 呼叫 bank 層執行商業邏輯
//  3. 回傳標準化 JSON 回應
//  4. 成功變更狀態後呼叫 s.persist()，將當前銀行狀態寫入 JSON 快照
//
// 此設計使邏輯分層清晰：
//   - bank：純商業邏輯，與 HTTP 無關。
//   - server：處理傳輸層（Transport Layer）。
//   - storage：負責持久化。
//
// 整體遵循「依賴反轉」原則（Bank 不依賴 HTTP，Server 依賴 Bank）。
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"ledger/internal/bank"
)

// Server 為 HTTP 層核心結構：
// - Bank：注入商業邏輯層（銀行核心）。
// - persist：注入持久化鉤子，讓 server 不需關心儲存實作細節（可替換為 DB）。
type Server struct {
	Bank    *bank.Bank
	persist func() error
}

// NewServer 建立新的 HTTP 伺服器。
// persist 可為 nil；若提供則會於每次成功變更後觸發。
func NewServer(b *bank.Bank, persist func() error) *Server {
	return &Server{Bank: b, persist: persist}
}

// persistState 於成功變更後寫入快照；失敗不影響已回覆的操作結果。
func (s *Server) persistState() {
	if s.persist != nil {
		_ = s.persist()
	}
}

// createAccount 處理 POST /accounts → 建立帳戶。
// PIN 長度不足 4 屬商業規則的軟性拒絕：回傳 200 與空帳號，不開戶也不報錯。
func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Pin  string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	num, err := s.Bank.CreateAccount(req.Name, req.Pin)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	if num == "" {
		writeJSON(w, http.StatusOK, map[string]string{
			"account_number": "",
			"message":        "no account created: pin must be at least 4 characters",
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"account_number": num})
	s.persistState()
}

// listAccounts 處理 GET /accounts → 列出所有帳戶（拷貝快照，不含 PIN）。
func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Bank.Accounts())
}

// accountDetails 處理 POST /accounts/{number}/details → 以帳號+PIN 查詢。
// 帳號或 PIN 不符一律回 404，不透露兩者何者有誤。
func (s *Server) accountDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pin string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	a, err := s.Bank.GetAccountDetails(chi.URLParam(r, "number"), req.Pin)
	if err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	if a == nil {
		writeErr(w, errors.New("no matching account"), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// editAccount 處理 PUT /accounts/{number} → 修改持有人名稱。
func (s *Server) editAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPin  string `json:"old_pin"`
		NewName string `json:"new_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := s.Bank.EditAccount(chi.URLParam(r, "number"), req.OldPin, req.NewName); err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account updated"})
	s.persistState()
}

// deleteAccount 處理 DELETE /accounts/{number} → 刪除帳戶（餘額須為零）。
func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Pin  string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := s.Bank.DeleteAccount(chi.URLParam(r, "number"), req.Name, req.Pin); err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
	s.persistState()
}

// deposit 處理 POST /accounts/{number}/deposit → 存款。
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := s.Bank.DepositFunds(chi.URLParam(r, "number"), req.Amount); err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deposit success"})
	s.persistState()
}

// withdraw 處理 POST /accounts/{number}/withdraw → 提款（需 PIN）。
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pin    string          `json:"pin"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := s.Bank.WithdrawFunds(chi.URLParam(r, "number"), req.Pin, req.Amount); err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "withdraw success"})
	s.persistState()
}

// transfer 處理 POST /transfer → 轉帳。
// 成功後回傳訊息；日誌僅記錄寄件方視角的一筆 Transfer。
func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From   string          `json:"from"`
		Pin    string          `json:"pin"`
		To     string          `json:"to"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	if err := s.Bank.TransferFunds(req.From, req.Pin, req.To, req.Amount); err != nil {
		writeErr(w, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "transfer success"})
	s.persistState()
}

// listTransactions 處理 GET /transactions → 完整交易日誌（插入順序）。
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Bank.TransactionLog())
}

// health 提供健康檢查端點：GET /health。
// 可供監控系統或 Docker liveness probe 使用。
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
