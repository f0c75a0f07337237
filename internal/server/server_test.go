// internal/server/server_test.go
//
// 本檔為 server 層的整合測試 (Integration Test)。
// 模擬完整 HTTP 請求流程，驗證 REST API 與 bank 層之間的整合、狀態正確性、
// 錯誤代碼映射，以及持久化鉤子 (persist hook) 是否在每次成功變更後正確觸發。
//
// 測試重點：
//  1. API 行為涵蓋開戶、查詢、存提款、轉帳、編輯與刪除。
//  2. 成功變更會觸發 persist()；唯讀操作與失敗操作不觸發。
//  3. 錯誤狀況皆有正確 HTTP 狀態碼（400, 401, 404, 409）。
//  4. 使用 httptest.Server 完成端對端模擬，不依賴外部服務。

package server

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/bank"
)

// doJSON 為測試輔助函式：
// 封裝 HTTP JSON 請求邏輯並自動驗證回傳狀態碼。
// 若 out 非 nil，則自動解析 JSON 回應。
func doJSON(t *testing.T, c *http.Client, method, url string, body any, wantCode int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantCode, resp.StatusCode)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

// TestHTTPFlowAndPersistHook 驗證整個 HTTP API 流程的正確性與持久化鉤子行為。
func TestHTTPFlowAndPersistHook(t *testing.T) {
	var persistCalls int32 // 用 atomic 計算 persist() 呼叫次數

	b := bank.NewBank(bank.WithRand(rand.New(rand.NewSource(1))))
	s := NewServer(b, func() error {
		atomic.AddInt32(&persistCalls, 1)
		return nil
	})
	ts := httptest.NewServer(s.Router())
	defer ts.Close()
	cli := ts.Client()

	// 1️⃣ 建立兩個帳戶
	var created struct {
		AccountNumber string `json:"account_number"`
	}
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"name": "A", "pin": "1111"}, 201, &created)
	a1 := created.AccountNumber
	require.Len(t, a1, 11)
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"name": "B", "pin": "2222"}, 201, &created)
	a2 := created.AccountNumber

	// PIN 過短：軟性拒絕（200、空帳號、不觸發 persist）
	callsBefore := atomic.LoadInt32(&persistCalls)
	doJSON(t, cli, "POST", ts.URL+"/accounts", map[string]any{"name": "C", "pin": "12"}, 200, &created)
	assert.Empty(t, created.AccountNumber)
	assert.Equal(t, callsBefore, atomic.LoadInt32(&persistCalls))

	// 2️⃣ 存款與提款
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+a1+"/deposit", map[string]any{"amount": "1000.50"}, 200, nil)
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+a1+"/withdraw", map[string]any{"pin": "1111", "amount": "300.75"}, 200, nil)

	// ❌ PIN 錯誤 → 401；餘額不足 → 409
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+a1+"/withdraw", map[string]any{"pin": "0000", "amount": "1"}, 401, nil)
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+a1+"/withdraw", map[string]any{"pin": "1111", "amount": "99999"}, 409, nil)

	// 3️⃣ 轉帳
	doJSON(t, cli, "POST", ts.URL+"/transfer",
		map[string]any{"from": a1, "pin": "1111", "to": a2, "amount": "99.75"}, 200, nil)
	// 相同帳戶 → 400；收件方不存在 → 404
	doJSON(t, cli, "POST", ts.URL+"/transfer",
		map[string]any{"from": a1, "pin": "1111", "to": a1, "amount": "1"}, 400, nil)
	doJSON(t, cli, "POST", ts.URL+"/transfer",
		map[string]any{"from": a1, "pin": "1111", "to": "00000000000", "amount": "1"}, 404, nil)

	// 4️⃣ 查詢：帳號+PIN 相符 → 200；不符 → 404
	var got bank.Account
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+a1+"/details", map[string]any{"pin": "1111"}, 200, &got)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, "600", got.Balance.String())
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+a1+"/details", map[string]any{"pin": "9999"}, 404, nil)

	// 5️⃣ 編輯名稱
	doJSON(t, cli, "PUT", ts.URL+"/accounts/"+a1, map[string]any{"old_pin": "1111", "new_name": "A2"}, 200, nil)
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+a1+"/details", map[string]any{"pin": "1111"}, 200, &got)
	assert.Equal(t, "A2", got.Name)

	// 6️⃣ 刪除：餘額非零 → 409；清空後成功
	doJSON(t, cli, "DELETE", ts.URL+"/accounts/"+a2, map[string]any{"name": "B", "pin": "2222"}, 409, nil)
	doJSON(t, cli, "POST", ts.URL+"/accounts/"+a2+"/withdraw", map[string]any{"pin": "2222", "amount": "99.75"}, 200, nil)
	doJSON(t, cli, "DELETE", ts.URL+"/accounts/"+a2, map[string]any{"name": "B", "pin": "2222"}, 200, nil)

	// 7️⃣ 交易日誌：存款、提款、轉帳（寄件方）、刪除前最後一筆提款
	var txs []bank.Transaction
	doJSON(t, cli, "GET", ts.URL+"/transactions", nil, 200, &txs)
	require.Len(t, txs, 4)
	assert.Equal(t, bank.TxDeposit, txs[0].Type)
	assert.Equal(t, bank.TxWithdrawal, txs[1].Type)
	assert.Equal(t, bank.TxTransfer, txs[2].Type)
	assert.Equal(t, a2, txs[2].RecipientAccountNumber)

	// 8️⃣ persist 鉤子：開戶×2、存款、提款×2（成功的）、轉帳、編輯、刪除 = 8 次
	assert.Equal(t, int32(8), atomic.LoadInt32(&persistCalls))

	// 帳戶列表：只剩 a1
	var accts []bank.Account
	doJSON(t, cli, "GET", ts.URL+"/accounts", nil, 200, &accts)
	require.Len(t, accts, 1)
	assert.Equal(t, a1, accts[0].AccountNumber)
}

// TestHealthAndBadJSON 驗證健康檢查與壞 JSON 的錯誤處理。
func TestHealthAndBadJSON(t *testing.T) {
	b := bank.NewBank()
	ts := httptest.NewServer(NewServer(b, nil).Router())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, _ := http.NewRequest("POST", ts.URL+"/accounts", bytes.NewBufferString("{not json"))
	resp2, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}
