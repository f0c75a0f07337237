// internal/server/router.go
//
// 本檔負責 HTTP 路由註冊。
// 與 handler.go 分離，讓系統具備更高的擴充彈性：
//   - 可方便插入中介層（middleware，例如驗證、日誌、逾時）
//   - 讓 Server 結構保持單一職責（handler 專注邏輯、router 專注綁定）
//
// 本模組的設計理念：
//   - handler.go 定義「如何處理請求」
//   - router.go 定義「請求如何被導向」
//   - main.go 組裝整體應用（注入 Bank、Storage、Persist Hook）
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router 建立並回傳整個 HTTP 處理鏈。
// 採 chi 明確路由註冊（非反射式），確保高可讀性與低魔法性。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// 標準中介層：請求日誌、panic 回復、逾時保護
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// 健康檢查：可供監控或 Docker liveness probe 使用。
	r.Get("/health", s.health)

	// 帳戶生命週期與資金操作
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", s.createAccount) // 建立帳戶
		r.Get("/", s.listAccounts)   // 列出帳戶
		r.Route("/{number}", func(r chi.Router) {
			r.Post("/details", s.accountDetails) // 帳號+PIN 查詢
			r.Put("/", s.editAccount)            // 修改名稱
			r.Delete("/", s.deleteAccount)       // 刪除帳戶
			r.Post("/deposit", s.deposit)        // 存款
			r.Post("/withdraw", s.withdraw)      // 提款
		})
	})

	// 轉帳與交易日誌
	r.Post("/transfer", s.transfer)
	r.Get("/transactions", s.listTransactions)

	return r
}
