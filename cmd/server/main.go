// cmd/server/main.go

// 本服務提供帳戶建立、編輯、刪除、存提款、轉帳與查詢等 RESTful API。
// 此檔案負責組裝模組（config, bank, storage, server）並啟動 HTTP 伺服器；
// 同時支援啟動時載入 JSON 快照、每次成功變更後保存、
// 依排程定期保存 (autosave)，以及收到訊號時安全保存後結束。

package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"ledger/internal/bank"
	"ledger/internal/config"
	"ledger/internal/server"
	"ledger/internal/storage"
)

func main() {
	// 本機開發可透過 .env 覆寫設定；檔案不存在屬正常情況
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 初始化銀行核心模組，重試參數由設定注入
	store := storage.NewStore()
	store.Retries = cfg.SnapshotRetries
	store.Backoff = cfg.SnapshotBackoff()
	b := bank.NewBank(bank.WithStore(store))

	// 嘗試從上次的 JSON 快照載入資料；檔案不存在時以空銀行啟動
	if err := b.LoadData(cfg.AccountsPath(), cfg.TransactionsPath()); err != nil {
		logger.Error("load snapshot failed, starting with in-memory state only", "error", err)
	} else {
		logger.Info("snapshot loaded",
			"accounts", cfg.AccountsPath(), "transactions", cfg.TransactionsPath())
	}

	// persist 函式：將當前銀行狀態快照存入資料目錄
	persist := func() error {
		return b.SaveData(cfg.AccountsPath(), cfg.TransactionsPath())
	}

	// 初始化伺服器並注入 persist 回呼，以便在每次成功變更後自動儲存
	s := server.NewServer(b, persist)

	// 排程定期快照 (autosave)：即使無變更也定期落盤
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))
	if _, err := c.AddFunc(cfg.SnapshotSchedule, func() {
		if err := persist(); err != nil {
			logger.Error("scheduled snapshot failed", "error", err)
		}
	}); err != nil {
		logger.Error("failed to schedule snapshot job", "schedule", cfg.SnapshotSchedule, "error", err)
	} else {
		logger.Info("scheduled snapshot job", "schedule", cfg.SnapshotSchedule)
	}
	c.Start()

	// 監聽 SIGINT/SIGTERM 訊號，安全結束前保存狀態
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		<-c.Stop().Done()
		if err := persist(); err != nil {
			logger.Error("final snapshot failed", "error", err)
		}
		os.Exit(0)
	}()

	logger.Info("bank server running", "port", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, s.Router()))
}
