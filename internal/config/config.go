// internal/config/config.go
//
// 本檔集中管理應用程式設定。
// 使用 Viper 由環境變數（或選用的 .env 檔）載入設定，
// 所有鍵皆有合理預設值，本機開發可零設定直接啟動。

package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config 保存整個服務的設定值，由環境變數綁定載入。
type Config struct {
	ServerPort        string `mapstructure:"SERVER_PORT"`
	DataDir           string `mapstructure:"DATA_DIR"`
	AccountsFile      string `mapstructure:"ACCOUNTS_FILE"`
	TransactionsFile  string `mapstructure:"TRANSACTIONS_FILE"`
	SnapshotSchedule  string `mapstructure:"SNAPSHOT_SCHEDULE"`
	SnapshotRetries   int    `mapstructure:"SNAPSHOT_RETRIES"`
	SnapshotBackoffMS int    `mapstructure:"SNAPSHOT_RETRY_BACKOFF_MS"`
}

// Load 由環境變數讀取設定；path 為 .env 檔的搜尋目錄（檔案可不存在）。
func Load(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// 預設值：資料目錄與檔名對應預設快照路徑 data/accounts.json、data/transactions.json
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("ACCOUNTS_FILE", "accounts.json")
	v.SetDefault("TRANSACTIONS_FILE", "transactions.json")
	v.SetDefault("SNAPSHOT_SCHEDULE", "@every 1m")
	v.SetDefault("SNAPSHOT_RETRIES", 3)
	v.SetDefault("SNAPSHOT_RETRY_BACKOFF_MS", 50)

	// 明確綁定，確保環境變數在 Unmarshal 時生效
	_ = v.BindEnv("SERVER_PORT")
	_ = v.BindEnv("DATA_DIR")
	_ = v.BindEnv("ACCOUNTS_FILE")
	_ = v.BindEnv("TRANSACTIONS_FILE")
	_ = v.BindEnv("SNAPSHOT_SCHEDULE")
	_ = v.BindEnv("SNAPSHOT_RETRIES")
	_ = v.BindEnv("SNAPSHOT_RETRY_BACKOFF_MS")

	// .env 不存在屬正常情況，其餘讀檔錯誤照樣回報
	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	err = v.Unmarshal(&config)
	return config, err
}

// AccountsPath 回傳帳戶快照的完整路徑。
func (c Config) AccountsPath() string {
	return filepath.Join(c.DataDir, c.AccountsFile)
}

// TransactionsPath 回傳交易快照的完整路徑。
func (c Config) TransactionsPath() string {
	return filepath.Join(c.DataDir, c.TransactionsFile)
}

// SnapshotBackoff 回傳重試退避基準時間。
func (c Config) SnapshotBackoff() time.Duration {
	return time.Duration(c.SnapshotBackoffMS) * time.Millisecond
}
