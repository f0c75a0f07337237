// cmd/bankcli/main.go

// 互動式命令列選單：讀取並驗證原始文字輸入、轉派給 Bank 操作、列印結果。
// 啟動時載入 JSON 快照、每次成功操作後保存，結束前再保存一次。
// 本層為純 I/O 包裝，不持有獨立狀態；所有商業邏輯皆在 bank 層。

package main

import (
	"bufio"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"ledger/internal/bank"
	"ledger/internal/config"
	"ledger/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store := storage.NewStore()
	store.Retries = cfg.SnapshotRetries
	store.Backoff = cfg.SnapshotBackoff()
	b := bank.NewBank(bank.WithStore(store))

	// 啟動時還原上次的快照；檔案不存在時以空銀行開始
	if err := b.LoadData(cfg.AccountsPath(), cfg.TransactionsPath()); err != nil {
		logger.Error("load snapshot failed", "error", err)
	}

	persist := func() {
		if err := b.SaveData(cfg.AccountsPath(), cfg.TransactionsPath()); err != nil {
			logger.Error("save snapshot failed", "error", err)
		}
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println()
		fmt.Println("===== Bank Menu =====")
		fmt.Println("1) Create account")
		fmt.Println("2) Deposit")
		fmt.Println("3) Withdraw")
		fmt.Println("4) Transfer")
		fmt.Println("5) Account details")
		fmt.Println("6) Edit account name")
		fmt.Println("7) Delete account")
		fmt.Println("0) Exit")

		switch prompt(in, "Select: ") {
		case "1":
			createAccount(in, b, persist)
		case "2":
			deposit(in, b, persist)
		case "3":
			withdraw(in, b, persist)
		case "4":
			transfer(in, b, persist)
		case "5":
			details(in, b)
		case "6":
			edit(in, b, persist)
		case "7":
			remove(in, b, persist)
		case "0":
			persist()
			fmt.Println("Goodbye.")
			return
		default:
			fmt.Println("Unknown option.")
		}
	}
}

// prompt 讀取單行輸入並去除前後空白；EOF 視為空字串。
func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

// promptAmount 讀取並解析定點數金額；格式錯誤回傳 false。
func promptAmount(in *bufio.Scanner, label string) (decimal.Decimal, bool) {
	amt, err := decimal.NewFromString(prompt(in, label))
	if err != nil {
		fmt.Println("Invalid amount.")
		return decimal.Decimal{}, false
	}
	return amt, true
}

func createAccount(in *bufio.Scanner, b *bank.Bank, persist func()) {
	name := prompt(in, "Holder name: ")
	pin := prompt(in, "PIN (at least 4 characters): ")
	num, err := b.CreateAccount(name, pin)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	// PIN 過短屬軟性拒絕：不開戶、不報錯
	if num == "" {
		fmt.Println("No account created: pin must be at least 4 characters.")
		return
	}
	fmt.Println("Account created. Number:", num)
	persist()
}

func deposit(in *bufio.Scanner, b *bank.Bank, persist func()) {
	num := prompt(in, "Account number: ")
	amt, ok := promptAmount(in, "Amount: ")
	if !ok {
		return
	}
	if err := b.DepositFunds(num, amt); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Deposit success.")
	persist()
}

func withdraw(in *bufio.Scanner, b *bank.Bank, persist func()) {
	num := prompt(in, "Account number: ")
	pin := prompt(in, "PIN: ")
	amt, ok := promptAmount(in, "Amount: ")
	if !ok {
		return
	}
	if err := b.WithdrawFunds(num, pin, amt); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Withdraw success.")
	persist()
}

func transfer(in *bufio.Scanner, b *bank.Bank, persist func()) {
	from := prompt(in, "Sender account number: ")
	pin := prompt(in, "Sender PIN: ")
	to := prompt(in, "Receiver account number: ")
	amt, ok := promptAmount(in, "Amount: ")
	if !ok {
		return
	}
	if err := b.TransferFunds(from, pin, to, amt); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Transfer success.")
	persist()
}

func details(in *bufio.Scanner, b *bank.Bank) {
	num := prompt(in, "Account number: ")
	pin := prompt(in, "PIN: ")
	a, err := b.GetAccountDetails(num, pin)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	// 帳號或 PIN 不符一律視為查無，不透露何者有誤
	if a == nil {
		fmt.Println("No matching account.")
		return
	}
	fmt.Printf("Name: %s\nNumber: %s\nBalance: %s\n", a.Name, a.AccountNumber, a.Balance)
}

func edit(in *bufio.Scanner, b *bank.Bank, persist func()) {
	num := prompt(in, "Account number: ")
	pin := prompt(in, "Current PIN: ")
	name := prompt(in, "New holder name: ")
	if err := b.EditAccount(num, pin, name); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Account updated.")
	persist()
}

func remove(in *bufio.Scanner, b *bank.Bank, persist func()) {
	num := prompt(in, "Account number: ")
	name := prompt(in, "Holder name: ")
	pin := prompt(in, "PIN: ")
	if err := b.DeleteAccount(num, name, pin); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Account deleted.")
	persist()
}
