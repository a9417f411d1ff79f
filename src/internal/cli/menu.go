package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type Ledger interface {
	CreateAccount(ctx context.Context, username, password, confirmPassword string, initialBalance decimal.Decimal) (domain.Account, error)
	Authenticate(ctx context.Context, username, password string) (domain.Account, error)
	Deposit(ctx context.Context, username string, amount decimal.Decimal) (domain.Transaction, error)
	Withdraw(ctx context.Context, username string, amount decimal.Decimal) (domain.Transaction, error)
	Transfer(ctx context.Context, fromUser, toUser string, amount decimal.Decimal) (services.TransferResult, error)
	BalanceOf(username string) (decimal.Decimal, error)
	History(ctx context.Context, username string) ([]domain.Transaction, error)
	AllAccounts() []domain.AccountSummary
	IsAdmin(username string) bool
}

// PasswordReader prints prompt and returns one line of secret input.
type PasswordReader func(prompt string) (string, error)

type Menu struct {
	ledger       Ledger
	in           *bufio.Reader
	out          io.Writer
	readPassword PasswordReader
}

type MenuOption func(*Menu)

// WithPasswordReader replaces line input for passwords. A nil reader is ignored.
func WithPasswordReader(reader PasswordReader) MenuOption {
	return func(m *Menu) {
		if reader != nil {
			m.readPassword = reader
		}
	}
}

// NewMenu reads passwords from in like any other line unless a PasswordReader
// is supplied.
func NewMenu(ledger Ledger, in io.Reader, out io.Writer, opts ...MenuOption) *Menu {
	m := &Menu{
		ledger: ledger,
		in:     bufio.NewReader(in),
		out:    out,
	}
	m.readPassword = func(prompt string) (string, error) {
		return m.prompt(prompt)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run drives the main menu until the user exits or input ends. Rejected
// operations are reported and the loop continues; storage failures end it.
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.printf("\n====== Banking System ======\n1. Create Account\n2. Login\n3. Exit\n")
		choice, err := m.prompt("Select option: ")
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case "1":
			err = m.createAccount(ctx)
		case "2":
			err = m.login(ctx)
		case "3":
			m.printf("Goodbye!\n")
			return nil
		default:
			m.printf("Invalid option.\n")
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

// ListAccounts asks for the admin password and prints every account.
func (m *Menu) ListAccounts(ctx context.Context) error {
	password, err := m.readPassword("Admin password: ")
	if err != nil {
		return endOfInput(err)
	}
	if _, err := m.ledger.Authenticate(ctx, domain.AdminUsername, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			m.printf("%s\n", err)
		}
		return err
	}
	m.printAccounts()
	return nil
}

func (m *Menu) createAccount(ctx context.Context) error {
	username, err := m.prompt("Enter username: ")
	if err != nil {
		return err
	}
	password, err := m.readPassword("Enter password: ")
	if err != nil {
		return err
	}
	confirm, err := m.readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		m.printf("%s\n", domain.ErrPasswordMismatch)
		return nil
	}

	initial, ok, err := m.promptAmount("Initial balance (>=0): ")
	if err != nil || !ok {
		return err
	}

	_, err = m.ledger.CreateAccount(ctx, username, password, confirm, initial)
	if reported, fatal := m.report(err); !reported {
		m.printf("Account created successfully.\n")
	} else if fatal != nil {
		return fatal
	}
	return nil
}

func (m *Menu) login(ctx context.Context) error {
	username, err := m.prompt("Username: ")
	if err != nil {
		return err
	}
	password, err := m.readPassword("Password: ")
	if err != nil {
		return err
	}

	if _, err := m.ledger.Authenticate(ctx, username, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			m.printf("%s\n", err)
			return nil
		}
		return err
	}

	admin := m.ledger.IsAdmin(username)
	suffix := ""
	if admin {
		suffix = " [admin]"
	}
	m.printf("Welcome, %s%s!\n", username, suffix)
	logger.Info("cli session started", logger.Fields{
		"username": username,
	})

	return m.session(ctx, username, admin)
}

func (m *Menu) session(ctx context.Context, username string, admin bool) error {
	logout := "6"
	if admin {
		logout = "7"
	}

	for {
		m.printUserMenu(admin)
		choice, err := m.prompt("Select option: ")
		if err != nil {
			return err
		}

		switch {
		case choice == "1":
			balance, err := m.ledger.BalanceOf(username)
			if err != nil {
				m.printf("Error reading balance.\n")
				continue
			}
			m.printf("Balance: %s\n", balance.StringFixed(2))
		case choice == "2":
			err = m.cash(ctx, "Amount to deposit: ", "Deposit successful.", username, m.ledger.Deposit)
		case choice == "3":
			err = m.cash(ctx, "Amount to withdraw: ", "Withdrawal successful.", username, m.ledger.Withdraw)
		case choice == "4":
			err = m.transfer(ctx, username)
		case choice == "5":
			err = m.history(ctx, username)
		case choice == "6" && admin:
			m.printAccounts()
		case choice == logout:
			logger.Info("cli session ended", logger.Fields{
				"username": username,
			})
			return nil
		default:
			m.printf("Invalid option.\n")
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) cash(
	ctx context.Context,
	prompt, success, username string,
	apply func(ctx context.Context, username string, amount decimal.Decimal) (domain.Transaction, error),
) error {
	amount, ok, err := m.promptAmount(prompt)
	if err != nil || !ok {
		return err
	}

	_, err = apply(ctx, username, amount)
	if reported, fatal := m.report(err); !reported {
		m.printf("%s\n", success)
	} else if fatal != nil {
		return fatal
	}
	return nil
}

func (m *Menu) transfer(ctx context.Context, username string) error {
	to, err := m.prompt("Transfer to (username): ")
	if err != nil {
		return err
	}
	amount, ok, err := m.promptAmount("Amount: ")
	if err != nil || !ok {
		return err
	}

	_, err = m.ledger.Transfer(ctx, username, to, amount)
	if reported, fatal := m.report(err); !reported {
		m.printf("Transfer successful.\n")
	} else if fatal != nil {
		return fatal
	}
	return nil
}

func (m *Menu) history(ctx context.Context, username string) error {
	history, err := m.ledger.History(ctx, username)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		m.printf("No history available.\n")
		return nil
	}

	m.printf("\n-- Transaction History for '%s' --\n", username)
	for _, tx := range history {
		m.printf("%s | %s | Amount: %s | Balance: %s | %s\n",
			tx.Timestamp, tx.Type, tx.Amount.StringFixed(2), tx.BalanceAfter.StringFixed(2), tx.Details)
	}
	return nil
}

func (m *Menu) printAccounts() {
	m.printf("\n-- All Accounts --\n")
	for _, account := range m.ledger.AllAccounts() {
		m.printf("%s | Balance: %s\n", account.Username, account.Balance.StringFixed(2))
	}
}

func (m *Menu) printUserMenu(admin bool) {
	m.printf("\n==== User Menu ====\n1. Check Balance\n2. Deposit\n3. Withdraw\n4. Transfer\n5. View Transaction History\n")
	if admin {
		m.printf("6. [Admin] View All Accounts\n7. Logout\n")
		return
	}
	m.printf("6. Logout\n")
}

// report prints rejections as "Failed: <reason>". It returns reported=false for
// a nil error and a non-nil fatal error for anything that is not a rejection.
func (m *Menu) report(err error) (reported bool, fatal error) {
	if err == nil {
		return false, nil
	}
	if isRejection(err) {
		m.printf("Failed: %s\n", err)
		return true, nil
	}
	return true, err
}

// promptAmount reports ok=false after printing "Invalid amount." for input that
// is not a number.
func (m *Menu) promptAmount(prompt string) (decimal.Decimal, bool, error) {
	raw, err := m.prompt(prompt)
	if err != nil {
		return decimal.Zero, false, err
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		m.printf("Invalid amount.\n")
		return decimal.Zero, false, nil
	}
	return amount, true, nil
}

func (m *Menu) prompt(prompt string) (string, error) {
	m.printf("%s", prompt)
	line, err := m.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(m.out, format, args...)
}

func isRejection(err error) bool {
	for _, rejection := range []error{
		domain.ErrInvalidUsername,
		domain.ErrInvalidPassword,
		domain.ErrPasswordTooLong,
		domain.ErrPasswordMismatch,
		domain.ErrNegativeInitialBalance,
		domain.ErrDuplicateUsername,
		domain.ErrInvalidCredentials,
		domain.ErrInvalidAmount,
		domain.ErrAccountNotFound,
		domain.ErrInsufficientFunds,
		domain.ErrSameAccount,
	} {
		if errors.Is(err, rejection) {
			return true
		}
	}
	return false
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
