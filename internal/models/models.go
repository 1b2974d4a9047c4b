package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money fields serialise as JSON numbers, matching the public API contract.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type User struct {
	ID          int64     `json:"userId"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Account is the write model for a bank account. OwnerID is the foreign key
// to the owning user; transactions reference the account the same way, never
// as live back-pointers.
type Account struct {
	ID            int64           `json:"accountId"`
	Name          string          `json:"accountName"`
	Type          string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	AccountNumber string          `json:"accountNumber"`
	OwnerID       int64           `json:"userId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
)

// ParseTransactionType accepts the wire value case-insensitively.
func ParseTransactionType(value string) (TransactionType, error) {
	switch strings.ToUpper(value) {
	case string(TransactionDeposit):
		return TransactionDeposit, nil
	case string(TransactionWithdrawal):
		return TransactionWithdrawal, nil
	}
	return "", fmt.Errorf("invalid transaction type: %s", value)
}

// Transaction records a single applied balance change. Amount is a magnitude;
// the sign is implied by Type. BalanceAfter is the permanent snapshot of the
// account balance immediately after the transaction was applied.
type Transaction struct {
	ID              int64           `json:"transactionId"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"transactionType"`
	Description     string          `json:"description,omitempty"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	TransactionDate time.Time       `json:"transactionDate"`
	AccountID       int64           `json:"accountId"`
}

// UserPatch carries the fields of a partial user update. A nil field means
// "leave unchanged", never "clear".
type UserPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Address     *string
}

// AccountPatch carries the fields of a partial account update. Balance and
// account number are never patchable.
type AccountPatch struct {
	Name *string
	Type *string
}
