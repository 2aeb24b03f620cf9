package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind indicates whether a transaction is a Deposit or a Withdrawal.
type TransactionKind string

const (
	Deposit    TransactionKind = "D"
	Withdrawal TransactionKind = "W"
)

// ParseTransactionKind accepts the source codes "D" and "W" (case-insensitive).
func ParseTransactionKind(code string) (TransactionKind, bool) {
	switch TransactionKind(strings.ToUpper(code)) {
	case Deposit:
		return Deposit, true
	case Withdrawal:
		return Withdrawal, true
	default:
		return "", false
	}
}

// TransactionStatus is the settlement state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "Pending"
	StatusCompleted TransactionStatus = "Completed"
	StatusFailed    TransactionStatus = "Failed"
)

// NormalizeStatus maps free-form status text onto a TransactionStatus by
// case-insensitive prefix. Unrecognized values fall back to StatusPending.
func NormalizeStatus(raw string) TransactionStatus {
	s := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(s, "comp"):
		return StatusCompleted
	case strings.HasPrefix(s, "pend"):
		return StatusPending
	case strings.HasPrefix(s, "fail"):
		return StatusFailed
	default:
		return StatusPending
	}
}

// TransactionRecord is one normalized row of an incoming transaction file.
// ID is the natural key: a later record with the same ID overwrites every other field.
type TransactionRecord struct {
	ID       string            `json:"id"`
	ClientID string            `json:"clientId"`
	Kind     TransactionKind   `json:"kind"`
	Amount   decimal.Decimal   `json:"amount"` // sign preserved
	Date     time.Time         `json:"date"`   // calendar date, UTC midnight
	Status   TransactionStatus `json:"status"`
}
