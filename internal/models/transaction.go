package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	ID          string          `json:"id"`          // Primary Key, natural key from the source file
	ClientID    string          `json:"clientID"`    // Not Null
	Transaction string          `json:"transaction"` // 'D' or 'W'
	Amount      decimal.Decimal `json:"amount"`      // NUMERIC, sign preserved
	Date        time.Time       `json:"date"`        // DATE
	Status      string          `json:"status"`      // Pending, Completed or Failed
	UpdatedAt   time.Time       `json:"updatedAt"`   // set by the database on every upsert
}
