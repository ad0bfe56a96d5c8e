package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction Model, stored at users/{userId}/accounts/{accountId}/transactions/{id}
type Transaction struct {
	ID          string          `json:"-"`           // Document id
	Amount      decimal.Decimal `json:"amount"`      // Signed amount, negative for debits
	Description string          `json:"description"` // Merchant or memo
	Category    string          `json:"category"`    // Food, Income, Transfer...
	Date        time.Time       `json:"date"`        // Booking date
	Balance     decimal.Decimal `json:"balance"`     // Running balance after the transaction
}
