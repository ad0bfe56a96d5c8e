package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Balances and amounts are JSON numbers in documents and responses
	decimal.MarshalJSONWithoutQuotes = true
}

// AccountType is the Nessie account type
type AccountType string

const (
	AccountChecking AccountType = "Checking"
	AccountSavings  AccountType = "Savings"
)

// Account Model, stored at users/{userId}/accounts/{id}
type Account struct {
	ID         string          `json:"_id"`                  // External (Nessie) account id
	Type       AccountType     `json:"type"`                 // Checking or Savings
	Nickname   string          `json:"nickname"`             // Display name
	Rewards    int             `json:"rewards"`              // Reward counter
	Balance    decimal.Decimal `json:"balance"`              // Current balance
	NessieData map[string]any  `json:"nessieData,omitempty"` // Raw Nessie payload
	LinkedAt   *time.Time      `json:"linkedAt,omitempty"`   // Set when linked through Nessie
	CreatedAt  *time.Time      `json:"createdAt,omitempty"`  // Set for locally created mock accounts
}

// DefaultAccounts returns the two accounts opened for every linked customer
func DefaultAccounts() (checking, savings Account) {
	checking = Account{
		Type:     AccountChecking,
		Nickname: "Everyday Checking",
		Rewards:  0,
		Balance:  decimal.NewFromInt(5000),
	}
	savings = Account{
		Type:     AccountSavings,
		Nickname: "Emergency Fund",
		Rewards:  0,
		Balance:  decimal.NewFromInt(10000),
	}
	return checking, savings
}
