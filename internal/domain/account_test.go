package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountBalanceMarshalsAsNumber(t *testing.T) {
	checking, _ := DefaultAccounts()
	checking.ID = "a1"

	raw, err := json.Marshal(checking)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"balance":5000`)

	var back Account
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Balance.Equal(decimal.NewFromInt(5000)))
}

func TestTransactionAmountMarshalsAsNumber(t *testing.T) {
	tx := Transaction{Amount: decimal.RequireFromString("-120.50"), Balance: decimal.RequireFromString("4879.50")}

	raw, err := json.Marshal(tx)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount":-120.5`)
	assert.Contains(t, string(raw), `"balance":4879.5`)
}
