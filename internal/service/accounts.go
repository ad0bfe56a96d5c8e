package service

import (
	"context" // Context for store calls
	"errors"  // Error matching
	"fmt"     // Error wrapping and ids
	"sort"    // Transaction ordering
	"time"    // Timestamps

	"echo_bank/internal/domain" // Domain models
	"echo_bank/internal/store"  // Document store
	"echo_bank/internal/utils"  // Cache keys

	"github.com/shopspring/decimal" // Money amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// AccountEntry is one account as listed to its owner: the document id plus
// every stored field.
type AccountEntry map[string]any

// TransactionEntry is one transaction of an account.
type TransactionEntry struct {
	ID string `json:"id"`
	domain.Transaction
}

// Accounts serves the account documents stored under a user.
type Accounts struct {
	docs  store.DocumentStore
	cache Cache
	now   func() time.Time
}

func NewAccounts(docs store.DocumentStore, cache Cache) *Accounts {
	return &Accounts{docs: docs, cache: orNoCache(cache), now: time.Now}
}

// List returns the user's accounts. The second result reports a cache hit.
func (a *Accounts) List(ctx context.Context, uid string) ([]AccountEntry, bool, error) {
	key := utils.AccountsKey(uid) // Per-user cache key
	var cached []AccountEntry
	if found, err := a.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, true, nil // Served from cache
	} else if err != nil {
		logrus.WithError(err).WithField("user_id", uid).Warn("Accounts cache read failed")
	}

	docs, err := a.docs.ScanCollection(ctx, store.AccountsCollection(uid))
	if err != nil {
		return nil, false, fmt.Errorf("list accounts: %w", err)
	}
	out := make([]AccountEntry, 0, len(docs))
	for _, d := range docs {
		entry := AccountEntry{"id": d.ID} // Document id first, then the stored fields
		for k, v := range d.Fields {
			entry[k] = v
		}
		out = append(out, entry)
	}

	if err := a.cache.Set(ctx, key, out); err != nil {
		logrus.WithError(err).WithField("user_id", uid).Warn("Accounts cache write failed")
	}
	return out, false, nil
}

type mockTransaction struct {
	account     string
	amount      decimal.Decimal
	description string
	category    string
	opening     decimal.Decimal
}

// CreateMock writes a checking and a savings account with a few seeded
// transactions, without going through Nessie.
func (a *Accounts) CreateMock(ctx context.Context, uid string) ([]domain.Account, error) {
	now := a.now().UTC()
	stamp := now.UnixMilli() // Makes the mock ids unique per call

	checking, savings := domain.DefaultAccounts()
	checking.ID = fmt.Sprintf("checking-%d", stamp)
	savings.ID = fmt.Sprintf("savings-%d", stamp)
	checking.CreatedAt = &now
	savings.CreatedAt = &now

	for _, acc := range []domain.Account{checking, savings} {
		fields, err := store.Encode(acc)
		if err != nil {
			return nil, err
		}
		if err := a.docs.Write(ctx, store.AccountDoc(uid, acc.ID), fields, false); err != nil {
			return nil, fmt.Errorf("store mock account %s: %w", acc.ID, err)
		}
	}

	seeds := []mockTransaction{
		{checking.ID, decimal.RequireFromString("-120.50"), "Grocery Shopping", "Food", checking.Balance},
		{checking.ID, decimal.NewFromInt(1200), "Paycheck Deposit", "Income", checking.Balance},
		{savings.ID, decimal.NewFromInt(500), "Savings Transfer", "Transfer", savings.Balance},
	}
	for i, s := range seeds {
		tx := domain.Transaction{
			Amount:      s.amount,
			Description: s.description,
			Category:    s.category,
			Date:        now,
			Balance:     s.opening.Add(s.amount), // Running balance after this transaction
		}
		fields, err := store.Encode(tx)
		if err != nil {
			return nil, err
		}
		txID := fmt.Sprintf("tx-%d-%d", stamp, i+1)
		if err := a.docs.Write(ctx, store.TransactionDoc(uid, s.account, txID), fields, false); err != nil {
			return nil, fmt.Errorf("store mock transaction %s: %w", txID, err)
		}
	}

	if err := a.cache.Delete(ctx, utils.AccountsKey(uid)); err != nil {
		logrus.WithError(err).WithField("user_id", uid).Warn("Failed to invalidate accounts cache")
	}
	logrus.WithFields(logrus.Fields{
		"user_id":     uid,
		"checking_id": checking.ID,
		"savings_id":  savings.ID,
	}).Info("Mock accounts created")

	return []domain.Account{checking, savings}, nil
}

// Transactions lists an account's transactions, newest first.
func (a *Accounts) Transactions(ctx context.Context, uid, accountID string) ([]TransactionEntry, error) {
	if _, err := a.docs.Read(ctx, store.AccountDoc(uid, accountID)); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidPath) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	docs, err := a.docs.ScanCollection(ctx, store.TransactionsCollection(uid, accountID))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]TransactionEntry, 0, len(docs))
	for _, d := range docs {
		var tx domain.Transaction
		if err := store.Decode(d.Fields, &tx); err != nil {
			return nil, fmt.Errorf("decode transaction %s: %w", d.ID, err)
		}
		tx.ID = d.ID
		out = append(out, TransactionEntry{ID: d.ID, Transaction: tx})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) }) // Newest first
	return out, nil
}
