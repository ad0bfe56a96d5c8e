// Package service holds the request-level workflows behind the HTTP handlers.
package service

import (
	"context" // Context for outbound calls

	"echo_bank/internal/nessie" // Nessie request/response types
)

// BankingAPI is the part of the Nessie client the onboarding workflow uses.
type BankingAPI interface {
	CreateCustomer(ctx context.Context, req nessie.CustomerRequest) (*nessie.Customer, error)
	CreateAccount(ctx context.Context, customerID string, req nessie.AccountRequest) (*nessie.Account, error)
}

// Cache is satisfied by *utils.Cache.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// noCache stands in when no Redis is configured
type noCache struct{}

func (noCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noCache) Set(context.Context, string, any) error         { return nil }
func (noCache) Delete(context.Context, ...string) error        { return nil }
func (noCache) DeletePrefix(context.Context, string) error     { return nil }

func orNoCache(c Cache) Cache {
	if c == nil {
		return noCache{}
	}
	return c
}
