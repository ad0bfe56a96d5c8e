package service

import (
	"context" // Context for outbound calls
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Error aggregation
	"sync"    // Fork/join of the account steps
	"time"    // Link timestamps

	"echo_bank/internal/auth"   // Credential verification
	"echo_bank/internal/domain" // Domain models and errors
	"echo_bank/internal/nessie" // Nessie payloads
	"echo_bank/internal/store"  // Document store
	"echo_bank/internal/utils"  // Cache keys

	"github.com/sirupsen/logrus" // Logging library
)

// LinkRequest is the body of POST /nessie/link-user.
type LinkRequest struct {
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Address   *nessie.Address `json:"address"`
}

// LinkResult is returned once the customer and both accounts exist.
type LinkResult struct {
	CustomerID string           `json:"customerId"`
	Accounts   []domain.Account `json:"accounts"`
}

// Onboarding links an authenticated user to a new Nessie customer with a
// checking and a savings account.
type Onboarding struct {
	verifier auth.Verifier
	bank     BankingAPI
	docs     store.DocumentStore
	cache    Cache
	guard    bool
	now      func() time.Time
}

// NewOnboarding wires the workflow. With guard set, users that already carry a
// Nessie customer id are refused with domain.ErrAlreadyLinked instead of
// getting a second customer.
func NewOnboarding(verifier auth.Verifier, bank BankingAPI, docs store.DocumentStore, cache Cache, guard bool) *Onboarding {
	return &Onboarding{
		verifier: verifier,
		bank:     bank,
		docs:     docs,
		cache:    orNoCache(cache),
		guard:    guard,
		now:      time.Now,
	}
}

// LinkUser runs the onboarding workflow. Nothing is retried and nothing is
// rolled back: a failure after the customer linkage was written leaves the
// user linked but without accounts, and calling LinkUser again creates a new
// customer.
func (o *Onboarding) LinkUser(ctx context.Context, credential string, req LinkRequest) (*LinkResult, error) {
	if credential == "" {
		return nil, domain.ErrUnauthorized
	}
	uid, err := o.verifier.Verify(ctx, credential) // Resolve the user before any other work
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthorized) {
			err = fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return nil, err
	}
	// Caller cancellation does not stop the workflow; timeouts come from the HTTP and DB clients.
	ctx = context.WithoutCancel(ctx)
	log := logrus.WithField("user_id", uid) // Every log line carries the user

	if o.guard {
		if err := o.checkNotLinked(ctx, uid); err != nil {
			return nil, err
		}
	}

	custReq := nessie.CustomerRequest{FirstName: req.FirstName, LastName: req.LastName, Address: req.Address}
	if custReq.Address == nil {
		addr := nessie.DefaultAddress()
		custReq.Address = &addr
	}
	customer, err := o.bank.CreateCustomer(ctx, custReq) // Create the Nessie customer
	if err != nil {
		log.WithError(err).Error("Nessie customer creation failed")
		return nil, &domain.LinkError{Msg: "Nessie customer creation failed", Err: err}
	}
	if customer == nil || customer.ID == "" {
		log.Error("Nessie customer response has no _id")
		return nil, &domain.LinkError{Msg: "invalid customer response", Err: &domain.ValidationError{Msg: "Nessie customer response has no _id"}}
	}
	log = log.WithField("customer_id", customer.ID)

	linkedAt := o.now().UTC()
	linkage := store.Fields{
		"nessieCustomerId": customer.ID,  // External customer id
		"nessieData":       customer.Raw, // Raw customer payload
		"hasNessieAccess":  true,         // Linked flag
		"nessieLinkedAt":   linkedAt,     // Link time
	}
	if err := o.docs.Write(ctx, store.UserDoc(uid), linkage, true); err != nil { // Merge, keep profile fields
		log.WithError(err).Error("Failed to store customer linkage")
		return nil, &domain.LinkError{Msg: "failed to store customer linkage", Err: err}
	}

	checking, savings := domain.DefaultAccounts()
	planned := []domain.Account{checking, savings}

	created, err := o.createAccounts(ctx, customer.ID, planned) // Both accounts at once
	if err != nil {
		log.WithError(err).Error("Nessie account creation failed")
		return nil, &domain.LinkError{Msg: "error creating accounts", Err: err}
	}
	for _, acc := range created {
		if acc == nil || acc.ID == "" {
			log.Error("Nessie account response has no _id")
			return nil, &domain.LinkError{Msg: "invalid account response", Err: &domain.ValidationError{Msg: "Nessie account response has no _id"}}
		}
	}

	accounts := make([]domain.Account, len(planned))
	for i, acc := range planned {
		acc.ID = created[i].ID          // Keyed by the external id
		acc.NessieData = created[i].Raw // Raw account payload
		acc.LinkedAt = &linkedAt        // Link time
		accounts[i] = acc
	}
	if err := o.storeAccounts(ctx, uid, accounts); err != nil {
		log.WithError(err).Error("Failed to store accounts")
		return nil, &domain.LinkError{Msg: "error storing account data", Err: err}
	}

	if err := o.cache.Delete(ctx, utils.AccountsKey(uid)); err != nil {
		log.WithError(err).Warn("Failed to invalidate accounts cache")
	}

	log.WithFields(logrus.Fields{
		"checking_id": accounts[0].ID,
		"savings_id":  accounts[1].ID,
		"timestamp":   linkedAt.Format(time.RFC3339),
	}).Info("User linked with Nessie")

	return &LinkResult{CustomerID: customer.ID, Accounts: accounts}, nil
}

func (o *Onboarding) checkNotLinked(ctx context.Context, uid string) error {
	fields, err := o.docs.Read(ctx, store.UserDoc(uid))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return &domain.LinkError{Msg: "failed to read user", Err: err}
	}
	var u domain.User
	if err := store.Decode(fields, &u); err != nil {
		return &domain.LinkError{Msg: "failed to decode user", Err: err}
	}
	if u.Linked() {
		return domain.ErrAlreadyLinked
	}
	return nil
}

// createAccounts opens every account concurrently and waits for all of them.
func (o *Onboarding) createAccounts(ctx context.Context, customerID string, planned []domain.Account) ([]*nessie.Account, error) {
	results := make([]*nessie.Account, len(planned))
	errs := make([]error, len(planned))

	var wg sync.WaitGroup
	for i, acc := range planned {
		wg.Go(func() {
			results[i], errs[i] = o.bank.CreateAccount(ctx, customerID, nessie.AccountRequest{
				Type:     string(acc.Type),
				Nickname: acc.Nickname,
				Rewards:  acc.Rewards,
				Balance:  acc.Balance.IntPart(), // Nessie balances are whole units
			})
		})
	}
	wg.Wait() // Wait for both branches, even when one failed

	var failed branchErrors
	for i, err := range errs {
		if err != nil {
			failed = append(failed, fmt.Errorf("%s account error: %w", planned[i].Type, err))
		}
	}
	if len(failed) > 0 {
		return nil, failed
	}
	return results, nil
}

// storeAccounts writes one child document per account, concurrently.
func (o *Onboarding) storeAccounts(ctx context.Context, uid string, accounts []domain.Account) error {
	errs := make([]error, len(accounts))

	var wg sync.WaitGroup
	for i, acc := range accounts {
		wg.Go(func() {
			fields, err := store.Encode(acc)
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = o.docs.Write(ctx, store.AccountDoc(uid, acc.ID), fields, false) // Full overwrite
		})
	}
	wg.Wait()

	var failed branchErrors
	for i, err := range errs {
		if err != nil {
			failed = append(failed, fmt.Errorf("account %s: %w", accounts[i].ID, err))
		}
	}
	if len(failed) > 0 {
		return failed
	}
	return nil
}

// branchErrors collects the failures of a fork/join step.
type branchErrors []error

func (b branchErrors) Error() string {
	msgs := make([]string, len(b))
	for i, err := range b {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (b branchErrors) Unwrap() []error { return b }
