package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"echo_bank/internal/domain"
	"echo_bank/internal/nessie"
	"echo_bank/internal/store"
)

// --- helpers ---

type fakeVerifier struct {
	tokens map[string]string
}

func (f *fakeVerifier) Verify(_ context.Context, credential string) (string, error) {
	uid, ok := f.tokens[credential]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return uid, nil
}

type fakeBank struct {
	mu sync.Mutex

	customer    *nessie.Customer
	customerErr error
	accounts    map[string]*nessie.Account // by account type
	accountErrs map[string]error           // by account type

	customerReqs []nessie.CustomerRequest
	accountReqs  []nessie.AccountRequest
	calls        atomic.Int32

	accountGate *gate // holds CreateAccount until every expected call arrived
}

func (f *fakeBank) CreateCustomer(_ context.Context, req nessie.CustomerRequest) (*nessie.Customer, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.customerReqs = append(f.customerReqs, req)
	f.mu.Unlock()
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	if f.customer == nil {
		return nil, nil
	}
	// echo the request into the payload like the live API does
	raw := map[string]any{"_id": f.customer.ID, "first_name": req.FirstName, "last_name": req.LastName}
	if req.Address != nil {
		raw["address"] = map[string]any{
			"street_number": req.Address.StreetNumber,
			"street_name":   req.Address.StreetName,
			"city":          req.Address.City,
			"state":         req.Address.State,
			"zip":           req.Address.Zip,
		}
	}
	return &nessie.Customer{ID: f.customer.ID, Raw: raw}, nil
}

func (f *fakeBank) CreateAccount(_ context.Context, customerID string, req nessie.AccountRequest) (*nessie.Account, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.accountReqs = append(f.accountReqs, req)
	f.mu.Unlock()
	if f.accountGate != nil {
		f.accountGate.arrive()
	}
	if err := f.accountErrs[req.Type]; err != nil {
		return nil, err
	}
	acc := f.accounts[req.Type]
	if acc == nil {
		return &nessie.Account{}, nil
	}
	return &nessie.Account{ID: acc.ID, Raw: map[string]any{"_id": acc.ID, "customer_id": customerID, "balance": req.Balance}}, nil
}

// recordingStore counts writes and can fail writes to chosen paths.
type recordingStore struct {
	*store.MemoryStore
	writes atomic.Int32
	failOn map[string]error

	gatePrefix string // writes under this prefix pass through gate
	gate       *gate
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: store.NewMemoryStore()}
}

func (r *recordingStore) Write(ctx context.Context, path string, fields store.Fields, merge bool) error {
	if r.gate != nil && strings.HasPrefix(path, r.gatePrefix) {
		r.gate.arrive()
	}
	if err, ok := r.failOn[path]; ok {
		return err
	}
	r.writes.Add(1)
	return r.MemoryStore.Write(ctx, path, fields, merge)
}

// gate blocks each caller until n callers are inside at once. A caller that
// waits longer than the timeout gives up and marks the gate as missed, which
// is what a sequential caller does.
type gate struct {
	n       int32
	arrived atomic.Int32
	open    chan struct{}
	once    sync.Once
	timeout time.Duration
	missed  atomic.Bool
}

func newGate(n int32) *gate {
	return &gate{n: n, open: make(chan struct{}), timeout: 2 * time.Second}
}

func (g *gate) arrive() {
	if g.arrived.Add(1) >= g.n {
		g.once.Do(func() { close(g.open) })
	}
	select {
	case <-g.open:
	case <-time.After(g.timeout):
		g.missed.Store(true)
	}
}

var errBoom = errors.New("boom")
