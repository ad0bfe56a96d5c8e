// Package nessie talks to the Capital One Nessie mock-banking API.
package nessie

import (
	"bytes"         // Request bodies
	"context"       // Context for requests
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Error wrapping
	"io"            // Response reading
	"net/http"      // HTTP client
	"net/url"       // URL building

	"echo_bank/internal/domain" // Domain errors

	"github.com/sirupsen/logrus" // Logging library
)

const serviceName = "Nessie"

// Client issues JSON requests against the Nessie API. The API key travels in
// the ?key= query parameter.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client. httpClient may be nil, in which case
// http.DefaultClient is used.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, http: httpClient}
}

// CreateCustomer creates a customer. A nil address is replaced by DefaultAddress.
func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	if req.Address == nil {
		addr := DefaultAddress()
		req.Address = &addr
	}
	raw, err := c.post(ctx, req, "customers")
	if err != nil {
		return nil, err
	}
	return &Customer{ID: idOf(raw), Raw: raw}, nil
}

// CreateAccount opens an account under an existing customer.
func (c *Client) CreateAccount(ctx context.Context, customerID string, req AccountRequest) (*Account, error) {
	raw, err := c.post(ctx, req, "customers", customerID, "accounts")
	if err != nil {
		return nil, err
	}
	return &Account{ID: idOf(raw), Raw: raw}, nil
}

func (c *Client) post(ctx context.Context, body any, elem ...string) (map[string]any, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse nessie base url: %w", err)
	}
	u = u.JoinPath(elem...) // Append the resource path
	q := u.Query()
	q.Set("key", c.apiKey) // API key goes in the query string
	u.RawQuery = q.Encode()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json") // JSON body

	resp, err := c.http.Do(req) // Send the request
	if err != nil {
		return nil, fmt.Errorf("nessie request %s: %w", u.Path, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logrus.WithError(err).Warn("error while closing nessie response body")
		}
	}(resp.Body)

	respBody, err := io.ReadAll(resp.Body) // Read the whole response
	if err != nil {
		return nil, fmt.Errorf("read nessie response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ExternalAPIError{Service: serviceName, Status: resp.StatusCode, Body: string(respBody)} // Non-2xx
	}

	var out map[string]any
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, &domain.ValidationError{Msg: "malformed Nessie response: " + err.Error()}
	}
	// The live API wraps created objects as {code, message, objectCreated}.
	if created, ok := out["objectCreated"].(map[string]any); ok {
		return created, nil
	}
	return out, nil
}

func idOf(raw map[string]any) string {
	id, _ := raw["_id"].(string)
	return id
}
