// Package plaid creates Link tokens through the official Plaid SDK.
package plaid

import (
	"context"  // Context for API calls
	"errors"   // Error matching
	"fmt"      // Error wrapping
	"net/http" // HTTP client injection
	"strings"  // URL detection
	"time"     // Expiration formatting

	"echo_bank/internal/domain" // Domain errors

	plaidapi "github.com/plaid/plaid-go/v29/plaid" // Plaid SDK
)

const serviceName = "Plaid"

// Environments maps PLAID_ENV values to API hosts.
var Environments = map[string]plaidapi.Environment{
	"sandbox":     plaidapi.Sandbox,
	"development": plaidapi.Environment("https://development.plaid.com"),
	"production":  plaidapi.Production,
}

// Client wraps the SDK client for one environment.
type Client struct {
	env plaidapi.Environment
	api *plaidapi.APIClient
}

// NewClient builds a client for env, which is either a key of Environments or a full URL.
func NewClient(env, clientID, secret string, httpClient *http.Client) (*Client, error) {
	server, ok := Environments[env]
	if !ok {
		if !strings.HasPrefix(env, "http://") && !strings.HasPrefix(env, "https://") {
			return nil, fmt.Errorf("unknown plaid environment %q", env)
		}
		server = plaidapi.Environment(strings.TrimRight(env, "/")) // Custom host, used by tests
	}
	cfg := plaidapi.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID) // Credentials travel as headers
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	cfg.UseEnvironment(server)
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &Client{env: server, api: plaidapi.NewAPIClient(cfg)}, nil
}

// LinkToken is the answer of /link/token/create.
type LinkToken struct {
	LinkToken  string `json:"link_token"`
	Expiration string `json:"expiration"`
	RequestID  string `json:"request_id"`
}

// CreateLinkToken asks Plaid for a Link token bound to clientUserID.
func (c *Client) CreateLinkToken(ctx context.Context, clientUserID string) (*LinkToken, error) {
	user := plaidapi.LinkTokenCreateRequestUser{ClientUserId: clientUserID}
	req := plaidapi.NewLinkTokenCreateRequest("Echo Bank", "en", []plaidapi.CountryCode{plaidapi.COUNTRYCODE_US}, user)
	req.SetProducts([]plaidapi.Products{plaidapi.PRODUCTS_AUTH, plaidapi.PRODUCTS_TRANSACTIONS})

	resp, httpResp, err := c.api.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*req).Execute()
	if err != nil {
		if httpResp == nil {
			return nil, fmt.Errorf("plaid link token request: %w", err) // Transport failure
		}
		body := err.Error()
		var apiErr plaidapi.GenericOpenAPIError
		if errors.As(err, &apiErr) && len(apiErr.Body()) > 0 {
			body = string(apiErr.Body()) // Plaid's error object
		}
		if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
			return nil, &domain.ExternalAPIError{Service: serviceName, Status: httpResp.StatusCode, Body: body}
		}
		return nil, &domain.ValidationError{Msg: "malformed Plaid response: " + body}
	}
	if resp.GetLinkToken() == "" {
		return nil, &domain.ValidationError{Msg: "Plaid response carries no link_token"}
	}

	out := &LinkToken{LinkToken: resp.GetLinkToken(), RequestID: resp.GetRequestId()}
	if exp := resp.GetExpiration(); !exp.IsZero() {
		out.Expiration = exp.UTC().Format(time.RFC3339)
	}
	return out, nil
}
