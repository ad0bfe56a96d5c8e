package nessie

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"echo_bank/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomer_DefaultAddress(t *testing.T) {
	var gotBody CustomerRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/customers", r.URL.Path)
		assert.Equal(t, "k1", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id":"c1","first_name":"Test"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/", "k1", srv.Client())
	cust, err := c.CreateCustomer(context.Background(), CustomerRequest{FirstName: "Test", LastName: "User"})
	require.NoError(t, err)

	assert.Equal(t, "c1", cust.ID)
	assert.Equal(t, "Test", cust.Raw["first_name"])
	require.NotNil(t, gotBody.Address)
	assert.Equal(t, DefaultAddress(), *gotBody.Address)
	assert.Equal(t, "User", gotBody.LastName)
}

func TestCreateCustomer_UnwrapsObjectCreated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"code":201,"message":"Customer created","objectCreated":{"_id":"c9"}}`)
	}))
	defer srv.Close()

	cust, err := NewClient(srv.URL, "k", nil).CreateCustomer(context.Background(), CustomerRequest{})
	require.NoError(t, err)
	assert.Equal(t, "c9", cust.ID)
}

func TestCreateCustomer_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `bad key`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", nil).CreateCustomer(context.Background(), CustomerRequest{})
	var apiErr *domain.ExternalAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "bad key", apiErr.Body)
}

func TestCreateCustomer_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"first_name":"x"}`)
	}))
	defer srv.Close()

	cust, err := NewClient(srv.URL, "k", nil).CreateCustomer(context.Background(), CustomerRequest{})
	require.NoError(t, err)
	assert.Empty(t, cust.ID)
}

func TestCreateCustomer_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", nil).CreateCustomer(context.Background(), CustomerRequest{})
	var vErr *domain.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestCreateAccount(t *testing.T) {
	var gotBody AccountRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers/c1/accounts", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, `{"_id":"a1","balance":5000}`)
	}))
	defer srv.Close()

	acc, err := NewClient(srv.URL+"/", "k", nil).CreateAccount(context.Background(), "c1", AccountRequest{
		Type: "Checking", Nickname: "Everyday Checking", Balance: 5000,
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", acc.ID)
	assert.Equal(t, AccountRequest{Type: "Checking", Nickname: "Everyday Checking", Balance: 5000}, gotBody)
}
