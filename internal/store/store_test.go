package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDocPath(t *testing.T) {
	coll, id, err := SplitDocPath("users/u1/accounts/a1")
	require.NoError(t, err)
	assert.Equal(t, "users/u1/accounts", coll)
	assert.Equal(t, "a1", id)

	for _, bad := range []string{"", "users", "users/u1/accounts", "users//x", "/u1"} {
		_, _, err := SplitDocPath(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}
}

func TestCheckCollectionPath(t *testing.T) {
	assert.NoError(t, CheckCollectionPath("users"))
	assert.NoError(t, CheckCollectionPath("users/u1/accounts"))
	assert.ErrorIs(t, CheckCollectionPath("users/u1"), ErrInvalidPath)
	assert.ErrorIs(t, CheckCollectionPath(""), ErrInvalidPath)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "users/u1", UserDoc("u1"))
	assert.Equal(t, "users/u1/accounts/a1", AccountDoc("u1", "a1"))
	assert.Equal(t, "users/u1/accounts/a1/transactions/t1", TransactionDoc("u1", "a1", "t1"))
	assert.Equal(t, "emails/a%2Fb@x.io", EmailDoc("A/B@x.io"))
}

func TestMerge_KeepsAbsentFieldsAndMergesMaps(t *testing.T) {
	dst := Fields{
		"email": "a@x.io",
		"nessieData": map[string]any{
			"_id":     "c0",
			"address": map[string]any{"city": "Anytown", "zip": "12345"},
		},
	}
	src := Fields{
		"hasNessieAccess": true,
		"nessieData": map[string]any{
			"_id":     "c1",
			"address": map[string]any{"zip": "99999"},
		},
	}

	got := Merge(dst, src)

	assert.Equal(t, "a@x.io", got["email"])
	assert.Equal(t, true, got["hasNessieAccess"])
	nd := got["nessieData"].(map[string]any)
	assert.Equal(t, "c1", nd["_id"])
	addr := nd["address"].(map[string]any)
	assert.Equal(t, "Anytown", addr["city"])
	assert.Equal(t, "99999", addr["zip"])

	// inputs are left alone
	assert.Equal(t, "c0", dst["nessieData"].(map[string]any)["_id"])
}

func TestMerge_ScalarReplacesMap(t *testing.T) {
	got := Merge(Fields{"x": map[string]any{"a": 1}}, Fields{"x": "flat"})
	assert.Equal(t, "flat", got["x"])
}

func TestEncodeDecode_PreservesNumbers(t *testing.T) {
	type doc struct {
		Name    string  `json:"name"`
		Balance float64 `json:"balance"`
	}
	f, err := Encode(doc{Name: "n", Balance: 10000.25})
	require.NoError(t, err)
	assert.Equal(t, json.Number("10000.25"), f["balance"])

	var back doc
	require.NoError(t, Decode(f, &back))
	assert.Equal(t, doc{Name: "n", Balance: 10000.25}, back)
}
