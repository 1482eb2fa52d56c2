package odoo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
fakeOdoo answers /jsonrpc like a real instance: uid for authenticate, canned
rows for execute_kw, recording each decoded request for inspection.
*/
type fakeOdoo struct {
	server   *httptest.Server
	uid      any
	rows     []map[string]any
	requests []map[string]any
}

func newFakeOdoo(t *testing.T) *fakeOdoo {
	t.Helper()
	fake := &fakeOdoo{uid: 7}

	fake.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		// assert, not require: FailNow must not run outside the test goroutine
		assert.Equal(t, "/jsonrpc", request.URL.Path)

		decoded := map[string]any{}
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&decoded))
		fake.requests = append(fake.requests, decoded)

		params, _ := decoded["params"].(map[string]any)
		var result any = fake.uid
		if params["service"] == "object" {
			result = fake.rows
		}

		writer.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(writer).Encode(map[string]any{
			"jsonrpc": "2.0", "id": decoded["id"], "result": result,
		}))
	}))
	t.Cleanup(fake.server.Close)

	return fake
}

func (fake *fakeOdoo) params(index int) map[string]any {
	return fake.requests[index]["params"].(map[string]any)
}

func TestAuthenticate(t *testing.T) {
	fake := newFakeOdoo(t)
	client := NewClient(fake.server.URL, "temponovo", "bot", "secret")

	e := client.Authenticate()
	require.Nil(t, e)
	assert.Equal(t, 7, client.uid)

	params := fake.params(0)
	assert.Equal(t, "common", params["service"])
	assert.Equal(t, "authenticate", params["method"])
	args := params["args"].([]any)
	assert.Equal(t, "temponovo", args[0])
	assert.Equal(t, "bot", args[1])
	assert.Equal(t, "secret", args[2])
}

func TestAuthenticateBadCredentials(t *testing.T) {
	fake := newFakeOdoo(t)
	// Odoo answers false, not an error object, for a bad login.
	fake.uid = false
	client := NewClient(fake.server.URL, "temponovo", "bot", "wrong")

	e := client.Authenticate()
	assert.NotNil(t, e)
}

func TestSearchRead(t *testing.T) {
	fake := newFakeOdoo(t)
	fake.rows = []map[string]any{
		{"id": 41, "name": "S00341", "partner_id": []any{7, "Comercial Andes SpA"}},
	}
	client := NewClient(fake.server.URL, "temponovo", "bot", "secret")
	require.Nil(t, client.Authenticate())

	records, e := client.SearchRead(
		"sale.order",
		[]Filter{{Field: "state", Op: "=", Value: "sale"}},
		[]string{"id", "name", "partner_id"},
		0,
	)
	require.Nil(t, e)

	require.Len(t, records, 1)
	assert.Equal(t, "S00341", records[0].Str("name"))
	assert.Equal(t, "Comercial Andes SpA", records[0].Ref("partner_id").Name)

	params := fake.params(1)
	assert.Equal(t, "object", params["service"])
	assert.Equal(t, "execute_kw", params["method"])
	args := params["args"].([]any)
	assert.Equal(t, "sale.order", args[3])
	assert.Equal(t, "search_read", args[4])
	// The domain travels as [field, op, value] triples.
	domain := args[5].([]any)[0].([]any)
	assert.Equal(t, []any{"state", "=", "sale"}, domain[0])
	// The default row cap applies when no limit is given.
	options := args[6].(map[string]any)
	assert.Equal(t, 1000.0, options["limit"])
}

func TestSearchReadRequiresAuthentication(t *testing.T) {
	fake := newFakeOdoo(t)
	client := NewClient(fake.server.URL, "temponovo", "bot", "secret")

	_, e := client.SearchRead("sale.order", nil, []string{"id"}, 0)
	assert.NotNil(t, e)
	assert.Empty(t, fake.requests)
}

func TestCallSurfacesRPCFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":200,"message":"Odoo Server Error"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "temponovo", "bot", "secret")
	e := client.Authenticate()
	assert.NotNil(t, e)
}
