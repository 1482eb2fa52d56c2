package odoo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	"golang.org/x/time/rate"
)

/*
Filter is one search predicate: (field, operator, value). A domain is a list
of filters combined with an implicit AND, serialized as JSON triples.
*/
type Filter struct {
	Field string
	Op    string
	Value any
}

// MarshalJSON serializes the filter as the [field, op, value] triple Odoo expects.
func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{f.Field, f.Op, f.Value})
}

/*
Client talks JSON-RPC to an Odoo instance. It holds the authenticated uid
after Authenticate and paces its requests with a client-side limiter so a
report run never hammers the ERP.

There is no retry here: a transport failure aborts the run and the outer
scheduler retries the whole job.
*/
type Client struct {
	http     *resty.Client
	limiter  *rate.Limiter
	database string
	user     string
	password string
	uid      int
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var requestCounter atomic.Int64

/*
NewClient builds a client for the given endpoint. Nothing is sent until
Authenticate.
*/
func NewClient(baseURL string, database string, user string, password string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(5), 5),
		database: database,
		user:     user,
		password: password,
	}
}

/*
Authenticate performs the session handshake against the "common" service.
Odoo answers false (not an error object) for bad credentials, so a non-
positive uid is treated as an authentication failure.
*/
func (client *Client) Authenticate() (e *xerr.Error) {
	raw, e := client.call("common", "authenticate", []any{client.database, client.user, client.password, map[string]any{}})
	if e != nil {
		return e
	}

	uid := 0
	if unmarshalErr := json.Unmarshal(raw, &uid); unmarshalErr != nil || uid <= 0 {
		e = xerr.NewError(fmt.Errorf("authentication returned no uid"), "authenticate against Odoo", client.user)
		return e
	}

	client.uid = uid
	tl.Log(tl.Info1, palette.Green, "Authenticated to Odoo db '%s' as uid %d", client.database, uid)
	return e
}

/*
SearchRead runs search_read on a model: filter, project fields, cap at
limit rows. Requires a prior successful Authenticate.
*/
func (client *Client) SearchRead(model string, domain []Filter, fields []string, limit int) (records []Record, e *xerr.Error) {
	if client.uid <= 0 {
		e = xerr.NewError(fmt.Errorf("client is not authenticated"), "search_read without session", model)
		return records, e
	}
	if limit <= 0 {
		limit = 1000
	}

	args := []any{
		client.database, client.uid, client.password,
		model, "search_read",
		[]any{domain},
		map[string]any{"fields": fields, "limit": limit},
	}

	raw, e := client.call("object", "execute_kw", args)
	if e != nil {
		return records, e
	}

	if unmarshalErr := json.Unmarshal(raw, &records); unmarshalErr != nil {
		e = xerr.NewError(unmarshalErr, "decode search_read rows", model)
		return records, e
	}

	tl.Log(tl.Verbose, palette.CyanDim, "search_read %s: %d rows (limit %d)", model, len(records), limit)
	return records, e
}

/*
call performs one JSON-RPC round trip against /jsonrpc. The limiter blocks
until the request may go out.
*/
func (client *Client) call(service string, method string, args []any) (result json.RawMessage, e *xerr.Error) {
	waitErr := client.limiter.Wait(context.Background())
	if waitErr != nil {
		e = xerr.NewError(waitErr, "wait for request slot", service)
		return result, e
	}

	request := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      requestCounter.Add(1),
	}

	response := rpcResponse{}
	httpResponse, httpErr := client.http.R().
		SetBody(request).
		SetResult(&response).
		Post("/jsonrpc")
	if httpErr != nil {
		e = xerr.NewError(httpErr, "POST /jsonrpc", map[string]any{"service": service, "method": method})
		return result, e
	}
	if httpResponse.IsError() {
		e = xerr.NewError(fmt.Errorf("status is '%s'", httpResponse.Status()), "API error from /jsonrpc", string(httpResponse.Body()))
		return result, e
	}
	if response.Error != nil {
		e = xerr.NewError(fmt.Errorf("%s (code %d)", response.Error.Message, response.Error.Code), "Odoo RPC fault", string(response.Error.Data))
		return result, e
	}

	result = response.Result
	return result, e
}
