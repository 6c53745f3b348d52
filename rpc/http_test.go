package rpc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"defind/core"
	"defind/crypto"
	"defind/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	node := core.NewNode(storage.NewMemDB())
	return NewServer(node)
}

func testIdentity(seed byte) crypto.Identity {
	var raw [crypto.IdentityLength]byte
	for i := range raw {
		raw[i] = seed
	}
	return crypto.Identity(raw)
}

func call(t *testing.T, server *Server, method string, params interface{}, headers map[string]string) (*httptest.ResponseRecorder, RPCResponse) {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	body, err := json.Marshal(RPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  []json.RawMessage{raw},
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	var resp RPCResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

func decodeResult(t *testing.T, resp RPCResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("re-marshal result: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
}

func TestHandleRejectsNonPost(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandleUnknownMethod(t *testing.T) {
	server := newTestServer(t)
	_, resp := call(t, server, "search_unknown", struct{}{}, nil)
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected method-not-found error, got %+v", resp.Error)
	}
}

func TestDepositAndGetBalance(t *testing.T) {
	server := newTestServer(t)
	owner := testIdentity(0x11)

	_, resp := call(t, server, "search_deposit", depositParams{
		Caller:    owner.String(),
		MaxAmount: "500",
		Attached:  "800",
	}, nil)
	if resp.Error != nil {
		t.Fatalf("deposit failed: %+v", resp.Error)
	}
	var dep depositResult
	decodeResult(t, resp, &dep)
	if dep.Accepted != "500" {
		t.Fatalf("expected accepted 500, got %s", dep.Accepted)
	}

	_, resp = call(t, server, "search_getBalance", getBalanceParams{Caller: owner.String()}, nil)
	if resp.Error != nil {
		t.Fatalf("getBalance failed: %+v", resp.Error)
	}
	var bal balanceResult
	decodeResult(t, resp, &bal)
	if bal.Balance != "500" {
		t.Fatalf("expected balance 500, got %s", bal.Balance)
	}
}

func TestDepositRejectsAnonymousCaller(t *testing.T) {
	server := newTestServer(t)
	rec, resp := call(t, server, "search_deposit", depositParams{
		MaxAmount: "10",
		Attached:  "10",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != codeAnonymousCaller {
		t.Fatalf("expected anonymous-caller error, got %+v", resp.Error)
	}
}

func TestDepositRejectsMalformedAmount(t *testing.T) {
	server := newTestServer(t)
	owner := testIdentity(0x22)
	_, resp := call(t, server, "search_deposit", depositParams{
		Caller:    owner.String(),
		MaxAmount: "not-a-number",
		Attached:  "10",
	}, nil)
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid-params error, got %+v", resp.Error)
	}
}

func TestStakeAndQueryRoundTrip(t *testing.T) {
	server := newTestServer(t)
	owner := testIdentity(0x33)

	_, resp := call(t, server, "search_deposit", depositParams{
		Caller:    owner.String(),
		MaxAmount: "1000",
		Attached:  "1000",
	}, nil)
	if resp.Error != nil {
		t.Fatalf("deposit failed: %+v", resp.Error)
	}

	_, resp = call(t, server, "search_setDescription", setDescriptionParams{
		Caller:      owner.String(),
		Name:        "Example",
		Link:        "https://example.com",
		Description: "An example site",
	}, nil)
	if resp.Error != nil {
		t.Fatalf("setDescription failed: %+v", resp.Error)
	}

	_, resp = call(t, server, "search_applyStakeDelta", applyStakeDeltaParams{
		Caller: owner.String(),
		Link:   "https://example.com",
		Deltas: []stakeDeltaParam{{Op: "add", Term: "Example", Value: 400}},
	}, nil)
	if resp.Error != nil {
		t.Fatalf("applyStakeDelta failed: %+v", resp.Error)
	}
	var entries []StakeEntryResult
	decodeResult(t, resp, &entries)
	if len(entries) != 1 || entries[0].Term != "example" || entries[0].Amount != "400" {
		t.Fatalf("unexpected stake entries: %+v", entries)
	}

	_, resp = call(t, server, "search_query", searchParams{
		Terms:          []string{"EXAMPLE"},
		Page:           0,
		EntriesPerPage: 10,
	}, nil)
	if resp.Error != nil {
		t.Fatalf("query failed: %+v", resp.Error)
	}
	var results []DescriptionResult
	decodeResult(t, resp, &results)
	if len(results) != 1 || results[0].Link != "https://example.com" {
		t.Fatalf("unexpected query results: %+v", results)
	}
}

func TestApplyStakeDeltaInsufficientFunds(t *testing.T) {
	server := newTestServer(t)
	owner := testIdentity(0x44)

	_, resp := call(t, server, "search_deposit", depositParams{
		Caller:    owner.String(),
		MaxAmount: "100",
		Attached:  "100",
	}, nil)
	if resp.Error != nil {
		t.Fatalf("deposit failed: %+v", resp.Error)
	}

	rec, resp := call(t, server, "search_applyStakeDelta", applyStakeDeltaParams{
		Caller: owner.String(),
		Link:   "https://example.com",
		Deltas: []stakeDeltaParam{{Op: "add", Term: "big", Value: 500}},
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != codeInsufficientFunds {
		t.Fatalf("expected insufficient-funds error, got %+v", resp.Error)
	}
	if resp.Error.Data != "big" {
		t.Fatalf("expected offending term in error data, got %v", resp.Error.Data)
	}
}

func TestApplyStakeDeltaRejectsUnknownOp(t *testing.T) {
	server := newTestServer(t)
	owner := testIdentity(0x55)
	_, resp := call(t, server, "search_applyStakeDelta", applyStakeDeltaParams{
		Caller: owner.String(),
		Link:   "https://example.com",
		Deltas: []stakeDeltaParam{{Op: "stake", Term: "x", Value: 1}},
	}, nil)
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid-params error, got %+v", resp.Error)
	}
}

func TestGetStakesDefaultsOwnerToCaller(t *testing.T) {
	server := newTestServer(t)
	owner := testIdentity(0x66)

	_, resp := call(t, server, "search_deposit", depositParams{
		Caller:    owner.String(),
		MaxAmount: "300",
		Attached:  "300",
	}, nil)
	if resp.Error != nil {
		t.Fatalf("deposit failed: %+v", resp.Error)
	}
	_, resp = call(t, server, "search_applyStakeDelta", applyStakeDeltaParams{
		Caller: owner.String(),
		Link:   "https://mine.example",
		Deltas: []stakeDeltaParam{{Op: "add", Term: "mine", Value: 100}},
	}, nil)
	if resp.Error != nil {
		t.Fatalf("applyStakeDelta failed: %+v", resp.Error)
	}

	_, resp = call(t, server, "search_getStakes", getStakesParams{
		Caller: owner.String(),
		Link:   "https://mine.example",
	}, nil)
	if resp.Error != nil {
		t.Fatalf("getStakes failed: %+v", resp.Error)
	}
	var entries []StakeEntryResult
	decodeResult(t, resp, &entries)
	if len(entries) != 1 || entries[0].Term != "mine" {
		t.Fatalf("unexpected stake entries: %+v", entries)
	}
}

func TestGetStakesRejectsForeignOwner(t *testing.T) {
	server := newTestServer(t)
	caller := testIdentity(0x77)
	other := testIdentity(0x88)

	rec, resp := call(t, server, "search_getStakes", getStakesParams{
		Caller: caller.String(),
		Owner:  other.String(),
		Link:   "https://other.example",
	}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != codeNotOwner {
		t.Fatalf("expected not-owner error, got %+v", resp.Error)
	}
}

func TestWebsiteLifecycleOverRPC(t *testing.T) {
	server := newTestServer(t)
	owner := testIdentity(0x99)

	for _, link := range []string{"https://b.example", "https://a.example"} {
		_, resp := call(t, server, "search_setDescription", setDescriptionParams{
			Caller:      owner.String(),
			Name:        link,
			Link:        link,
			Description: "site",
		}, nil)
		if resp.Error != nil {
			t.Fatalf("setDescription failed: %+v", resp.Error)
		}
	}

	_, resp := call(t, server, "search_getWebsites", getWebsitesParams{Caller: owner.String()}, nil)
	if resp.Error != nil {
		t.Fatalf("getWebsites failed: %+v", resp.Error)
	}
	var sites []DescriptionResult
	decodeResult(t, resp, &sites)
	if len(sites) != 2 || sites[0].Link != "https://a.example" || sites[1].Link != "https://b.example" {
		t.Fatalf("unexpected site listing: %+v", sites)
	}

	_, resp = call(t, server, "search_removeWebsite", removeWebsiteParams{
		Caller: owner.String(),
		Link:   "https://a.example",
	}, nil)
	if resp.Error != nil {
		t.Fatalf("removeWebsite failed: %+v", resp.Error)
	}

	_, resp = call(t, server, "search_getWebsites", getWebsitesParams{Caller: owner.String()}, nil)
	if resp.Error != nil {
		t.Fatalf("getWebsites failed: %+v", resp.Error)
	}
	sites = nil
	decodeResult(t, resp, &sites)
	if len(sites) != 1 || sites[0].Link != "https://b.example" {
		t.Fatalf("unexpected site listing after removal: %+v", sites)
	}
}

func TestSearchRejectsZeroPageSize(t *testing.T) {
	server := newTestServer(t)
	_, resp := call(t, server, "search_query", searchParams{
		Terms:          []string{"anything"},
		EntriesPerPage: 0,
	}, nil)
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid-params error, got %+v", resp.Error)
	}
}

func TestBearerTokenGuardsMutatingMethods(t *testing.T) {
	server := newTestServer(t)
	server.authToken = "secret-token"
	owner := testIdentity(0xaa)

	params := depositParams{Caller: owner.String(), MaxAmount: "10", Attached: "10"}

	rec, resp := call(t, server, "search_deposit", params, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != codeUnauthorized {
		t.Fatalf("expected unauthorized error, got %+v", resp.Error)
	}

	rec, resp = call(t, server, "search_deposit", params, map[string]string{
		"Authorization": "Bearer wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rec.Code)
	}

	_, resp = call(t, server, "search_deposit", params, map[string]string{
		"Authorization": "Bearer secret-token",
	})
	if resp.Error != nil {
		t.Fatalf("deposit with valid token failed: %+v", resp.Error)
	}

	// Read methods stay open even with a token configured.
	_, resp = call(t, server, "search_getBalance", getBalanceParams{Caller: owner.String()}, nil)
	if resp.Error != nil {
		t.Fatalf("getBalance without token failed: %+v", resp.Error)
	}
}

func TestDecodeParamsRequiresSingleObject(t *testing.T) {
	server := newTestServer(t)
	body, err := json.Marshal(RPCRequest{
		JSONRPC: "2.0",
		ID:      7,
		Method:  "search_getBalance",
		Params:  nil,
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	var resp RPCResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid-params error, got %+v", resp.Error)
	}
}

func TestRequestBodyTooLarge(t *testing.T) {
	server := newTestServer(t)
	oversized := bytes.Repeat([]byte("a"), maxRequestBytes+2)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(oversized))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		input string
		want  uint64
		ok    bool
	}{
		{"0", 0, true},
		{" 42 ", 42, true},
		{"18446744073709551615", 18446744073709551615, true},
		{"", 0, false},
		{"-1", 0, false},
		{"1.5", 0, false},
	}
	for _, tc := range cases {
		got, err := parseAmount(tc.input)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("parseAmount(%q) = %d, %v; want %d", tc.input, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("parseAmount(%q) should fail", tc.input)
		}
	}
}

func TestGetEventsReportsRecentActivity(t *testing.T) {
	server := newTestServer(t)
	owner := testIdentity(0x21)

	_, resp := call(t, server, "search_deposit", depositParams{
		Caller:    owner.String(),
		MaxAmount: "500",
		Attached:  "500",
	}, nil)
	if resp.Error != nil {
		t.Fatalf("deposit failed: %+v", resp.Error)
	}
	_, resp = call(t, server, "search_setDescription", setDescriptionParams{
		Caller:      owner.String(),
		Name:        "Example",
		Link:        "https://example.org",
		Description: "an example",
	}, nil)
	if resp.Error != nil {
		t.Fatalf("setDescription failed: %+v", resp.Error)
	}

	_, resp = call(t, server, "search_getEvents", eventsParams{}, nil)
	if resp.Error != nil {
		t.Fatalf("getEvents failed: %+v", resp.Error)
	}
	var events []EventResult
	decodeResult(t, resp, &events)
	if len(events) != 2 {
		t.Fatalf("expected two events, got %v", events)
	}
	if events[0].Type != "ledger.deposited" || events[0].Attributes["accepted"] != "500" {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	if events[1].Type != "registry.description.set" || events[1].Attributes["link"] != "https://example.org" {
		t.Fatalf("unexpected second event %+v", events[1])
	}

	// A limit keeps only the most recent events.
	_, resp = call(t, server, "search_getEvents", eventsParams{Limit: 1}, nil)
	if resp.Error != nil {
		t.Fatalf("getEvents failed: %+v", resp.Error)
	}
	decodeResult(t, resp, &events)
	if len(events) != 1 || events[0].Type != "registry.description.set" {
		t.Fatalf("unexpected limited events %v", events)
	}
}

func TestGetEventsRejectsNegativeLimit(t *testing.T) {
	server := newTestServer(t)
	rec, resp := call(t, server, "search_getEvents", eventsParams{Limit: -1}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid-params error, got %+v", resp.Error)
	}
}
