package envelope

import (
	"encoding/json"
	"testing"
)

func TestParseRequest(t *testing.T) {
	body := []byte(`{"jsonrpc":"2.0","method":"eth_blockNumber","params":[],"id":1}`)
	req, err := ParseRequest(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != "eth_blockNumber" {
		t.Fatalf("Method = %q", req.Method)
	}
	if string(req.ID) != "1" {
		t.Fatalf("ID = %q", req.ID)
	}
}

func TestParseBatch(t *testing.T) {
	body := []byte(`[{"jsonrpc":"2.0","method":"a","id":1},{"jsonrpc":"2.0","method":"b","id":2}]`)
	batch, err := ParseBatch(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("len(batch) = %d, want 2", len(batch))
	}
	if batch[0].Method != "a" || batch[1].Method != "b" {
		t.Fatalf("batch methods = %q, %q", batch[0].Method, batch[1].Method)
	}
}

func TestIsBatch(t *testing.T) {
	cases := map[string]bool{
		`[{"a":1}]`:        true,
		`  [1,2,3]`:        true,
		`{"a":1}`:          false,
		`   {"a":1}`:       false,
		"\n\t [1]":         true,
		"":                 false,
	}
	for body, want := range cases {
		if got := IsBatch([]byte(body)); got != want {
			t.Errorf("IsBatch(%q) = %v, want %v", body, got, want)
		}
	}
}

func TestWrapNonJSONEchoesIDAndQuotesBody(t *testing.T) {
	out, err := WrapNonJSON(json.RawMessage("7"), []byte("some raw text\nwith a newline"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp RPCResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("WrapNonJSON produced invalid JSON: %v", err)
	}
	if string(resp.ID) != "7" {
		t.Fatalf("ID = %q, want 7", resp.ID)
	}
	var result string
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("Result not a JSON string: %v", err)
	}
	if result != "some raw text\nwith a newline" {
		t.Fatalf("Result = %q", result)
	}
}

func TestRPCResponseRoundTripsError(t *testing.T) {
	resp := RPCResponse{
		JSONRPC: "2.0",
		ID:      json.RawMessage("1"),
		Error:   &RPCError{Code: -32000, Message: "boom"},
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded RPCResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Error == nil || decoded.Error.Code != -32000 {
		t.Fatalf("decoded error = %+v", decoded.Error)
	}
}
