package provider

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/envelope"
)

func TestProxyRejectsMalformedEVMAddressWithoutDispatch(t *testing.T) {
	g := NewGeneric(Infura)
	body, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "eth_getBalance",
		"params":  []string{"not-an-address", "latest"},
		"id":      1,
	})
	req := &envelope.Request{
		ChainID: chain.ID("eip155:1"),
		Method:  "eth_getBalance",
		Params:  body,
	}

	// entryURL deliberately points nowhere reachable: a malformed address
	// must be rejected before any dial is attempted.
	resp, status, err := g.Proxy(context.Background(), req, "http://127.0.0.1:0/{chain}", "", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != envelope.UpstreamBadRequest {
		t.Fatalf("status = %v, want UpstreamBadRequest", status)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status code = %d, want 400", resp.StatusCode)
	}
}

func TestParsedEnvelopeOfNonAddressMethodPassesValidation(t *testing.T) {
	body, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "eth_blockNumber",
		"params":  []string{},
		"id":      1,
	})
	req := &envelope.Request{
		ChainID: chain.ID("eip155:1"),
		Method:  "eth_blockNumber",
		Params:  body,
	}
	if parsed, err := envelope.ParseRequest(req.Params); err != nil {
		t.Fatalf("parse request: %v", err)
	} else if !ValidateEVMAddressParam(parsed.Method, parsed.Params) {
		t.Fatal("non-address method must not be rejected")
	}
}
