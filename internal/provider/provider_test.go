package provider

import (
	"testing"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/envelope"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		status int
		body   string
		json   bool
		want   envelope.OutcomeStatus
	}{
		{200, `{"result":1}`, true, envelope.Ok},
		{200, `not json`, false, envelope.NonJson},
		{429, `{}`, true, envelope.RateLimited},
		{402, `{}`, true, envelope.RateLimited},
		{500, `boom`, false, envelope.Upstream5xx},
		{502, `{}`, true, envelope.Upstream5xx},
		{400, `{"error":"bad"}`, true, envelope.UpstreamBadRequest},
		{422, `not json`, false, envelope.NonJson},
	}
	for _, tc := range cases {
		got := Classify(tc.status, []byte(tc.body), tc.json)
		if got != tc.want {
			t.Errorf("Classify(%d, %q, %v) = %v, want %v", tc.status, tc.body, tc.json, got, tc.want)
		}
	}
}

func TestLooksLikeJSON(t *testing.T) {
	if !LooksLikeJSON([]byte("  {\"a\":1}")) {
		t.Error("expected JSON object to be detected")
	}
	if !LooksLikeJSON([]byte("[1,2,3]")) {
		t.Error("expected JSON array to be detected")
	}
	if LooksLikeJSON([]byte("plain text")) {
		t.Error("expected plain text to not be detected as JSON")
	}
}

func TestIsRateLimitedMessage(t *testing.T) {
	if !IsRateLimitedMessage("Rate limit exceeded, try again later") {
		t.Error("expected rate limit phrase to match")
	}
	if !IsRateLimitedMessage("Too Many Requests") {
		t.Error("expected case-insensitive match")
	}
	if IsRateLimitedMessage("invalid argument") {
		t.Error("unexpected match on unrelated message")
	}
}

func TestBuildURL(t *testing.T) {
	c := chain.ID("eip155:1")
	url, err := BuildURL("https://rpc.example.com/v1/{chain}", c, nil)
	if err != nil {
		t.Fatalf("BuildURL error: %v", err)
	}
	if url != "https://rpc.example.com/v1/1" {
		t.Errorf("BuildURL = %q", url)
	}

	override := map[string]string{"eip155:1": "https://override.example.com"}
	url, err = BuildURL("https://rpc.example.com/v1/{chain}", c, override)
	if err != nil {
		t.Fatalf("BuildURL error: %v", err)
	}
	if url != "https://override.example.com" {
		t.Errorf("BuildURL with override = %q", url)
	}
}

func TestParseKindFallsBackToGeneric(t *testing.T) {
	k := ParseKind("SomeVendor")
	if !k.IsGeneric() || k.String() != "SomeVendor" {
		t.Errorf("ParseKind(SomeVendor) = %+v, want generic SomeVendor", k)
	}
	if ParseKind("infura") != Infura {
		t.Errorf("ParseKind(infura) did not resolve to the named Infura kind")
	}
}
