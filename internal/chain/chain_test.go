package chain

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"eip155:1", false},
		{"solana:5eykt4UsFv8P", false},
		{"near:mainnet", false},
		{"bogus:1", true},
		{"eip155", true},
		{"", true},
	}
	for _, tc := range cases {
		_, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) err=%v, wantErr=%v", tc.in, err, tc.wantErr)
		}
	}
}

func TestNamespaceReference(t *testing.T) {
	id := ID("eip155:1")
	if id.Namespace() != "eip155" {
		t.Errorf("Namespace() = %q, want eip155", id.Namespace())
	}
	if id.Reference() != "1" {
		t.Errorf("Reference() = %q, want 1", id.Reference())
	}
}

func TestTransportString(t *testing.T) {
	if Http.String() != "http" {
		t.Errorf("Http.String() = %q", Http.String())
	}
	if WebSocket.String() != "ws" {
		t.Errorf("WebSocket.String() = %q", WebSocket.String())
	}
}
