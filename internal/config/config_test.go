package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/provider"
)

const sampleYAML = `
server:
  listen_addr: ":8080"
  admin_addr: "127.0.0.1:9090"
logging:
  level: "info"
rate_limit:
  capacity: 100
  rate_per_sec: 10
  allowlist:
    - "10.0.0.0/8"
monitor:
  interval_seconds: 60
providers:
  - kind: pokt
    url: "https://pokt.example/{chain}"
    auth_header: "Authorization"
    chains:
      - chain: "eip155:1"
        transports: ["http", "ws"]
        priority: "normal"
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("write sample config: %v", err)
	}
	return path
}

func TestLoadParsesFile(t *testing.T) {
	path := writeSample(t)
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q", cfg.Server.ListenAddr)
	}
	if cfg.RateLimit.Capacity != 100 {
		t.Fatalf("RateLimit.Capacity = %v", cfg.RateLimit.Capacity)
	}
	if len(cfg.Providers) != 1 || cfg.Providers[0].Kind != "pokt" {
		t.Fatalf("Providers = %+v", cfg.Providers)
	}
}

func TestToRegistryConfigTranslatesTransportsAndPriority(t *testing.T) {
	path := writeSample(t)
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	regCfg := cfg.ToRegistryConfig()
	if len(regCfg) != 1 {
		t.Fatalf("len(regCfg) = %d", len(regCfg))
	}
	p := regCfg[0]
	if p.Kind != provider.Pokt {
		t.Fatalf("Kind = %v, want Pokt", p.Kind)
	}
	if len(p.Chains) != 1 {
		t.Fatalf("len(Chains) = %d", len(p.Chains))
	}
	cc := p.Chains[0]
	if cc.Chain != chain.ID("eip155:1") {
		t.Fatalf("Chain = %v", cc.Chain)
	}
	if len(cc.Transports) != 2 || cc.Transports[0] != chain.Http || cc.Transports[1] != chain.WebSocket {
		t.Fatalf("Transports = %v", cc.Transports)
	}
	if cc.Priority != provider.Normal {
		t.Fatalf("Priority = %v, want Normal", cc.Priority)
	}
}

func TestProviderAuthValueChecksAllSuffixes(t *testing.T) {
	os.Unsetenv("RPC_PROXY_POKT_API_KEY")
	os.Unsetenv("RPC_PROXY_POKT_PROJECT_ID")
	t.Setenv("RPC_PROXY_POKT_API_TOKENS", "tok-123")

	if got := ProviderAuthValue("pokt"); got != "tok-123" {
		t.Fatalf("ProviderAuthValue = %q, want tok-123", got)
	}
}

func TestEnvOrDefaultFallsBackWhenUnset(t *testing.T) {
	os.Unsetenv("RPC_GATEWAY_NONEXISTENT_VAR")
	if got := EnvOrDefault("RPC_GATEWAY_NONEXISTENT_VAR", "fallback"); got != "fallback" {
		t.Fatalf("EnvOrDefault = %q, want fallback", got)
	}
}
