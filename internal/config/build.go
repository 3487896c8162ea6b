package config

import (
	"strings"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/provider"
	"github.com/synnergy-network/rpc-gateway/internal/registry"
)

// ToRegistryConfig translates the file-shaped Config into the
// registry.ProviderConfig slice registry.Build expects, resolving each
// provider's auth value from the environment rather than storing secrets in
// the config file: the variable named by auth_env when it is set, otherwise
// the RPC_PROXY_<KIND>_* convention.
func (c *Config) ToRegistryConfig() []registry.ProviderConfig {
	out := make([]registry.ProviderConfig, 0, len(c.Providers))
	for _, p := range c.Providers {
		kind := provider.ParseKind(p.Kind)
		spec := registry.ProviderConfig{Kind: kind}
		authValue := ProviderAuthValue(p.Kind)
		if p.AuthEnv != "" {
			authValue = EnvOrDefault(p.AuthEnv, authValue)
		}
		for _, cs := range p.Chains {
			spec.Chains = append(spec.Chains, registry.ChainConfig{
				Chain:      chain.ID(cs.Chain),
				Transports: parseTransports(cs.Transports),
				Priority:   parsePriority(cs.Priority),
				URL:        p.URL,
				AuthHeader: p.AuthHeader,
				AuthValue:  authValue,
				Overrides:  p.Overrides,
			})
		}
		out = append(out, spec)
	}
	return out
}

func parseTransports(raw []string) []chain.Transport {
	if len(raw) == 0 {
		return []chain.Transport{chain.Http}
	}
	out := make([]chain.Transport, 0, len(raw))
	for _, r := range raw {
		switch strings.ToLower(r) {
		case "ws", "websocket":
			out = append(out, chain.WebSocket)
		default:
			out = append(out, chain.Http)
		}
	}
	return out
}

func parsePriority(s string) provider.Priority {
	switch strings.ToLower(s) {
	case "disabled":
		return provider.Disabled
	case "low":
		return provider.Low
	case "high":
		return provider.High
	case "max":
		return provider.Max
	default:
		return provider.Normal
	}
}
