// Package registry builds and serves the two read-mostly provider indexes
// (one per transport) that the selector consults on every request. The
// flat entry vector and its two secondary index vectors are built once at
// startup from configuration and never mutated; only the Weight cells
// referenced by entries change afterward.
package registry

import (
	"sort"
	"strconv"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/provider"
	"github.com/synnergy-network/rpc-gateway/internal/weight"
)

// Registry holds the immutable candidate vectors built at startup.
type Registry struct {
	entries []*Entry
	byHTTP  map[chain.ID][]*Entry
	byWS    map[chain.ID][]*Entry
	weights *weight.Store
}

// ChainConfig describes the chains, transports, and priority a single
// provider kind serves.
type ChainConfig struct {
	Chain      chain.ID
	Transports []chain.Transport
	Priority   provider.Priority
	URL        string
	AuthHeader string
	AuthValue  string
	Overrides  map[string]string
}

// ProviderConfig is one configured provider and the chains it serves.
type ProviderConfig struct {
	Kind   provider.Kind
	Chains []ChainConfig
}

// Build constructs a Registry from configuration, seeding the weight store
// with each entry's initial priority-derived weight.
func Build(providers []ProviderConfig, weights *weight.Store) *Registry {
	r := &Registry{
		byHTTP:  make(map[chain.ID][]*Entry),
		byWS:    make(map[chain.ID][]*Entry),
		weights: weights,
	}
	for _, pc := range providers {
		for _, cc := range pc.Chains {
			key := weight.Key{Kind: pc.Kind.String(), Chain: cc.Chain}
			weights.Init(key, cc.Priority.InitialWeight())
			for _, t := range cc.Transports {
				e := &Entry{
					Kind:        pc.Kind,
					Chain:       cc.Chain,
					Transport:   t,
					URLTemplate: cc.URL,
					AuthHeader:  cc.AuthHeader,
					AuthValue:   cc.AuthValue,
					Priority:    cc.Priority,
					Overrides:   cc.Overrides,
				}
				r.entries = append(r.entries, e)
				switch t {
				case chain.Http:
					r.byHTTP[cc.Chain] = append(r.byHTTP[cc.Chain], e)
				case chain.WebSocket:
					r.byWS[cc.Chain] = append(r.byWS[cc.Chain], e)
				}
			}
		}
	}
	return r
}

// Candidates returns the immutable candidate vector for chain c over the
// given transport. The returned slice must not be mutated by callers.
func (r *Registry) Candidates(c chain.ID, t chain.Transport) []*Entry {
	switch t {
	case chain.Http:
		return r.byHTTP[c]
	case chain.WebSocket:
		return r.byWS[c]
	default:
		return nil
	}
}

// Weight returns the live weight for an entry from the shared weight
// store.
func (r *Registry) Weight(e *Entry) float64 {
	return r.weights.Get(weight.Key{Kind: e.Kind.String(), Chain: e.Chain})
}

// Find locates the entry for kind on chain c over transport t, used to
// support client-requested provider pinning.
func (r *Registry) Find(kind provider.Kind, c chain.ID, t chain.Transport) (*Entry, bool) {
	for _, e := range r.Candidates(c, t) {
		if e.Kind == kind {
			return e, true
		}
	}
	return nil, false
}

// SupportedChains returns the chains known per transport, sorted by
// namespace then numeric reference for deterministic output. A
// non-numeric reference sorts lexically after every numeric one.
func (r *Registry) SupportedChains() (http []chain.ID, ws []chain.ID) {
	return sortedKeys(r.byHTTP), sortedKeys(r.byWS)
}

func sortedKeys(m map[chain.ID][]*Entry) []chain.ID {
	out := make([]chain.ID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := out[i].Namespace(), out[j].Namespace()
		if ni != nj {
			return ni < nj
		}
		ri, iok := parseRef(out[i].Reference())
		rj, jok := parseRef(out[j].Reference())
		if iok && jok {
			return ri < rj
		}
		if iok != jok {
			return iok // numeric refs sort before non-numeric
		}
		return out[i].Reference() < out[j].Reference()
	})
	return out
}

func parseRef(ref string) (int64, bool) {
	n, err := strconv.ParseInt(ref, 10, 64)
	return n, err == nil
}

// WeightStore returns the shared weight store backing this registry, for
// components (the monitor) that need direct access.
func (r *Registry) WeightStore() *weight.Store { return r.weights }

// AllEntries returns every registered entry, for the monitor's tick pass.
func (r *Registry) AllEntries() []*Entry { return r.entries }
