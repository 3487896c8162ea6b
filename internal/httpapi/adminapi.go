package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/provider"
	"github.com/synnergy-network/rpc-gateway/internal/registry"
	"github.com/synnergy-network/rpc-gateway/internal/weight"
)

func weightKeyFor(e *registry.Entry) weight.Key {
	return weight.Key{Kind: e.Kind.String(), Chain: e.Chain}
}

// NewAdminRouter builds the internal operator surface: weight inspection
// and manual weight overrides, kept on a separate gorilla/mux router from
// the public chi-based surface so it can be bound to a loopback-only
// listener in deployment, mirroring the teacher's xchainserver split
// between its public API and its relayer-authorization endpoints.
func NewAdminRouter(reg *registry.Registry) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/admin/weights", handleListWeights(reg)).Methods(http.MethodGet)
	r.HandleFunc("/admin/weights/{chain}/{provider}", handleSetWeight(reg)).Methods(http.MethodPost)
	return r
}

type weightRow struct {
	Chain    string  `json:"chain"`
	Provider string  `json:"provider"`
	Weight   float64 `json:"weight"`
}

func handleListWeights(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rows []weightRow
		for _, e := range reg.AllEntries() {
			rows = append(rows, weightRow{
				Chain:    string(e.Chain),
				Provider: e.Kind.String(),
				Weight:   reg.Weight(e),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}
}

// handleSetWeight lets an operator force a provider's weight, e.g. to 0 to
// drain it ahead of planned maintenance, or back to its initial value to
// undo a monitor-driven decay early.
func handleSetWeight(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		chainID := chain.ID(vars["chain"])
		kind := provider.ParseKind(vars["provider"])

		var body struct {
			Weight float64 `json:"weight"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if body.Weight < 0 {
			http.Error(w, "weight must be non-negative", http.StatusBadRequest)
			return
		}

		found := false
		for _, t := range []chain.Transport{chain.Http, chain.WebSocket} {
			if e, ok := reg.Find(kind, chainID, t); ok {
				reg.WeightStore().Set(weightKeyFor(e), body.Weight)
				found = true
			}
		}
		if !found {
			http.Error(w, "provider not registered for chain", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
