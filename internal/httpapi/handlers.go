package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/envelope"
	"github.com/synnergy-network/rpc-gateway/internal/gwerr"
	"github.com/synnergy-network/rpc-gateway/internal/ratelimit"
)

const maxBodyBytes = 1 << 20 // 1 MiB, generous for a JSON-RPC batch

// handleProxy implements POST /v1: the JSON-RPC proxy endpoint described in
// §6. id is always echoed; method-level JSON-RPC errors travel back as
// HTTP 200, per the wire invariants.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	chainParam := q.Get("chainId")
	projectID := q.Get("projectId")
	forced := q.Get("providerId")

	if chainParam == "" {
		writeGatewayError(w, gwerr.New(gwerr.UnsupportedChain, "chainId query parameter is required"))
		return
	}
	chainID, err := chain.Parse(chainParam)
	if err != nil {
		writeGatewayError(w, gwerr.New(gwerr.UnsupportedChain, err.Error()))
		return
	}

	if projectID == "" {
		writeGatewayError(w, gwerr.New(gwerr.Unauthorized, "projectId query parameter is required"))
		return
	}
	if _, err := s.Validator.Validate(r.Context(), projectID); err != nil {
		writeGatewayError(w, gwerr.Wrap(gwerr.Unauthorized, "project validation failed", err))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeGatewayError(w, gwerr.Wrap(gwerr.Internal, "failed to read request body", err))
		return
	}

	req := &envelope.Request{
		ChainID:        chainID,
		Transport:      chain.Http,
		Params:         body,
		ProjectID:      projectID,
		ClientIP:       ratelimit.ClientIP(r),
		ForcedProvider: forced,
		Headers:        flattenHeader(r.Header),
	}
	if !envelope.IsBatch(body) {
		if parsed, err := envelope.ParseRequest(body); err == nil {
			req.Method = parsed.Method
		}
	}

	pinAllowed := func(pid string) bool {
		_, err := s.Validator.Validate(r.Context(), pid)
		return err == nil
	}
	resp, err := s.Executor.Execute(r.Context(), req, pinAllowed)
	if err != nil {
		writeGatewayError(w, err)
		return
	}

	ct := resp.ContentType
	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

func (s *Server) handleSupportedChains(w http.ResponseWriter, r *http.Request) {
	httpChains, wsChains := s.Registry.SupportedChains()
	type payload struct {
		HTTP []chain.ID `json:"http"`
		WS   []chain.ID `json:"ws"`
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload{HTTP: httpChains, WS: wsChains})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmtHealthLine(w, s.Version, s.Commit, s.Features, s.started)
}

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}

// statusForKind maps the closed gwerr.Kind taxonomy to the HTTP status
// codes named in §6/§7.
func statusForKind(k gwerr.Kind) int {
	switch k {
	case gwerr.UnsupportedChain:
		return http.StatusBadRequest
	case gwerr.Unauthorized:
		return http.StatusUnauthorized
	case gwerr.RateLimited:
		return http.StatusTooManyRequests
	case gwerr.UpstreamBadRequest:
		return http.StatusBadRequest
	case gwerr.UpstreamTransient, gwerr.UpstreamRateLimited, gwerr.TemporarilyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeGatewayError(w http.ResponseWriter, err error) {
	kind := gwerr.KindOf(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForKind(kind))
	_ = json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}{Error: err.Error(), Kind: kind.String()})
}
