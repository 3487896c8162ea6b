package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/envelope"
)

// GenericAdapter proxies to a provider configured purely by URL template —
// the catch-all for upstreams that don't need bespoke shaping. Named
// adapters (Pokt, Quicknode, ...) embed this and override only what
// differs.
type GenericAdapter struct {
	kind        Kind
	allowlist   map[string][]string // chain -> allowed methods, nil means unrestricted
	wrapNonJSON bool                // re-wrap raw text success bodies as JSON-RPC
}

// NewGeneric builds a GenericAdapter for the given kind.
func NewGeneric(kind Kind) *GenericAdapter {
	return &GenericAdapter{kind: kind}
}

// WithAllowlist restricts chain c to the given JSON-RPC methods.
func (g *GenericAdapter) WithAllowlist(c string, methods []string) *GenericAdapter {
	if g.allowlist == nil {
		g.allowlist = make(map[string][]string)
	}
	g.allowlist[c] = methods
	return g
}

// WithNonJSONWrapping enables re-wrapping of raw-text success bodies into
// a JSON-RPC envelope, for upstreams known to return plain text (TON/Tron
// style gateways).
func (g *GenericAdapter) WithNonJSONWrapping() *GenericAdapter {
	g.wrapNonJSON = true
	return g
}

func (g *GenericAdapter) Kind() Kind { return g.kind }

func (g *GenericAdapter) SupportedMethods(c string) ([]string, bool) {
	methods, ok := g.allowlist[c]
	return methods, ok
}

// BuildURL substitutes {chain} in the template with the CAIP-2 reference
// and {namespace} with the CAIP-2 namespace. A per-chain entry in
// overrides replaces the template entirely (its placeholders are still
// substituted), for upstreams that route some chains by a different path
// shape (e.g. Allnodes path segments rather than a query placeholder).
func BuildURL(tmpl string, c chain.ID, overrides map[string]string) (string, error) {
	raw := tmpl
	if override, ok := overrides[string(c)]; ok {
		raw = override
	}
	raw = strings.ReplaceAll(raw, "{chain}", c.Reference())
	raw = strings.ReplaceAll(raw, "{namespace}", c.Namespace())
	if _, err := url.Parse(raw); err != nil {
		return "", err
	}
	return raw, nil
}

func (g *GenericAdapter) Proxy(ctx context.Context, req *envelope.Request, entryURL, authHeader, authValue string, overrides map[string]string) (*envelope.Response, envelope.OutcomeStatus, error) {
	if req.ChainID.Namespace() == "eip155" {
		if parsed, perr := envelope.ParseRequest(req.Params); perr == nil {
			if !ValidateEVMAddressParam(parsed.Method, parsed.Params) {
				return &envelope.Response{
					StatusCode:  400,
					ContentType: "application/json",
					Body:        []byte(`{"jsonrpc":"2.0","error":{"code":-32602,"message":"invalid address parameter"},"id":null}`),
				}, envelope.UpstreamBadRequest, nil
			}
		}
	}

	target, err := BuildURL(entryURL, req.ChainID, overrides)
	if err != nil {
		return nil, envelope.Network, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(req.Params))
	if err != nil {
		return nil, envelope.Network, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		httpReq.Header.Set(authHeader, authValue)
	}

	resp, err := SharedClient.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, envelope.Timeout, err
		}
		return nil, envelope.Network, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, envelope.Network, err
	}

	looksJSON := LooksLikeJSON(body)
	status := Classify(resp.StatusCode, body, looksJSON)

	contentType := "application/json"
	if status == envelope.NonJson && resp.StatusCode >= 200 && resp.StatusCode < 300 && g.wrapNonJSON {
		if wrapped, werr := envelope.WrapNonJSON(extractID(req.Params), body); werr == nil {
			body = wrapped
			status = envelope.Ok
		}
	}

	return &envelope.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: contentType,
	}, status, nil
}

// extractID pulls the "id" field out of a single JSON-RPC request body so
// a wrapped response can echo it; returns a JSON null on any parse issue.
func extractID(params []byte) json.RawMessage {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(params, &probe); err != nil || probe.ID == nil {
		return json.RawMessage("null")
	}
	return probe.ID
}
