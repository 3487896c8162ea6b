package provider

import (
	"context"
	"strings"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/envelope"
)

// NewPokt returns the adapter for Pokt Network gateways, which place the
// chain reference as a path segment rather than a query parameter.
func NewPokt() *GenericAdapter { return NewGeneric(Pokt) }

// NewQuicknode returns the adapter for Quicknode, a conventional
// {chain}-templated HTTPS endpoint with a bearer token.
func NewQuicknode() *GenericAdapter { return NewGeneric(Quicknode) }

// NewInfura returns the adapter for Infura, which templates the project
// id into the path rather than using an Authorization header.
func NewInfura() *GenericAdapter { return NewGeneric(Infura) }

// NewPublicnode returns the adapter for Publicnode's free, unauthenticated
// per-chain subdomains.
func NewPublicnode() *GenericAdapter { return NewGeneric(Publicnode) }

// NewAllnodes returns the adapter for Allnodes.
func NewAllnodes() *GenericAdapter { return NewGeneric(Allnodes) }

// BinanceAdapter proxies to Binance's chain RPC gateway, which returns its
// own rate-limit envelope as an HTTP 200 JSON-RPC error rather than a 429,
// so classification must inspect the error message body.
type BinanceAdapter struct {
	*GenericAdapter
}

// NewBinance returns the Binance adapter.
func NewBinance() *BinanceAdapter {
	return &BinanceAdapter{GenericAdapter: NewGeneric(Binance)}
}

func (b *BinanceAdapter) Proxy(ctx context.Context, req *envelope.Request, entryURL, authHeader, authValue string, overrides map[string]string) (*envelope.Response, envelope.OutcomeStatus, error) {
	resp, status, err := b.GenericAdapter.Proxy(ctx, req, entryURL, authHeader, authValue, overrides)
	if err != nil || resp == nil {
		return resp, status, err
	}
	if status == envelope.Ok && looksLikeRPCRateLimit(resp.Body) {
		return resp, envelope.RateLimited, nil
	}
	return resp, status, nil
}

func looksLikeRPCRateLimit(body []byte) bool {
	s := string(body)
	if !strings.Contains(s, `"error"`) {
		return false
	}
	return IsRateLimitedMessage(s)
}

// NewGatewayFor builds the adapter appropriate for kind, defaulting to a
// plain GenericAdapter for Generic(name) providers and any named kind that
// needs no special shaping. servedChains is used only to decide whether
// the non-JSON response wrapping applies, for gateways fronting TON/Tron,
// which are known to answer plain text on success.
func NewGatewayFor(kind Kind, servedChains []chain.ID) Adapter {
	var a *GenericAdapter
	switch kind {
	case Binance:
		return NewBinance()
	case Pokt:
		a = NewPokt()
	case Quicknode:
		a = NewQuicknode()
	case Infura:
		a = NewInfura()
	case Publicnode:
		a = NewPublicnode()
	case Allnodes:
		a = NewAllnodes()
	default:
		a = NewGeneric(kind)
	}
	for _, c := range servedChains {
		if tonOrTronChain(c) {
			return a.WithNonJSONWrapping()
		}
	}
	return a
}

// tonOrTronChain reports whether c is one of the plain-text-response
// namespaces that need non-JSON wrapping by default.
func tonOrTronChain(c chain.ID) bool {
	ns := c.Namespace()
	return ns == "ton" || ns == "tron"
}
