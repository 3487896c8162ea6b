package provider

import (
	"context"
	"strings"

	"github.com/synnergy-network/rpc-gateway/internal/envelope"
)

// Adapter is the uniform per-provider contract. Concrete providers
// (Pokt, Quicknode, Infura, ...) and the configured Generic provider all
// implement this over their own URL templating, auth injection, and body
// rewriting. An adapter never retries — the executor owns retry policy.
type Adapter interface {
	// Kind identifies which provider this adapter proxies to.
	Kind() Kind

	// Proxy performs one upstream call and returns the raw response
	// along with its classified outcome status. overrides is the
	// entry's per-chain URL override table (path versus query
	// placement of the chain identifier, etc.), passed through to
	// BuildURL.
	Proxy(ctx context.Context, req *envelope.Request, entryURL, authHeader, authValue string, overrides map[string]string) (*envelope.Response, envelope.OutcomeStatus, error)

	// SupportedMethods optionally restricts which JSON-RPC methods this
	// adapter will forward for a chain. The second return value is false
	// when the adapter imposes no allow-list.
	SupportedMethods(c string) ([]string, bool)
}

// Classify maps an upstream HTTP status and (possibly non-JSON) body to
// the uniform outcome taxonomy. It is shared by every concrete adapter so
// the classification rules in the design live in exactly one place.
func Classify(httpStatus int, body []byte, looksLikeJSON bool) envelope.OutcomeStatus {
	switch {
	case httpStatus == 429 || httpStatus == 402:
		return envelope.RateLimited
	case httpStatus >= 500:
		return envelope.Upstream5xx
	case httpStatus == 400 || httpStatus == 422:
		if looksLikeJSON {
			return envelope.UpstreamBadRequest
		}
		return envelope.NonJson
	case httpStatus >= 200 && httpStatus < 300:
		if !looksLikeJSON {
			return envelope.NonJson
		}
		return envelope.Ok
	default:
		return envelope.Upstream5xx
	}
}

// LooksLikeJSON is a cheap heuristic: does the body start with '{' or '['
// after skipping leading whitespace.
func LooksLikeJSON(body []byte) bool {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}

// IsRateLimitedMessage reports whether a JSON-RPC error message looks like
// a vendor-specific rate-limit notice rather than a generic method error,
// per the "vendor-specific 'rate limited' messages" rule in §4.C.
func IsRateLimitedMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, needle := range []string{"rate limit", "too many requests", "quota exceeded", "throttle"} {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}
