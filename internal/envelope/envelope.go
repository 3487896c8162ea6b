// Package envelope defines the normalized request/outcome structs that
// flow between the HTTP boundary, the selector, and the provider adapters.
// Everything downstream of the boundary layer reads only these types.
package envelope

import (
	"time"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
)

// Request is the boundary layer's normalized view of an inbound call.
type Request struct {
	ChainID        chain.ID
	Transport      chain.Transport
	Method         string // JSON-RPC method, empty for a REST/batch passthrough
	Params         []byte // raw request body (JSON-RPC envelope or batch)
	ProjectID      string
	ClientIP       string
	ForcedProvider string // non-empty if the caller requested provider pinning
	Headers        map[string]string
}

// OutcomeStatus is the uniform classification an adapter assigns to a
// completed (or failed) upstream attempt.
type OutcomeStatus int

const (
	Ok OutcomeStatus = iota
	RateLimited
	Upstream5xx
	UpstreamBadRequest
	Timeout
	Network
	NonJson
)

func (s OutcomeStatus) String() string {
	switch s {
	case Ok:
		return "ok"
	case RateLimited:
		return "rate_limited"
	case Upstream5xx:
		return "upstream_5xx"
	case UpstreamBadRequest:
		return "upstream_bad_request"
	case Timeout:
		return "timeout"
	case Network:
		return "network"
	case NonJson:
		return "non_json"
	default:
		return "unknown"
	}
}

// Terminal reports whether this status ends the request (no retry),
// per §4.D of the design: Ok and UpstreamBadRequest are terminal, every
// other status is retryable against the next candidate.
func (s OutcomeStatus) Terminal() bool {
	return s == Ok || s == UpstreamBadRequest
}

// Outcome records the result of one dispatch attempt against one provider.
type Outcome struct {
	ProviderKind string
	Status       OutcomeStatus
	Latency      time.Duration
	BytesOut     int
}

// Response is what the executor hands back to the boundary layer.
type Response struct {
	StatusCode  int
	Body        []byte
	ContentType string
}
