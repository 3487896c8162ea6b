package registry

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/envelope"
	"github.com/synnergy-network/rpc-gateway/internal/provider"
)

// numStatuses is the number of envelope.OutcomeStatus values; status
// counters are indexed 0..numStatuses-1.
const numStatuses = 7

// Entry is one (ProviderKind, ChainID, Transport) row. The static fields
// are set once at construction; the dynamic fields mutate via atomics for
// the lifetime of the process. Entries are never destroyed — draining a
// provider means setting its weight to 0 in the weight store.
type Entry struct {
	Kind      provider.Kind
	Chain     chain.ID
	Transport chain.Transport

	URLTemplate string
	AuthHeader  string
	AuthValue   string
	Priority    provider.Priority
	Overrides   map[string]string // per-chain request overrides (path vs query placement, etc.)

	lastHealthy atomic.Int64 // unix nanos
	attempts    atomic.Uint64
	byStatus    [numStatuses]atomic.Uint64
}

// TouchHealthy records the current time as this entry's last-seen-healthy
// timestamp.
func (e *Entry) TouchHealthy() {
	e.lastHealthy.Store(time.Now().UnixNano())
}

// LastHealthy returns the last-seen-healthy timestamp, or the zero Time if
// never recorded.
func (e *Entry) LastHealthy() time.Time {
	n := e.lastHealthy.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// RecordAttempt increments the saturating counters for one dispatch
// attempt. Counters never decrease; they are read by the availability
// monitor and for metrics export.
func (e *Entry) RecordAttempt(status envelope.OutcomeStatus) {
	saturatingInc(&e.attempts)
	saturatingInc(&e.byStatus[status])
	if status == envelope.Ok {
		e.TouchHealthy()
	}
}

// saturatingInc adds one to c unless it already holds the maximum value.
func saturatingInc(c *atomic.Uint64) {
	for {
		old := c.Load()
		if old == math.MaxUint64 || c.CompareAndSwap(old, old+1) {
			return
		}
	}
}

// Counters is a point-in-time snapshot of an entry's accumulated counters,
// broken down by outcome status.
type Counters struct {
	Attempts uint64
	ByStatus [numStatuses]uint64
}

// Successes returns the accumulated count of Ok outcomes.
func (c Counters) Successes() uint64 { return c.ByStatus[envelope.Ok] }

// Errors returns the accumulated count of every non-Ok outcome. This
// includes caller-caused bad requests (UpstreamBadRequest) and upstream
// rate limiting (RateLimited) alongside provider-health failures, so it is only meaningful
// for the monotone-counter invariant, not for routing decisions — use
// TransientErrors for those.
func (c Counters) Errors() uint64 { return c.Attempts - c.Successes() }

// TransientErrors returns the accumulated count of outcomes that reflect
// the provider's own health — Upstream5xx, Network, Timeout, NonJson —
// excluding RateLimited (an upstream 429/402 or vendor rate-limit notice) and
// UpstreamBadRequest (caller error, not provider health). This is the
// numerator the availability monitor uses to decay or recover weight.
func (c Counters) TransientErrors() uint64 {
	return c.ByStatus[envelope.Upstream5xx] + c.ByStatus[envelope.Network] +
		c.ByStatus[envelope.Timeout] + c.ByStatus[envelope.NonJson]
}

// Snapshot returns the current counter values.
func (e *Entry) Snapshot() Counters {
	var c Counters
	c.Attempts = e.attempts.Load()
	for i := range e.byStatus {
		c.ByStatus[i] = e.byStatus[i].Load()
	}
	return c
}
