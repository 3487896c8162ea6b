// Package gateway implements the selector and executor: the component
// that, for each inbound call, picks a provider by weighted sampling,
// retries on transient failure against the next-best candidate, and
// records the outcome on the chosen entry.
package gateway

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/envelope"
	"github.com/synnergy-network/rpc-gateway/internal/gwerr"
	"github.com/synnergy-network/rpc-gateway/internal/provider"
	"github.com/synnergy-network/rpc-gateway/internal/registry"
)

// MaxRetries bounds the number of distinct providers a single request may
// be dispatched to.
const MaxRetries = 3

// Executor owns no long-lived per-chain state; everything mutable lives in
// the registry's weight cells and entry counters.
type Executor struct {
	reg      *registry.Registry
	adapters map[provider.Kind]provider.Adapter

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New builds an Executor over reg, dispatching through the given adapters
// keyed by provider kind.
func New(reg *registry.Registry, adapters map[provider.Kind]provider.Adapter) *Executor {
	return &Executor{
		reg:      reg,
		adapters: adapters,
		rng:      rand.New(rand.NewSource(randomSeed())),
	}
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// PinChecker reports whether req's project may use provider pinning. It is
// a small seam so the executor doesn't need its own project-allowlist
// storage; the boundary layer supplies the decision.
type PinChecker func(projectID string) bool

// Execute runs the full selection/retry algorithm described in §4.D and
// returns the terminal response or a *gwerr.Error describing why none was
// produced.
func (ex *Executor) Execute(ctx context.Context, req *envelope.Request, pinAllowed PinChecker) (*envelope.Response, error) {
	candidates := ex.reg.Candidates(req.ChainID, req.Transport)
	if len(candidates) == 0 {
		return nil, gwerr.New(gwerr.UnsupportedChain, string(req.ChainID))
	}

	if req.ForcedProvider != "" {
		return ex.executePinned(ctx, req, candidates, pinAllowed)
	}

	return ex.executeWeighted(ctx, req, candidates)
}

func (ex *Executor) executePinned(ctx context.Context, req *envelope.Request, candidates []*registry.Entry, pinAllowed PinChecker) (*envelope.Response, error) {
	if pinAllowed == nil || !pinAllowed(req.ProjectID) {
		return nil, gwerr.New(gwerr.Unauthorized, "project not authorized to pin a provider")
	}
	kind := provider.ParseKind(req.ForcedProvider)
	var target *registry.Entry
	for _, e := range candidates {
		if e.Kind == kind {
			target = e
			break
		}
	}
	if target == nil {
		return nil, gwerr.New(gwerr.Unauthorized, "forced provider not registered for this chain")
	}
	resp, status, _ := ex.dispatch(ctx, req, target)
	return ex.terminalOrError(resp, status)
}

func (ex *Executor) executeWeighted(ctx context.Context, req *envelope.Request, candidates []*registry.Entry) (*envelope.Response, error) {
	tried := make(map[*registry.Entry]bool, len(candidates))
	attempts := 0

	for attempts < MaxRetries {
		pool := ex.livePool(candidates, tried)
		if len(pool) == 0 {
			return nil, gwerr.New(gwerr.TemporarilyUnavailable, "no candidate with positive weight remains")
		}

		idx := ex.pick(pool)
		chosen := pool[idx].entry
		tried[chosen] = true
		attempts++

		resp, status, _ := ex.dispatch(ctx, req, chosen)
		if status.Terminal() {
			return ex.terminalOrError(resp, status)
		}
		// transient: loop back and pick from the remaining pool.
	}
	return nil, gwerr.New(gwerr.TemporarilyUnavailable, "all candidates exhausted")
}

// SelectEntry performs one weighted pick among the live candidates for
// (chainID, transport) without dispatching or retrying. It is used by the
// WebSocket bridge, which dials a single upstream for the lifetime of a
// connection rather than per message.
func (ex *Executor) SelectEntry(chainID chain.ID, transport chain.Transport) (*registry.Entry, error) {
	candidates := ex.reg.Candidates(chainID, transport)
	if len(candidates) == 0 {
		return nil, gwerr.New(gwerr.UnsupportedChain, string(chainID))
	}
	pool := ex.livePool(candidates, nil)
	if len(pool) == 0 {
		return nil, gwerr.New(gwerr.TemporarilyUnavailable, "no candidate with positive weight remains")
	}
	idx := ex.pick(pool)
	return pool[idx].entry, nil
}

// Adapter exposes the adapter registered for kind, for collaborators (the
// WebSocket bridge) that need to dial the upstream directly rather than go
// through Execute's HTTP-shaped Proxy call.
func (ex *Executor) Adapter(kind provider.Kind) (provider.Adapter, bool) {
	a, ok := ex.adapters[kind]
	return a, ok
}

func (ex *Executor) livePool(candidates []*registry.Entry, tried map[*registry.Entry]bool) []candidate {
	pool := make([]candidate, 0, len(candidates))
	for _, e := range candidates {
		if tried[e] {
			continue
		}
		w := ex.reg.Weight(e)
		if w > 0 {
			pool = append(pool, candidate{entry: e, weight: w})
		}
	}
	return pool
}

func (ex *Executor) pick(pool []candidate) int {
	ex.rngMu.Lock()
	defer ex.rngMu.Unlock()
	return weightedPick(ex.rng, pool)
}

func (ex *Executor) dispatch(ctx context.Context, req *envelope.Request, entry *registry.Entry) (*envelope.Response, envelope.OutcomeStatus, error) {
	adapter, ok := ex.adapters[entry.Kind]
	if !ok {
		entry.RecordAttempt(envelope.Network)
		return nil, envelope.Network, gwerr.New(gwerr.Internal, "no adapter registered for provider kind "+entry.Kind.String())
	}

	attemptCtx, cancel := context.WithTimeout(ctx, provider.AttemptTimeout)
	defer cancel()

	resp, status, err := adapter.Proxy(attemptCtx, req, entry.URLTemplate, entry.AuthHeader, entry.AuthValue, entry.Overrides)
	if err != nil && ctx.Err() != nil && !errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		// the caller disconnected, not a provider timeout.
		status = envelope.Network
	}
	entry.RecordAttempt(status)
	return resp, status, err
}

func (ex *Executor) terminalOrError(resp *envelope.Response, status envelope.OutcomeStatus) (*envelope.Response, error) {
	switch status {
	case envelope.Ok, envelope.UpstreamBadRequest:
		if resp == nil {
			return nil, gwerr.New(gwerr.Internal, "adapter reported terminal status with no response")
		}
		return resp, nil
	case envelope.RateLimited:
		return nil, gwerr.New(gwerr.UpstreamRateLimited, "upstream rate limited")
	default:
		return nil, gwerr.New(gwerr.UpstreamTransient, "upstream transient failure: "+status.String())
	}
}
