package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/synnergy-network/rpc-gateway/internal/chain"
	"github.com/synnergy-network/rpc-gateway/internal/envelope"
	"github.com/synnergy-network/rpc-gateway/internal/gwerr"
	"github.com/synnergy-network/rpc-gateway/internal/provider"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleWebSocketUpgrade bridges a client WebSocket connection to a single
// upstream for the connection's lifetime: one provider is selected once by
// weighted sampling, then each direction is copied by its own goroutine, a
// direct translation of the design's "WS direction-local FIFO" note into
// two independent io.Copy-style loops.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		writeGatewayError(w, gwerr.New(gwerr.UnsupportedChain, "GET /v1 requires a WebSocket upgrade"))
		return
	}

	chainID, err := chain.Parse(r.URL.Query().Get("chainId"))
	if err != nil {
		writeGatewayError(w, gwerr.New(gwerr.UnsupportedChain, err.Error()))
		return
	}
	projectID := r.URL.Query().Get("projectId")
	if projectID == "" {
		writeGatewayError(w, gwerr.New(gwerr.Unauthorized, "projectId query parameter is required"))
		return
	}
	if _, err := s.Validator.Validate(r.Context(), projectID); err != nil {
		writeGatewayError(w, gwerr.Wrap(gwerr.Unauthorized, "project validation failed", err))
		return
	}

	entry, err := s.Executor.SelectEntry(chainID, chain.WebSocket)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	if _, ok := s.Executor.Adapter(entry.Kind); !ok {
		writeGatewayError(w, gwerr.New(gwerr.Internal, "no adapter registered for "+entry.Kind.String()))
		return
	}
	target, err := provider.BuildURL(entry.URLTemplate, chainID, entry.Overrides)
	if err != nil {
		writeGatewayError(w, gwerr.Wrap(gwerr.Internal, "failed to build upstream url", err))
		return
	}
	target = toWSScheme(target)

	upHeader := http.Header{}
	if entry.AuthHeader != "" {
		upHeader.Set(entry.AuthHeader, entry.AuthValue)
	}
	upstream, _, err := websocket.DefaultDialer.Dial(target, upHeader)
	if err != nil {
		entry.RecordAttempt(envelope.Network)
		writeGatewayError(w, gwerr.Wrap(gwerr.UpstreamTransient, "failed to dial upstream websocket", err))
		return
	}
	defer upstream.Close()

	downstream, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer downstream.Close()

	entry.RecordAttempt(envelope.Ok)
	s.Log.WithFields(logrus.Fields{
		"chain":    string(chainID),
		"provider": entry.Kind.String(),
	}).Info("websocket bridge established")

	done := make(chan struct{}, 2)
	go copyWS(downstream, upstream, done)
	go copyWS(upstream, downstream, done)
	<-done
}

func copyWS(dst, src *websocket.Conn, done chan<- struct{}) {
	defer func() { done <- struct{}{} }()
	for {
		mt, msg, err := src.ReadMessage()
		if err != nil {
			return
		}
		_ = dst.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := dst.WriteMessage(mt, msg); err != nil {
			return
		}
	}
}

func toWSScheme(u string) string {
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	default:
		return u
	}
}
