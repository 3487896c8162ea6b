// Package chain implements the CAIP-2 chain identifier and transport types
// shared by the registry, selector, and provider adapters.
package chain

import (
	"fmt"
	"strings"
)

// ID is a CAIP-2 chain identifier, namespace:reference (e.g. "eip155:1").
// Equality is exact-byte; ID is comparable and safe as a map key.
type ID string

// Transport is the wire protocol used to reach a provider.
type Transport int

const (
	Http Transport = iota
	WebSocket
)

func (t Transport) String() string {
	switch t {
	case Http:
		return "http"
	case WebSocket:
		return "ws"
	default:
		return "unknown"
	}
}

// knownNamespaces is the closed set of CAIP-2 namespaces this gateway
// understands. A namespace outside this set is UnsupportedChain.
var knownNamespaces = map[string]bool{
	"eip155": true,
	"solana": true,
	"near":   true,
	"bip122": true,
	"tron":   true,
	"ton":    true,
	"sui":    true,
	"stacks": true,
}

// Namespace returns the CAIP-2 namespace portion of the identifier.
func (c ID) Namespace() string {
	ns, _, ok := strings.Cut(string(c), ":")
	if !ok {
		return ""
	}
	return ns
}

// Reference returns the CAIP-2 reference portion of the identifier.
func (c ID) Reference() string {
	_, ref, ok := strings.Cut(string(c), ":")
	if !ok {
		return ""
	}
	return ref
}

// Valid reports whether c is well formed and its namespace is recognized.
func (c ID) Valid() bool {
	ns, ref, ok := strings.Cut(string(c), ":")
	if !ok || ns == "" || ref == "" {
		return false
	}
	return knownNamespaces[ns]
}

// Parse validates and returns s as an ID, or an error if the namespace is
// not one of the recognized CAIP-2 namespaces.
func Parse(s string) (ID, error) {
	id := ID(s)
	if !id.Valid() {
		return "", fmt.Errorf("chain: unsupported or malformed chain id %q", s)
	}
	return id, nil
}
