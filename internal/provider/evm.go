package provider

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// evmAddressMethods names the JSON-RPC methods whose first parameter is an
// address, the ones worth validating before a round trip to an eip155
// upstream.
var evmAddressMethods = map[string]bool{
	"eth_getBalance":          true,
	"eth_getTransactionCount": true,
	"eth_getCode":             true,
	"eth_getStorageAt":        true,
}

// ValidateEVMAddressParam reports whether method is address-taking and, if
// so, whether its first parameter is a well-formed hex address. params is
// the JSON-RPC "params" array, not the full request envelope. Malformed
// addresses are caught here as a terminal UpstreamBadRequest instead of
// being sent to the upstream and classified after the fact.
func ValidateEVMAddressParam(method string, params json.RawMessage) bool {
	if !evmAddressMethods[method] {
		return true
	}
	var args []json.RawMessage
	if err := json.Unmarshal(params, &args); err != nil || len(args) == 0 {
		return true // malformed params are the upstream's problem to report
	}
	var addr string
	if err := json.Unmarshal(args[0], &addr); err != nil {
		return true
	}
	return common.IsHexAddress(addr)
}
