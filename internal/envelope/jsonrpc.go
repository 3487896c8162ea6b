package envelope

import "encoding/json"

// RPCRequest is a single JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// RPCResponse is a single JSON-RPC 2.0 response envelope.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// ParseRequest decodes a single JSON-RPC envelope. It does not attempt to
// distinguish a batch; callers should try ParseBatch first when the body
// looks like a JSON array.
func ParseRequest(body []byte) (*RPCRequest, error) {
	var req RPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// ParseBatch decodes a JSON-RPC batch (a JSON array of request envelopes).
func ParseBatch(body []byte) ([]RPCRequest, error) {
	var batch []RPCRequest
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// IsBatch reports whether body looks like a JSON array rather than a JSON
// object, ignoring leading whitespace.
func IsBatch(body []byte) bool {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// WrapNonJSON builds a synthetic JSON-RPC success envelope around a raw
// non-JSON upstream body, echoing id, for upstreams known to return plain
// text on success (e.g. some TON/Tron gateways).
func WrapNonJSON(id json.RawMessage, raw []byte) ([]byte, error) {
	resp := RPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  json.RawMessage(mustQuote(raw)),
	}
	return json.Marshal(resp)
}

func mustQuote(raw []byte) []byte {
	quoted, err := json.Marshal(string(raw))
	if err != nil {
		return []byte(`""`)
	}
	return quoted
}
