package rpc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"defind/core/types"
)

// RPCRequest is a JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      interface{}       `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// RPCResponse is a JSON-RPC 2.0 response envelope.
type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError carries a JSON-RPC failure.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// StakeEntryResult is the wire shape of one (term, amount) position.
// Amounts travel as decimal strings so 64-bit values survive JSON.
type StakeEntryResult struct {
	Term   string `json:"term"`
	Amount string `json:"amount"`
}

// DescriptionResult is the wire shape of a website description record.
type DescriptionResult struct {
	Name        string `json:"name"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

func stakeEntryResults(entries []types.StakeEntry) []StakeEntryResult {
	out := make([]StakeEntryResult, 0, len(entries))
	for _, entry := range entries {
		out = append(out, StakeEntryResult{
			Term:   entry.Term,
			Amount: strconv.FormatUint(entry.Amount, 10),
		})
	}
	return out
}

func descriptionResults(descs []types.WebsiteDescription) []DescriptionResult {
	out := make([]DescriptionResult, 0, len(descs))
	for _, desc := range descs {
		out = append(out, DescriptionResult{
			Name:        desc.Name,
			Link:        desc.Link,
			Description: desc.Description,
		})
	}
	return out
}

// parseAmount decodes a decimal string amount. Amounts are unsigned; an
// empty string is rejected.
func parseAmount(amount string) (uint64, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return 0, fmt.Errorf("amount is required")
	}
	value, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount")
	}
	return value, nil
}
