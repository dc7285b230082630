package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode converts tool call arguments into a typed request by round-tripping
// them through JSON, so numbers and nested values follow the struct tags.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	args := req.GetArguments()
	if len(args) == 0 {
		return out, nil
	}
	b, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("invalid arguments: %w", err)
	}
	return out, nil
}
