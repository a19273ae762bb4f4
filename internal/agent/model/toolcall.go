package model

// ToolCall is one entry in the transparency log returned alongside a chat
// response: which tool ran, with what arguments, and what it produced.
// Errors are recorded as a {"error": ...} result, not surfaced as failures.
type ToolCall struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Result    map[string]any `json:"result"`
}
