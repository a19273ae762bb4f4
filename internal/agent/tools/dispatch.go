package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/tool"

	logx "github.com/taskative-core/server/pkg/logger"
)

// Dispatcher maps tool names to their handlers and executes requested
// calls one at a time. Handler failures are not fatal: they come back as
// a {"error": ...} result the model can react to.
type Dispatcher struct {
	tools map[string]tool.InvokableTool
}

// NewDispatcher builds the dispatch table from the toolset.
func NewDispatcher(ctx context.Context, ts []tool.BaseTool) (*Dispatcher, error) {
	table := make(map[string]tool.InvokableTool, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		inv, ok := t.(tool.InvokableTool)
		if !ok {
			return nil, fmt.Errorf("tool %s is not invokable", info.Name)
		}
		table[info.Name] = inv
	}
	return &Dispatcher{tools: table}, nil
}

// Dispatch runs one requested tool call synchronously. userID is the
// authenticated caller from the request path; it overrides whatever
// user_id the model put in the arguments, so a task can never be touched
// on behalf of someone else. Both the sanitized arguments and the result
// are returned as plain maps for the transparency log.
func (d *Dispatcher) Dispatch(ctx context.Context, userID, name, argumentsJSON string) (map[string]any, map[string]any) {
	args := sanitizeArguments(userID, argumentsJSON)

	t, ok := d.tools[name]
	if !ok {
		// Hallucinated or malformed tool call; hand the model a structured
		// error instead of failing the turn.
		logx.Warn().Str("tool", name).Msg("unknown tool requested")
		return args, map[string]any{"error": fmt.Sprintf("unknown tool: %s", name)}
	}

	b, err := json.Marshal(args)
	if err != nil {
		return args, map[string]any{"error": fmt.Sprintf("invalid arguments: %v", err)}
	}

	logx.Info().Str("tool", name).RawJSON("arguments", b).Msg("executing tool")
	out, err := t.InvokableRun(ctx, string(b))
	if err != nil {
		logx.Warn().Err(err).Str("tool", name).Msg("tool execution failed")
		return args, map[string]any{"error": err.Error()}
	}

	result := map[string]any{}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		result = map[string]any{"output": out}
	}
	return args, result
}

// sanitizeArguments decodes the model-supplied argument JSON best-effort,
// coerces loosely-typed fields, and forces the authenticated user id.
func sanitizeArguments(userID, argumentsJSON string) map[string]any {
	m := map[string]any{}
	if strings.TrimSpace(argumentsJSON) != "" {
		// Non-JSON arguments are dropped; the tool's own validation will
		// report the missing fields.
		_ = json.Unmarshal([]byte(argumentsJSON), &m)
	}

	// Providers occasionally send task_id as a string.
	if v, ok := m["task_id"].(string); ok {
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			m["task_id"] = n
		}
	}

	m["user_id"] = userID
	return m
}
