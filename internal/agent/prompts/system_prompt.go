package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/taskative-core/server/internal/agent/tools"
)

//go:embed template/system_prompt.txt
var systemPromptTemplate string

// RenderSystem renders the agent's behavioral preamble for one user.
func RenderSystem(ctx context.Context, userID string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(systemPromptTemplate),
	)
	vars := map[string]any{
		"UserID":       userID,
		"AddTool":      tools.ToolAddTask,
		"ListTool":     tools.ToolListTasks,
		"CompleteTool": tools.ToolCompleteTask,
		"DeleteTool":   tools.ToolDeleteTask,
		"UpdateTool":   tools.ToolUpdateTask,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("system prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("system prompt render: empty result")
	}
	return msgs[0].Content, nil
}
