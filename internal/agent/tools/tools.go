// Package tools defines the five task-management tools exposed to the
// model, plus the dispatch table that executes requested calls against the
// store.
package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/taskative-core/server/internal/store"
)

const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolCompleteTask = "complete_task"
	ToolDeleteTask   = "delete_task"
	ToolUpdateTask   = "update_task"
)

// TaskTools returns the full toolset, each handler closing over the store.
// Every handler opens its own statement/transaction for the single call;
// nothing is held across dispatches.
func TaskTools(st *store.Store) []tool.BaseTool {
	return []tool.BaseTool{
		createAddTaskTool(st),
		createListTasksTool(st),
		createCompleteTaskTool(st),
		createDeleteTaskTool(st),
		createUpdateTaskTool(st),
	}
}

// ToolInfos extracts the schemas to bind to the chat model.
func ToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// userIDParam is shared by every tool schema.
func userIDParam() *schema.ParameterInfo {
	return &schema.ParameterInfo{
		Type:     "string",
		Desc:     "The ID of the user the operation is scoped to.",
		Required: true,
	}
}

func taskIDParam() *schema.ParameterInfo {
	return &schema.ParameterInfo{
		Type:     "integer",
		Desc:     "The ID of the task, as returned by add_task or list_tasks.",
		Required: true,
	}
}
