package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/taskative-core/server/internal/store"
)

// UpdateTaskInput uses pointers for the mutable fields so "not provided"
// and "set to empty" stay distinguishable.
type UpdateTaskInput struct {
	UserID      string  `json:"user_id"`
	TaskID      int64   `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type UpdateTaskOutput struct {
	TaskID int64  `json:"task_id"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

func createUpdateTaskTool(st *store.Store) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolUpdateTask,
			Desc: "Update a task's title or description. Trigger words: update, change, rename.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": userIDParam(),
				"task_id": taskIDParam(),
				"title": {
					Type: "string",
					Desc: "New title for the task (optional).",
				},
				"description": {
					Type: "string",
					Desc: "New description for the task (optional).",
				},
			}),
		},
		func(ctx context.Context, in *UpdateTaskInput) (*UpdateTaskOutput, error) {
			if in.TaskID <= 0 {
				return nil, fmt.Errorf("task_id is required")
			}

			t, err := st.UpdateTask(ctx, in.UserID, in.TaskID, in.Title, in.Description)
			if err != nil {
				return nil, err
			}

			return &UpdateTaskOutput{TaskID: t.ID, Status: "updated", Title: t.Title}, nil
		},
	)
}
