package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/taskative-core/server/internal/store"
)

type DeleteTaskInput struct {
	UserID string `json:"user_id"`
	TaskID int64  `json:"task_id"`
}

type DeleteTaskOutput struct {
	TaskID int64  `json:"task_id"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

func createDeleteTaskTool(st *store.Store) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolDeleteTask,
			Desc: "Delete a task permanently. Trigger words: delete, remove, cancel.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": userIDParam(),
				"task_id": taskIDParam(),
			}),
		},
		func(ctx context.Context, in *DeleteTaskInput) (*DeleteTaskOutput, error) {
			if in.TaskID <= 0 {
				return nil, fmt.Errorf("task_id is required")
			}

			// The row is captured before deletion so the title survives.
			t, err := st.DeleteTask(ctx, in.UserID, in.TaskID)
			if err != nil {
				return nil, err
			}

			return &DeleteTaskOutput{TaskID: t.ID, Status: "deleted", Title: t.Title}, nil
		},
	)
}
