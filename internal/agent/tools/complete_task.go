package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/taskative-core/server/internal/store"
)

type CompleteTaskInput struct {
	UserID string `json:"user_id"`
	TaskID int64  `json:"task_id"`
}

type CompleteTaskOutput struct {
	TaskID int64  `json:"task_id"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

func createCompleteTaskTool(st *store.Store) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCompleteTask,
			Desc: "Mark a task as completed. Trigger words: done, complete, finished.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": userIDParam(),
				"task_id": taskIDParam(),
			}),
		},
		func(ctx context.Context, in *CompleteTaskInput) (*CompleteTaskOutput, error) {
			if in.TaskID <= 0 {
				return nil, fmt.Errorf("task_id is required")
			}

			t, err := st.CompleteTask(ctx, in.UserID, in.TaskID)
			if err != nil {
				return nil, err
			}

			return &CompleteTaskOutput{TaskID: t.ID, Status: "completed", Title: t.Title}, nil
		},
	)
}
