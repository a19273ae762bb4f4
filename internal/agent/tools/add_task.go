package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/taskative-core/server/internal/store"
)

type AddTaskInput struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type AddTaskOutput struct {
	TaskID int64  `json:"task_id"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

func createAddTaskTool(st *store.Store) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolAddTask,
			Desc: "Create a new task for the user. Trigger words: create, add, remember.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": userIDParam(),
				"title": {
					Type:     "string",
					Desc:     "The title of the task.",
					Required: true,
				},
				"description": {
					Type: "string",
					Desc: "Optional description or details about the task.",
				},
			}),
		},
		func(ctx context.Context, in *AddTaskInput) (*AddTaskOutput, error) {
			title := strings.TrimSpace(in.Title)
			if title == "" {
				return nil, fmt.Errorf("title is required")
			}

			t, err := st.CreateTask(ctx, in.UserID, title, in.Description)
			if err != nil {
				return nil, err
			}

			return &AddTaskOutput{TaskID: t.ID, Status: "created", Title: t.Title}, nil
		},
	)
}
