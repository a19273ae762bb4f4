package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/taskative-core/server/internal/store"
)

type ListTasksInput struct {
	UserID string `json:"user_id"`
	Status string `json:"status,omitempty"`
}

type TaskItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ListTasksOutput struct {
	Tasks []TaskItem `json:"tasks"`
}

func createListTasksTool(st *store.Store) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolListTasks,
			Desc: "List the user's tasks, oldest first. Trigger words: list, show, see.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user_id": userIDParam(),
				"status": {
					Type: "string",
					Desc: "Optional filter: 'completed' for done tasks, 'pending' for active tasks. Omit to list everything.",
				},
			}),
		},
		func(ctx context.Context, in *ListTasksInput) (*ListTasksOutput, error) {
			filter, ok := store.ParseTaskFilter(in.Status)
			if !ok {
				return nil, fmt.Errorf("invalid status %q: must be 'completed' or 'pending'", in.Status)
			}

			tasks, err := st.ListTasks(ctx, in.UserID, filter)
			if err != nil {
				return nil, err
			}

			items := make([]TaskItem, 0, len(tasks))
			for _, t := range tasks {
				items = append(items, TaskItem{
					ID:          t.ID,
					Title:       t.Title,
					Description: t.Description,
					Completed:   t.Completed,
					CreatedAt:   t.CreatedAt.Format(time.RFC3339),
					UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
				})
			}
			return &ListTasksOutput{Tasks: items}, nil
		},
	)
}
