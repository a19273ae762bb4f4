package agent

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskative-core/server/internal/agent/model"
	"github.com/taskative-core/server/internal/agent/tools"
	"github.com/taskative-core/server/internal/store"
)

// scriptedModel replays canned responses and records every transcript it
// was handed. Past the end of the script it repeats the last entry.
type scriptedModel struct {
	responses   []*schema.Message
	errs        []error
	transcripts [][]*schema.Message
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	m.transcripts = append(m.transcripts, input)
	i := len(m.transcripts) - 1
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

func textResponse(content string) *schema.Message {
	return schema.AssistantMessage(content, nil)
}

func toolCallResponse(id, name, args string) *schema.Message {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: id, Type: "function", Function: schema.FunctionCall{Name: name, Arguments: args}},
		},
	}
}

func newTestRunner(t *testing.T, cm ChatModel, maxRounds int) (*Runner, *store.Store) {
	t.Helper()
	st, err := store.Open(store.Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    4,
		ConnMaxLifetime: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	dispatcher, err := tools.NewDispatcher(context.Background(), tools.TaskTools(st))
	require.NoError(t, err)

	return NewRunner(cm, dispatcher, model.AgentConfig{MaxToolRounds: maxRounds}), st
}

func TestRun_NoToolCalls(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{textResponse("Hello! How can I help?")}}
	runner, _ := newTestRunner(t, cm, 10)

	reply, calls := runner.Run(context.Background(), "alice", nil, "hi there")

	assert.Equal(t, "Hello! How can I help?", reply)
	assert.Empty(t, calls)
	require.Len(t, cm.transcripts, 1)

	transcript := cm.transcripts[0]
	require.Len(t, transcript, 2, "system preamble plus the new turn")
	assert.Equal(t, schema.System, transcript[0].Role)
	assert.Contains(t, transcript[0].Content, `user_id "alice"`)
	assert.Equal(t, schema.User, transcript[1].Role)
	assert.Equal(t, "hi there", transcript[1].Content)
}

func TestRun_HistoryMapping(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{textResponse("ok")}}
	runner, _ := newTestRunner(t, cm, 10)

	history := []store.Message{
		{Role: store.RoleUser, Content: "add a task called 'buy milk'"},
		{Role: store.RoleAssistant, Content: "Done! I created 'buy milk'."},
	}
	_, _ = runner.Run(context.Background(), "alice", history, "list my tasks")

	transcript := cm.transcripts[0]
	require.Len(t, transcript, 4)
	assert.Equal(t, schema.System, transcript[0].Role)
	assert.Equal(t, schema.User, transcript[1].Role)
	assert.Equal(t, "add a task called 'buy milk'", transcript[1].Content)
	assert.Equal(t, schema.Assistant, transcript[2].Role)
	assert.Equal(t, schema.User, transcript[3].Role)
	assert.Equal(t, "list my tasks", transcript[3].Content)
}

func TestRun_SingleToolRound(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{
		toolCallResponse("call-1", tools.ToolAddTask, `{"title":"buy milk"}`),
		textResponse("I created 'buy milk' for you."),
	}}
	runner, st := newTestRunner(t, cm, 10)

	reply, calls := runner.Run(context.Background(), "alice", nil, "add a task called 'buy milk'")

	assert.Equal(t, "I created 'buy milk' for you.", reply)
	require.Len(t, calls, 1)
	assert.Equal(t, tools.ToolAddTask, calls[0].Tool)
	assert.Equal(t, "buy milk", calls[0].Arguments["title"])
	assert.Equal(t, "created", calls[0].Result["status"])

	// The task really exists.
	tasks, err := st.ListTasks(context.Background(), "alice", store.FilterAll)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Title)

	// The follow-up transcript carries the assistant's request and the
	// tool result before the final generation.
	require.Len(t, cm.transcripts, 2)
	followUp := cm.transcripts[1]
	require.Len(t, followUp, 4)
	assert.Equal(t, schema.Assistant, followUp[2].Role)
	assert.Equal(t, schema.Tool, followUp[3].Role)
	assert.Contains(t, followUp[3].Content, `"status":"created"`)
	assert.Equal(t, "call-1", followUp[3].ToolCallID)
}

func TestRun_SiblingCallsInOrder(t *testing.T) {
	resp := &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: "call-1", Type: "function", Function: schema.FunctionCall{Name: tools.ToolAddTask, Arguments: `{"title":"first"}`}},
			{ID: "call-2", Type: "function", Function: schema.FunctionCall{Name: tools.ToolAddTask, Arguments: `{"title":"second"}`}},
		},
	}
	cm := &scriptedModel{responses: []*schema.Message{resp, textResponse("both created")}}
	runner, st := newTestRunner(t, cm, 10)

	_, calls := runner.Run(context.Background(), "alice", nil, "add two tasks")

	require.Len(t, calls, 2)
	assert.Equal(t, "first", calls[0].Arguments["title"])
	assert.Equal(t, "second", calls[1].Arguments["title"])

	tasks, err := st.ListTasks(context.Background(), "alice", store.FilterAll)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
}

func TestRun_ModelErrorDegrades(t *testing.T) {
	cm := &scriptedModel{errs: []error{errors.New("connection refused")}}
	runner, _ := newTestRunner(t, cm, 10)

	reply, calls := runner.Run(context.Background(), "alice", nil, "hi")

	assert.Contains(t, reply, "I encountered an error with the AI service")
	assert.Contains(t, reply, "connection refused")
	assert.Empty(t, calls)
}

func TestRun_ToolErrorFedBack(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{
		toolCallResponse("call-1", tools.ToolCompleteTask, `{"task_id":999}`),
		textResponse("Sorry, I couldn't find that task."),
	}}
	runner, _ := newTestRunner(t, cm, 10)

	reply, calls := runner.Run(context.Background(), "alice", nil, "complete task 999")

	assert.Equal(t, "Sorry, I couldn't find that task.", reply)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Result["error"], "task not found")

	// The error went back to the model as a normal tool result.
	followUp := cm.transcripts[1]
	assert.Equal(t, schema.Tool, followUp[len(followUp)-1].Role)
	assert.Contains(t, followUp[len(followUp)-1].Content, "task not found")
}

func TestRun_UnknownToolTolerated(t *testing.T) {
	cm := &scriptedModel{responses: []*schema.Message{
		toolCallResponse("call-1", "launch_rocket", `{}`),
		textResponse("That tool doesn't exist, sorry."),
	}}
	runner, _ := newTestRunner(t, cm, 10)

	reply, calls := runner.Run(context.Background(), "alice", nil, "launch a rocket")

	assert.Equal(t, "That tool doesn't exist, sorry.", reply)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Result["error"], "unknown tool")
}

func TestRun_RoundBudgetEnforced(t *testing.T) {
	// The model never stops asking for tools.
	cm := &scriptedModel{responses: []*schema.Message{
		toolCallResponse("call-1", tools.ToolListTasks, `{}`),
	}}
	runner, _ := newTestRunner(t, cm, 2)

	reply, calls := runner.Run(context.Background(), "alice", nil, "loop forever")

	assert.Equal(t, budgetExhaustedReply, reply)
	assert.Len(t, calls, 2, "two rounds of tool calls before the budget cuts in")
	assert.Len(t, cm.transcripts, 3)
}
