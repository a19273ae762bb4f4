// Package agent runs one chat turn: it alternates between the hosted chat
// model and the task tool dispatch table until the model produces a final
// text answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/taskative-core/server/internal/agent/model"
	"github.com/taskative-core/server/internal/agent/prompts"
	"github.com/taskative-core/server/internal/agent/tools"
	"github.com/taskative-core/server/internal/store"
	logx "github.com/taskative-core/server/pkg/logger"
)

const defaultMaxToolRounds = 10

// upstreamErrorReply mirrors the degraded-but-successful contract: a model
// API failure becomes conversational content, never a transport error.
const upstreamErrorReply = "I encountered an error with the AI service: %v"

// budgetExhaustedReply is returned when the model keeps requesting tools
// past the configured round budget.
const budgetExhaustedReply = "I couldn't finish the request within the allowed number of tool calls. Please try again with a simpler request."

// ChatModel is the slice of the eino chat model the loop needs. Satisfied
// by *gemini.ChatModel; tests substitute a scripted fake.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// Runner drives the model<->tool loop for single chat turns. It is
// stateless across calls; everything a turn needs arrives as arguments.
type Runner struct {
	cm         ChatModel
	dispatcher *tools.Dispatcher
	maxRounds  int
}

// NewRunner wires the injected chat model handle to the dispatch table.
func NewRunner(cm ChatModel, dispatcher *tools.Dispatcher, cfg model.AgentConfig) *Runner {
	maxRounds := cfg.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = defaultMaxToolRounds
	}
	return &Runner{cm: cm, dispatcher: dispatcher, maxRounds: maxRounds}
}

// Run executes one chat turn. history is the conversation so far in order;
// newMessage is the incoming user turn (not part of history). The reply is
// always usable text: upstream failures degrade into an apologetic answer
// with an empty invocation log, matching the endpoint's always-200 chat
// contract. Tool failures are not fatal; they are fed back to the model as
// {"error": ...} results and recorded in the log like any other call.
func (r *Runner) Run(ctx context.Context, userID string, history []store.Message, newMessage string) (string, []model.ToolCall) {
	calls := make([]model.ToolCall, 0)

	preamble, err := prompts.RenderSystem(ctx, userID)
	if err != nil {
		logx.Error().Err(err).Msg("failed to render system prompt")
		return fmt.Sprintf(upstreamErrorReply, err), calls
	}

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(preamble))
	for _, m := range history {
		switch m.Role {
		case store.RoleUser:
			messages = append(messages, schema.UserMessage(m.Content))
		case store.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(m.Content, nil))
		}
	}
	messages = append(messages, schema.UserMessage(newMessage))

	for round := 0; ; round++ {
		resp, err := r.cm.Generate(ctx, messages)
		if err != nil {
			// Terminal: no retry, and the returned log is empty even if
			// earlier rounds dispatched tools.
			logx.Error().Err(err).Str("user_id", userID).Msg("chat model call failed")
			return fmt.Sprintf(upstreamErrorReply, err), []model.ToolCall{}
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content, calls
		}

		if round >= r.maxRounds {
			logx.Warn().
				Str("user_id", userID).
				Int("max_rounds", r.maxRounds).
				Msg("tool round budget exhausted")
			return budgetExhaustedReply, calls
		}

		// Some providers omit tool_call IDs; synthesize them so results can
		// be keyed back to their requests.
		for i := range resp.ToolCalls {
			if resp.ToolCalls[i].ID == "" {
				resp.ToolCalls[i].ID = fmt.Sprintf("call_%d", len(calls)+i+1)
			}
		}

		// Requested calls run strictly in order; all results of this batch
		// are appended before the model sees any of them.
		messages = append(messages, resp)
		for _, tc := range resp.ToolCalls {
			args, result := r.dispatcher.Dispatch(ctx, userID, tc.Function.Name, tc.Function.Arguments)
			calls = append(calls, model.ToolCall{
				Tool:      tc.Function.Name,
				Arguments: args,
				Result:    result,
			})

			b, err := json.Marshal(result)
			if err != nil {
				b = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
			}
			messages = append(messages, &schema.Message{
				Role:       schema.Tool,
				Content:    string(b),
				ToolCallID: tc.ID,
			})
		}
	}
}
