package model

// ChatModelConfig configures the Gemini model used for the chat loop.
type ChatModelConfig struct {
	Model       string  `envconfig:"AGENT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"AGENT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"AGENT_TEMPERATURE" default:"0.4"`
}

// AgentConfig bounds the model<->tool loop. MaxToolRounds is the maximum
// number of model round trips that may request tools within one chat turn;
// once spent, the loop stops instead of burning unbounded cost.
type AgentConfig struct {
	MaxToolRounds int `envconfig:"AGENT_MAX_TOOL_ROUNDS" default:"10"`
}
