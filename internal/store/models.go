package store

import "time"

// MessageRole enumerates who authored a conversation message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Task is a single to-do item owned by exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Conversation groups an ordered sequence of messages for one user.
type Conversation struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one conversation turn. Messages are append-only: the system
// never updates or deletes them.
type Message struct {
	ID             int64       `json:"id"`
	ConversationID int64       `json:"conversation_id"`
	UserID         string      `json:"user_id"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`
}

// TaskFilter narrows ListTasks by completion state.
type TaskFilter string

const (
	FilterAll       TaskFilter = ""
	FilterCompleted TaskFilter = "completed"
	FilterPending   TaskFilter = "pending"
)

// ParseTaskFilter validates the optional status argument of the list tool.
func ParseTaskFilter(s string) (TaskFilter, bool) {
	switch TaskFilter(s) {
	case FilterAll, FilterCompleted, FilterPending:
		return TaskFilter(s), true
	default:
		return FilterAll, false
	}
}
