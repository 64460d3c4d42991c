package models

import "time"

// ChatSession links a provider and a performer over a task. Unique on
// (task, provider, performer); creation is idempotent on that triple.
type ChatSession struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task"`
	ProviderID  int64     `json:"provider"`
	PerformerID int64     `json:"performer"`
	RoomName    string    `json:"room_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Task      *Task        `json:"task_detail,omitempty"`
	Provider  *UserProfile `json:"provider_profile,omitempty"`
	Performer *UserProfile `json:"performer_profile,omitempty"`
}

// ChatMessage is append-only; retrieval is newest first.
type ChatMessage struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"chat_session"`
	ProfileID int64     `json:"user_profile"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
