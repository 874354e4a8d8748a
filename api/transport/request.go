package transport

import "encoding/json"

// FunctionRequest is the body of the autopilot agent endpoint.
type FunctionRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type CoachTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoachType   string `json:"coach_type"`
	ChatID      string `json:"chat_id"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

type ChatCreateRequest struct {
	CoachType string `json:"coach_type"`
	Title     string `json:"title"`
}

type ChatRenameRequest struct {
	Title string `json:"title"`
}

type MessageInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type MessagesRequest struct {
	Messages []MessageInput `json:"messages"`
}

type AutopilotToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

type GoalStatusRequest struct {
	Status string `json:"status"`
}

type ProfileUpdateRequest struct {
	Email string `json:"email"`
}
