package monitor

import "time"

// Status is the latest health snapshot served on /health.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LLM        bool      `json:"llm_configured"`
	ChatLLM    bool      `json:"chat_configured"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy reports whether the primary store answers; Redis and the buffer
// only degrade logout and offline writes.
func (s Status) Healthy() bool {
	return s.PostgreSQL
}
