package llm

import "time"

// TaskType identifies which operation an LLM call belongs to.
type TaskType string

const (
	TaskPlan         TaskType = "generate_plan"
	TaskDailyTasks   TaskType = "generate_daily_tasks"
	TaskWeeklyReport TaskType = "generate_weekly_report"
	TaskBehavior     TaskType = "analyze_behavior"
	TaskExtractTasks TaskType = "extract_tasks"
	TaskChat         TaskType = "chat"
	TaskMood         TaskType = "analyze_mood"
	TaskJournal      TaskType = "analyze_journal"
)

// StreamFormat is the wire format spoken by the chat upstream.
type StreamFormat string

const (
	// FormatOpenAI is OpenAI-compatible chat completion SSE, relayed as is.
	FormatOpenAI StreamFormat = "openai"
	// FormatTGI is text-generation-inference token SSE, translated to OpenAI chunks.
	FormatTGI StreamFormat = "tgi"
)

func (f StreamFormat) IsValid() bool {
	return f == FormatOpenAI || f == FormatTGI
}

// TaskConfig holds per-task parameters. Zero values are left to the gateway.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// ChatConfig describes the streaming upstream used by the chat endpoint.
type ChatConfig struct {
	Endpoint     string
	APIKey       string
	Model        string
	Format       StreamFormat
	MaxNewTokens int
	Temperature  float64
	TopP         float64
	Timeout      time.Duration
}

// Configured reports whether the chat upstream can be called.
func (c ChatConfig) Configured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

// Config holds the gateway settings for JSON completions and chat streaming.
type Config struct {
	Endpoint  string
	APIKey    string
	Model     string
	TimeoutMs int
	Chat      ChatConfig
	Tasks     map[TaskType]TaskConfig
}

// DefaultConfig returns a Config pointing at an OpenAI-compatible gateway with no key.
func DefaultConfig() Config {
	return Config{
		Endpoint:  "https://ai.gateway.lovable.dev/v1/chat/completions",
		Model:     "google/gemini-2.5-flash",
		TimeoutMs: 30000,
		Chat: ChatConfig{
			Endpoint:     "https://ai.gateway.lovable.dev/v1/chat/completions",
			Model:        "google/gemini-2.5-flash",
			Format:       FormatOpenAI,
			MaxNewTokens: 500,
			Temperature:  0.7,
			TopP:         0.95,
			Timeout:      2 * time.Minute,
		},
		Tasks: map[TaskType]TaskConfig{
			TaskPlan:         {TimeoutMs: 60000},
			TaskDailyTasks:   {TimeoutMs: 30000},
			TaskWeeklyReport: {TimeoutMs: 30000},
			TaskBehavior:     {TimeoutMs: 30000},
			TaskExtractTasks: {TimeoutMs: 30000},
			TaskMood:         {TimeoutMs: 30000},
			TaskJournal:      {TimeoutMs: 30000},
		},
	}
}

// Configured reports whether JSON completions can be requested.
func (c Config) Configured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

// TaskTimeout returns the effective timeout for a given task type.
func (c Config) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return time.Duration(tc.TimeoutMs) * time.Millisecond
	}
	if c.TimeoutMs > 0 {
		return time.Duration(c.TimeoutMs) * time.Millisecond
	}
	return 30 * time.Second
}
