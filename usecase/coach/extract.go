package coach

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/usecase"
)

const (
	extractMessageLimit = 20
	maxTitleLength      = 50
)

type ExtractRequest struct {
	ChatID    string `json:"chatId"`
	CoachType string `json:"coachType"`
	// Save also stores the extracted tasks as coach tasks on the chat.
	Save bool `json:"save,omitempty"`
}

type ExtractedTask struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    domain.Priority  `json:"priority"`
	Timeframe   domain.Timeframe `json:"timeframe"`
}

type ExtractResult struct {
	Tasks []ExtractedTask    `json:"tasks"`
	Saved []domain.CoachTask `json:"saved,omitempty"`
}

type extraction struct {
	Tasks []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		Timeframe   string `json:"timeframe"`
	} `json:"tasks"`
}

// ExtractTasks asks the model for actionable tasks from the caller's chat.
// A chat without messages yields no tasks and no model call.
func (uc *UseCase) ExtractTasks(ctx context.Context, userID string, req ExtractRequest) (*ExtractResult, error) {
	if strings.TrimSpace(req.ChatID) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "chatId is required")
	}
	chat, err := uc.chats.GetOwned(ctx, req.ChatID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := uc.chats.RecentMessages(ctx, chat.ID, extractMessageLimit)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return &ExtractResult{Tasks: []ExtractedTask{}}, nil
	}
	if uc.llm == nil {
		return nil, usecase.WrapAIError(llm.ErrNotConfigured)
	}

	persona := chat.CoachType
	if req.CoachType != "" {
		persona = domain.ParseCoachType(req.CoachType)
	}

	resp, err := uc.llm.Complete(ctx, llm.CompletionRequest{
		Task:         llm.TaskExtractTasks,
		SystemPrompt: extractSystemPrompt(persona),
		UserPrompt:   extractUserPrompt(persona, messages),
		JSONObject:   true,
	})
	if err != nil {
		return nil, usecase.WrapAIError(err)
	}
	parsed, err := llm.ExtractJSON[extraction](resp.Text, nil)
	if err != nil {
		uc.logger.Warn("extraction output rejected", zap.String("chat_id", chat.ID), zap.Error(err))
		return nil, usecase.WrapAIError(err)
	}

	result := &ExtractResult{Tasks: make([]ExtractedTask, 0, len(parsed.Tasks))}
	for _, t := range parsed.Tasks {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			continue
		}
		if r := []rune(title); len(r) > maxTitleLength {
			title = string(r[:maxTitleLength])
		}
		result.Tasks = append(result.Tasks, ExtractedTask{
			Title:       title,
			Description: strings.TrimSpace(t.Description),
			Priority:    domain.NormalizePriority(t.Priority),
			Timeframe:   domain.Timeframe(strings.TrimSpace(strings.ToLower(t.Timeframe))),
		})
	}
	uc.logger.Info("tasks extracted", zap.String("chat_id", chat.ID), zap.Int("tasks", len(result.Tasks)))

	if req.Save && len(result.Tasks) > 0 {
		now := uc.now()
		for _, t := range result.Tasks {
			created, err := uc.tasks.Create(ctx, &domain.CoachTask{
				UserID:      userID,
				CoachType:   persona,
				ChatID:      chat.ID,
				Title:       t.Title,
				Description: t.Description,
				Status:      domain.CoachTaskPending,
				Priority:    t.Priority,
				DueDate:     t.Timeframe.DueDate(now),
				AIGenerated: true,
			})
			if err != nil {
				return nil, err
			}
			result.Saved = append(result.Saved, *created)
		}
	}
	return result, nil
}

func extractSystemPrompt(persona domain.CoachType) string {
	return fmt.Sprintf(`You are an expert task extractor for a %[1]s coach. Analyze this conversation and extract 3-5 actionable tasks the user should work on.

Focus on %[2]s.

Return a JSON array of tasks with this structure:
{
  "tasks": [
    {
      "title": "Brief task title (max 50 chars)",
      "description": "One sentence description",
      "priority": "low" | "medium" | "high" | "urgent",
      "timeframe": "today" | "this_week" | "this_month"
    }
  ]
}

Only extract tasks that are:
1. Specific and actionable
2. Directly mentioned or implied by the user
3. Relevant to %[1]s coaching

If no clear tasks can be extracted, return {"tasks": []}`, persona, persona.TaskFocus())
}

func extractUserPrompt(persona domain.CoachType, messages []domain.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Extract tasks from this %s coaching conversation:\n\n", persona)
	for i, m := range messages {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", m.Role, m.Content)
	}
	return b.String()
}
