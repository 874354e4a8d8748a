package autopilot

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fastygo/coachly/domain"
)

const planSystemPrompt = `You are an autonomous life optimization agent. Create a detailed, actionable plan.
Return JSON:
{
  "milestones": [
    {
      "title": "string",
      "description": "string",
      "target_date": "YYYY-MM-DD",
      "tasks": ["string"],
      "metrics": ["string"]
    }
  ],
  "daily_schedule": {
    "morning": ["task"],
    "afternoon": ["task"],
    "evening": ["task"]
  },
  "first_week_tasks": [
    {
      "task_text": "string",
      "priority": "high|medium|low",
      "day": 1
    }
  ],
  "motivational_note": "string",
  "estimated_completion": "YYYY-MM-DD",
  "difficulty_assessment": "string"
}`

const dailySystemPrompt = `You are an autonomous life optimization agent. Generate today's tasks based on the user's goal and recent performance.
If completion rate is below 50%, reduce difficulty. If above 80%, increase challenge.

Return JSON:
{
  "tasks": [
    {
      "task_text": "string",
      "priority": "high|medium|low"
    }
  ],
  "adjustment_reason": "string or null",
  "encouragement": "string"
}`

const weeklySystemPrompt = `You are generating a weekly performance report.
Return JSON:
{
  "summary": "string (2-3 sentences)",
  "performance_score": number (0-100),
  "completion_rate": number,
  "insights": ["string"],
  "improvements": ["string"],
  "next_week_strategy": "string",
  "ai_feedback": "string (personalized motivational feedback)"
}`

const behaviorSystemPrompt = `You are a behavioral analyst for a life optimization platform.
Analyze the user's behavior and provide recommendations.
Return JSON:
{
  "behavior_assessment": "string",
  "risk_level": "low|medium|high",
  "recommendations": ["string"],
  "adjustment_needed": boolean,
  "new_difficulty": "easy|medium|hard" or null,
  "motivational_message": "string",
  "retention_action": "string or null"
}`

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func planUserPrompt(in PlanInput) string {
	return fmt.Sprintf(`Create a plan for:
Goal: %s
Deadline: %s
Daily available time: %d minutes
Difficulty preference: %s
Challenges: %s
Motivation type: %s`,
		in.GoalDescription,
		orDefault(in.Deadline, "Flexible"),
		in.DailyTime,
		in.Difficulty,
		orDefault(in.Challenges, "None specified"),
		orDefault(in.MotivationType, "Achievement-oriented"),
	)
}

type recentTask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

func dailyUserPrompt(goal *domain.Goal, rate float64, recent []domain.Task) string {
	if len(recent) > 7 {
		recent = recent[:7]
	}
	brief := make([]recentTask, 0, len(recent))
	for _, t := range recent {
		brief = append(brief, recentTask{Text: t.Text, Completed: t.Completed})
	}

	return fmt.Sprintf(`Goal: %s
Difficulty: %s
Daily time: %d minutes
Recent completion rate: %d%%
Recent tasks: %s
Milestones: %s`,
		goal.Description,
		goal.Difficulty,
		goal.DailyTimeMinutes,
		domain.RoundHalfUp(rate),
		mustJSON(brief),
		rawOrNull(goal.Milestones),
	)
}

type weekTask struct {
	Text      string          `json:"text"`
	Completed bool            `json:"completed"`
	Priority  domain.Priority `json:"priority"`
}

func weeklyUserPrompt(goal *domain.Goal, tasks []domain.Task, completed, total int, rate float64) string {
	details := make([]weekTask, 0, len(tasks))
	for _, t := range tasks {
		details = append(details, weekTask{Text: t.Text, Completed: t.Completed, Priority: t.Priority})
	}

	return fmt.Sprintf(`Goal: %s
Tasks this week: %d
Completed: %d
Completion rate: %d%%
Task details: %s
Current streak: %d days
Overall progress: %d%%`,
		goal.Description,
		total,
		completed,
		domain.RoundHalfUp(rate),
		mustJSON(details),
		goal.StreakCount,
		goal.ProgressPercent,
	)
}

func behaviorUserPrompt(goal *domain.Goal, daysSinceActive int, avgRate float64, trigger RetentionTrigger) string {
	return fmt.Sprintf(`Goal: %s
Days since last activity: %d
Average completion rate (7 days): %d%%
Current difficulty: %s
Current streak: %d
Retention trigger: %s
Progress: %d%%`,
		goal.Description,
		daysSinceActive,
		domain.RoundHalfUp(avgRate),
		goal.Difficulty,
		goal.StreakCount,
		orDefault(string(trigger), "none"),
		goal.ProgressPercent,
	)
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func rawOrNull(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	return string(raw)
}
