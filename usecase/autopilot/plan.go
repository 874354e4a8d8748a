package autopilot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
)

// PlanInput is the onboarding answer set that seeds a goal.
type PlanInput struct {
	GoalDescription string `json:"goalDescription"`
	Deadline        string `json:"deadline"`
	DailyTime       int    `json:"dailyTime"`
	Difficulty      string `json:"difficulty"`
	Challenges      string `json:"challenges"`
	MotivationType  string `json:"motivationType"`
}

type Milestone struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TargetDate  string   `json:"target_date"`
	Tasks       []string `json:"tasks"`
	Metrics     []string `json:"metrics"`
}

type DailySchedule struct {
	Morning   []string `json:"morning"`
	Afternoon []string `json:"afternoon"`
	Evening   []string `json:"evening"`
}

// PlannedTask is a first-week task; Day runs 1 to 7.
type PlannedTask struct {
	TaskText string `json:"task_text"`
	Priority string `json:"priority"`
	Day      int    `json:"day"`
}

// Plan is the model's answer to generate_plan.
type Plan struct {
	Milestones           []Milestone   `json:"milestones"`
	DailySchedule        DailySchedule `json:"daily_schedule"`
	FirstWeekTasks       []PlannedTask `json:"first_week_tasks"`
	MotivationalNote     string        `json:"motivational_note"`
	EstimatedCompletion  string        `json:"estimated_completion"`
	DifficultyAssessment string        `json:"difficulty_assessment"`
}

type PlanResult struct {
	Goal *domain.Goal `json:"goal"`
	Plan Plan         `json:"plan"`
}

// ValidatePlan rejects first-week tasks with empty text or a day outside 1..7.
func ValidatePlan(p Plan) error {
	for i, t := range p.FirstWeekTasks {
		if strings.TrimSpace(t.TaskText) == "" {
			return fmt.Errorf("first_week_tasks[%d]: empty task_text", i)
		}
		if t.Day < 1 || t.Day > 7 {
			return fmt.Errorf("first_week_tasks[%d]: day %d outside 1..7", i, t.Day)
		}
	}
	return nil
}

type validatedPlanInput struct {
	description string
	deadline    *time.Time
	difficulty  domain.Difficulty
	motivation  domain.MotivationType
}

func (in *PlanInput) validate() (validatedPlanInput, error) {
	var out validatedPlanInput

	in.GoalDescription = strings.TrimSpace(in.GoalDescription)
	if in.GoalDescription == "" {
		return out, domain.NewError(domain.ErrCodeInvalid, "goalDescription is required")
	}
	out.description = in.GoalDescription

	if in.DailyTime <= 0 {
		return out, domain.NewError(domain.ErrCodeInvalid, "dailyTime must be a positive number of minutes")
	}

	if strings.TrimSpace(in.Difficulty) == "" {
		in.Difficulty = string(domain.DifficultyMedium)
	}
	difficulty, err := domain.ParseDifficulty(in.Difficulty)
	if err != nil {
		return out, domain.WrapError(domain.ErrCodeInvalid, "difficulty must be easy, medium or hard", err)
	}
	in.Difficulty = string(difficulty)
	out.difficulty = difficulty

	if in.Deadline = strings.TrimSpace(in.Deadline); in.Deadline != "" {
		deadline, err := domain.ParseDate(in.Deadline)
		if err != nil {
			return out, domain.WrapError(domain.ErrCodeInvalid, "deadline must be YYYY-MM-DD", err)
		}
		out.deadline = &deadline
	}

	if in.MotivationType = strings.TrimSpace(in.MotivationType); in.MotivationType != "" {
		motivation := domain.MotivationType(strings.ToLower(in.MotivationType))
		if !motivation.IsValid() {
			return out, domain.NewError(domain.ErrCodeInvalid, "unknown motivationType")
		}
		out.motivation = motivation
	}
	return out, nil
}

// GeneratePlan asks the model for a plan, stores the goal with its first
// week of tasks and sends the welcome notification.
func (uc *UseCase) GeneratePlan(ctx context.Context, userID string, in PlanInput) (*PlanResult, error) {
	valid, err := in.validate()
	if err != nil {
		return nil, err
	}

	plan, raw, err := complete[Plan](ctx, uc, llm.TaskPlan, planSystemPrompt, planUserPrompt(in), ValidatePlan)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	goal := &domain.Goal{
		UserID:           userID,
		Description:      valid.description,
		Deadline:         valid.deadline,
		DailyTimeMinutes: in.DailyTime,
		Difficulty:       valid.difficulty,
		Challenges:       strings.TrimSpace(in.Challenges),
		MotivationType:   valid.motivation,
		AutopilotEnabled: true,
		Status:           domain.GoalActive,
		Milestones:       milestonesJSON(raw),
		AIPlan:           raw,
		LastActiveAt:     &now,
	}

	created, err := uc.repos.Goals.Create(ctx, goal)
	if err != nil {
		return nil, err
	}

	tasks := ExpandFirstWeek(created, plan.FirstWeekTasks, now)
	if len(tasks) > 0 {
		if _, err := uc.repos.Tasks.CreateBatch(ctx, tasks); err != nil {
			return nil, err
		}
	}
	if dropped := len(plan.FirstWeekTasks) - len(tasks); dropped > 0 {
		uc.logger.Info("dropped planned tasks outside goal lifetime",
			zap.String("goal_id", created.ID), zap.Int("dropped", dropped))
	}

	uc.notify(ctx, &domain.Notification{
		UserID:  userID,
		GoalID:  created.ID,
		Type:    domain.NotificationWelcome,
		Title:   "🚀 Autopilot Activated!",
		Message: fmt.Sprintf("Your plan for \"%s\" is ready. %s", valid.description, plan.MotivationalNote),
	})

	uc.logger.Info("plan generated",
		zap.String("goal_id", created.ID),
		zap.Int("milestones", len(plan.Milestones)),
		zap.Int("tasks", len(tasks)))

	return &PlanResult{Goal: created, Plan: plan}, nil
}

// ExpandFirstWeek dates planned tasks relative to today (day 1 is today).
// Tasks falling outside the goal's lifetime are dropped.
func ExpandFirstWeek(goal *domain.Goal, planned []PlannedTask, today time.Time) []domain.Task {
	start := domain.DateOf(today)
	tasks := make([]domain.Task, 0, len(planned))
	for _, p := range planned {
		due := start.AddDate(0, 0, p.Day-1)
		if !goal.Covers(due) {
			continue
		}
		tasks = append(tasks, domain.Task{
			GoalID:   goal.ID,
			UserID:   goal.UserID,
			Text:     strings.TrimSpace(p.TaskText),
			Priority: domain.NormalizePriority(p.Priority),
			DueDate:  due,
		})
	}
	return tasks
}

// milestonesJSON copies the milestones array out of the raw plan.
func milestonesJSON(raw json.RawMessage) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	m, ok := fields["milestones"]
	if !ok || json.Unmarshal(m, new([]json.RawMessage)) != nil {
		return nil
	}
	return m
}
