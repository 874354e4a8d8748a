package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

var errReportNotFound = domain.NewError(domain.ErrCodeNotFound, "report not found")

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a Postgres-backed ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) repository.ReportRepository {
	return &reportRepository{pool: pool}
}

func (r *reportRepository) Save(ctx context.Context, report *domain.Report) error {
	if report == nil || report.GoalID == "" {
		return domain.ErrInvalidPayload
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO autopilot_reports (id, goal_id, user_id, week_start, summary, performance_score,
		completion_rate, productivity_insights, ai_feedback, next_week_strategy)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (goal_id, week_start) DO UPDATE
	SET summary = EXCLUDED.summary,
		performance_score = EXCLUDED.performance_score,
		completion_rate = EXCLUDED.completion_rate,
		productivity_insights = EXCLUDED.productivity_insights,
		ai_feedback = EXCLUDED.ai_feedback,
		next_week_strategy = EXCLUDED.next_week_strategy,
		created_at = NOW()
	RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		report.ID,
		report.GoalID,
		report.UserID,
		domain.DateOf(report.WeekStart),
		report.Summary,
		report.PerformanceScore,
		report.CompletionRate,
		marshalJSON(report.Insights),
		nullString(report.AIFeedback),
		nullString(report.NextWeekStrategy),
	).Scan(&report.ID, &report.CreatedAt)
}

func (r *reportRepository) GetForWeek(ctx context.Context, goalID string, weekStart time.Time) (*domain.Report, error) {
	const query = `
	SELECT id, goal_id, user_id, week_start, summary, performance_score, completion_rate,
		productivity_insights, ai_feedback, next_week_strategy, created_at
	FROM autopilot_reports
	WHERE goal_id = $1 AND week_start = $2
	`
	return scanReport(r.pool.QueryRow(ctx, query, goalID, domain.DateOf(weekStart)))
}

func (r *reportRepository) ListByGoal(ctx context.Context, goalID string, limit int) ([]domain.Report, error) {
	const query = `
	SELECT id, goal_id, user_id, week_start, summary, performance_score, completion_rate,
		productivity_insights, ai_feedback, next_week_strategy, created_at
	FROM autopilot_reports
	WHERE goal_id = $1
	ORDER BY week_start DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, goalID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

func scanReport(row scanner) (*domain.Report, error) {
	var report domain.Report
	var (
		insights []byte
		feedback *string
		strategy *string
	)
	if err := row.Scan(
		&report.ID,
		&report.GoalID,
		&report.UserID,
		&report.WeekStart,
		&report.Summary,
		&report.PerformanceScore,
		&report.CompletionRate,
		&insights,
		&feedback,
		&strategy,
		&report.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errReportNotFound
		}
		return nil, err
	}

	if len(insights) > 0 {
		if err := json.Unmarshal(insights, &report.Insights); err != nil {
			return nil, fmt.Errorf("decode productivity_insights for report %s: %w", report.ID, err)
		}
	}
	report.WeekStart = calendarDate(report.WeekStart)
	report.AIFeedback = derefString(feedback)
	report.NextWeekStrategy = derefString(strategy)
	return &report, nil
}
