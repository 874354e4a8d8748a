// Package testutil provides in-memory stores and an LLM stand-in for use-case
// and handler tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

// ErrInjected is returned by stores whose Fail flag is set.
var ErrInjected = errors.New("injected store failure")

// Store keeps every table in memory behind a single mutex and exposes one
// repository view per table.
type Store struct {
	mu            sync.Mutex
	Now           func() time.Time
	goals         map[string]domain.Goal
	tasks         map[string]domain.Task
	logs          map[string]domain.ActivityLog
	notifications []domain.Notification
	reports       map[string]domain.Report
	chats         map[string]domain.Chat
	messages      map[string][]domain.Message
	coachTasks    map[string]domain.CoachTask
	sessions      map[string]domain.Session
	profiles      map[string]domain.Profile
	moods         []domain.MoodEntry
	journal       []domain.JournalEntry
	habits        map[string]domain.Habit

	// FailNotifications and FailActivity make the respective writes error.
	FailNotifications bool
	FailActivity      bool
}

func NewStore() *Store {
	return &Store{
		Now:        time.Now,
		goals:      make(map[string]domain.Goal),
		tasks:      make(map[string]domain.Task),
		logs:       make(map[string]domain.ActivityLog),
		reports:    make(map[string]domain.Report),
		chats:      make(map[string]domain.Chat),
		messages:   make(map[string][]domain.Message),
		coachTasks: make(map[string]domain.CoachTask),
		sessions:   make(map[string]domain.Session),
		profiles:   make(map[string]domain.Profile),
		habits:     make(map[string]domain.Habit),
	}
}

func (s *Store) Goals() repository.GoalRepository                 { return goalStore{s} }
func (s *Store) Tasks() repository.TaskRepository                 { return taskStore{s} }
func (s *Store) Activity() repository.ActivityLogRepository       { return activityStore{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationStore{s} }
func (s *Store) Reports() repository.ReportRepository             { return reportStore{s} }
func (s *Store) Chats() repository.ChatRepository                 { return chatStore{s} }
func (s *Store) CoachTasks() repository.CoachTaskRepository       { return coachTaskStore{s} }
func (s *Store) Sessions() repository.SessionRepository           { return sessionStore{s} }
func (s *Store) Profiles() repository.ProfileRepository           { return profileStore{s} }
func (s *Store) Moods() repository.MoodRepository                 { return moodStore{s} }
func (s *Store) Journal() repository.JournalRepository            { return journalStore{s} }
func (s *Store) Habits() repository.HabitRepository               { return habitStore{s} }

// PutGoal seeds a goal as-is.
func (s *Store) PutGoal(g domain.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
}

// PutTasks seeds tasks as-is.
func (s *Store) PutTasks(tasks ...domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
}

// PutActivity seeds activity logs as-is.
func (s *Store) PutActivity(logs ...domain.ActivityLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range logs {
		s.logs[activityKey(l.GoalID, l.LogDate)] = l
	}
}

// AllTasks returns every stored task ordered by due date.
func (s *Store) AllTasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

// AllNotifications returns every stored notification in insertion order.
func (s *Store) AllNotifications() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.notifications...)
}

// AllGoals returns every stored goal.
func (s *Store) AllGoals() []domain.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, g)
	}
	return out
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func activityKey(goalID string, day time.Time) string {
	return goalID + "|" + domain.DateOf(day).Format(domain.DateLayout)
}

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type goalStore struct{ s *Store }

func (r goalStore) GetByID(_ context.Context, id string) (*domain.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.goals[id]
	if !ok {
		return nil, domain.ErrGoalNotFound
	}
	return &g, nil
}

func (r goalStore) GetOwned(ctx context.Context, id, userID string) (*domain.Goal, error) {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return g, nil
}

func (r goalStore) List(_ context.Context, f repository.GoalFilter) ([]domain.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Goal
	for _, g := range r.s.goals {
		if f.UserID != "" && g.UserID != f.UserID {
			continue
		}
		if f.Status != "" && g.Status != f.Status {
			continue
		}
		if f.AutopilotEnabled != nil && g.AutopilotEnabled != *f.AutopilotEnabled {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return window(out, f.Limit, f.Offset), nil
}

func (r goalStore) Create(_ context.Context, g *domain.Goal) (*domain.Goal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Status == "" {
		g.Status = domain.GoalActive
	}
	now := r.s.now()
	g.CreatedAt, g.UpdatedAt = now, now
	r.s.goals[g.ID] = *g
	created := *g
	return &created, nil
}

func (r goalStore) update(id string, fn func(*domain.Goal)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.goals[id]
	if !ok {
		return domain.ErrGoalNotFound
	}
	fn(&g)
	g.UpdatedAt = r.s.now()
	r.s.goals[id] = g
	return nil
}

func (r goalStore) UpdateProgress(_ context.Context, goal *domain.Goal) error {
	return r.update(goal.ID, func(g *domain.Goal) {
		g.ProgressPercent = goal.ProgressPercent
		g.StreakCount = goal.StreakCount
		g.LastActiveAt = goal.LastActiveAt
	})
}

func (r goalStore) Touch(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(g *domain.Goal) { g.LastActiveAt = &at })
}

func (r goalStore) SetDifficulty(_ context.Context, id string, d domain.Difficulty) error {
	return r.update(id, func(g *domain.Goal) { g.Difficulty = d })
}

func (r goalStore) SetAutopilot(_ context.Context, id string, enabled bool) error {
	return r.update(id, func(g *domain.Goal) { g.AutopilotEnabled = enabled })
}

func (r goalStore) SetStatus(_ context.Context, id string, status domain.GoalStatus) error {
	return r.update(id, func(g *domain.Goal) { g.Status = status })
}

type taskStore struct{ s *Store }

func (r taskStore) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r taskStore) List(_ context.Context, f repository.TaskFilter) ([]domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Task
	for _, t := range r.s.tasks {
		if f.GoalID != "" && t.GoalID != f.GoalID {
			continue
		}
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		due := domain.DateOf(t.DueDate)
		if f.DueOn != nil && !due.Equal(domain.DateOf(*f.DueOn)) {
			continue
		}
		if f.DueFrom != nil && due.Before(domain.DateOf(*f.DueFrom)) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return window(out, f.Limit, f.Offset), nil
}

func (r taskStore) CreateBatch(_ context.Context, tasks []domain.Task) ([]domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.NewString()
		}
		tasks[i].DueDate = domain.DateOf(tasks[i].DueDate)
		tasks[i].CreatedAt = now
		r.s.tasks[tasks[i].ID] = tasks[i]
	}
	return tasks, nil
}

func (r taskStore) SetCompleted(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Completed = task.Completed
	t.CompletedAt = task.CompletedAt
	r.s.tasks[task.ID] = t
	return nil
}

type activityStore struct{ s *Store }

func (r activityStore) Upsert(_ context.Context, log *domain.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailActivity {
		return ErrInjected
	}
	key := activityKey(log.GoalID, log.LogDate)
	if existing, ok := r.s.logs[key]; ok {
		log.ID = existing.ID
		log.CreatedAt = existing.CreatedAt
		log.StreakCounted = log.StreakCounted || existing.StreakCounted
	} else {
		if log.ID == "" {
			log.ID = uuid.NewString()
		}
		log.CreatedAt = r.s.now()
	}
	r.s.logs[key] = *log
	return nil
}

func (r activityStore) GetForDay(_ context.Context, goalID string, day time.Time) (*domain.ActivityLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.logs[activityKey(goalID, day)]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r activityStore) ListRecent(_ context.Context, goalID string, limit int) ([]domain.ActivityLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.ActivityLog
	for _, l := range r.s.logs {
		if l.GoalID == goalID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogDate.After(out[j].LogDate) })
	return window(out, limit, 0), nil
}

type notificationStore struct{ s *Store }

func (r notificationStore) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailNotifications {
		return ErrInjected
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.s.now()
	}
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r notificationStore) List(_ context.Context, f repository.NotificationFilter) ([]domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Notification
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.UserID != f.UserID || (f.UnreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	return window(out, f.Limit, 0), nil
}

func (r notificationStore) MarkRead(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.notifications {
		if r.s.notifications[i].ID == id && r.s.notifications[i].UserID == userID {
			r.s.notifications[i].Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

type reportStore struct{ s *Store }

func reportKey(goalID string, weekStart time.Time) string {
	return activityKey(goalID, weekStart)
}

func (r reportStore) Save(_ context.Context, report *domain.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report.WeekStart = domain.DateOf(report.WeekStart)
	key := reportKey(report.GoalID, report.WeekStart)
	if existing, ok := r.s.reports[key]; ok {
		report.ID = existing.ID
	} else if report.ID == "" {
		report.ID = uuid.NewString()
	}
	report.CreatedAt = r.s.now()
	r.s.reports[key] = *report
	return nil
}

func (r reportStore) GetForWeek(_ context.Context, goalID string, weekStart time.Time) (*domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.reports[reportKey(goalID, weekStart)]
	if !ok {
		return nil, domain.NewError(domain.ErrCodeNotFound, "report not found")
	}
	return &rep, nil
}

func (r reportStore) ListByGoal(_ context.Context, goalID string, limit int) ([]domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Report
	for _, rep := range r.s.reports {
		if rep.GoalID == goalID {
			out = append(out, rep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.After(out[j].WeekStart) })
	return window(out, limit, 0), nil
}

type chatStore struct{ s *Store }

func (r chatStore) GetOwned(_ context.Context, id, userID string) (*domain.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.chats[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrChatNotFound
	}
	return &c, nil
}

func (r chatStore) List(_ context.Context, f repository.ChatFilter) ([]domain.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Chat
	for _, c := range r.s.chats {
		if c.UserID != f.UserID {
			continue
		}
		if f.CoachType != "" && c.CoachType != f.CoachType {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return window(out, f.Limit, 0), nil
}

func (r chatStore) Create(_ context.Context, c *domain.Chat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := r.s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	r.s.chats[c.ID] = *c
	return nil
}

func (r chatStore) Rename(_ context.Context, id, title string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.chats[id]
	if !ok {
		return domain.ErrChatNotFound
	}
	c.Title = title
	c.UpdatedAt = r.s.now()
	r.s.chats[id] = c
	return nil
}

func (r chatStore) AppendMessages(_ context.Context, chatID string, messages []domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.chats[chatID]
	if !ok {
		return domain.ErrChatNotFound
	}
	now := r.s.now()
	for i := range messages {
		if messages[i].ID == "" {
			messages[i].ID = uuid.NewString()
		}
		messages[i].ChatID = chatID
		if messages[i].CreatedAt.IsZero() {
			messages[i].CreatedAt = now
		}
		r.s.messages[chatID] = append(r.s.messages[chatID], messages[i])
	}
	c.UpdatedAt = now
	r.s.chats[chatID] = c
	return nil
}

func (r chatStore) RecentMessages(_ context.Context, chatID string, limit int) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.s.messages[chatID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return append([]domain.Message(nil), all...), nil
}

type coachTaskStore struct{ s *Store }

func (r coachTaskStore) GetByID(_ context.Context, id string) (*domain.CoachTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.coachTasks[id]
	if !ok {
		return nil, domain.ErrCoachTaskNotFound
	}
	return &t, nil
}

func (r coachTaskStore) List(_ context.Context, f repository.CoachTaskFilter) ([]domain.CoachTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.CoachTask
	for _, t := range r.s.coachTasks {
		if t.UserID != f.UserID {
			continue
		}
		if f.CoachType != "" && t.CoachType != f.CoachType {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.OpenOnly && (t.Status == domain.CoachTaskCompleted || t.Status == domain.CoachTaskSkipped) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Title < out[j].Title
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return window(out, f.Limit, f.Offset), nil
}

func (r coachTaskStore) Create(_ context.Context, t *domain.CoachTask) (*domain.CoachTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := r.s.now()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.coachTasks[t.ID] = *t
	created := *t
	return &created, nil
}

func (r coachTaskStore) Update(_ context.Context, t *domain.CoachTask) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.coachTasks[t.ID]; !ok {
		return domain.ErrCoachTaskNotFound
	}
	t.UpdatedAt = r.s.now()
	r.s.coachTasks[t.ID] = *t
	return nil
}

func (r coachTaskStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.coachTasks[id]; !ok {
		return domain.ErrCoachTaskNotFound
	}
	delete(r.s.coachTasks, id)
	return nil
}

type sessionStore struct{ s *Store }

func (r sessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[id]
	if !ok || sess.IsExpired(r.s.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (r sessionStore) Save(_ context.Context, sess *domain.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[sess.ID] = *sess
	return nil
}

func (r sessionStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

type profileStore struct{ s *Store }

func (r profileStore) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (r profileStore) Create(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.profiles[p.ID]; ok {
		return &existing, nil
	}
	stored := *p
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.profiles[p.ID] = stored
	return &stored, nil
}

func (r profileStore) UpdateEmail(_ context.Context, id, email string) (*domain.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.Email = email
	p.UpdatedAt = r.s.now()
	r.s.profiles[id] = p
	return &p, nil
}

type moodStore struct{ s *Store }

func (r moodStore) Create(_ context.Context, e *domain.MoodEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = r.s.now()
	r.s.moods = append(r.s.moods, *e)
	return nil
}

func (r moodStore) ListRecent(_ context.Context, userID string, limit int) ([]domain.MoodEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.MoodEntry
	for i := len(r.s.moods) - 1; i >= 0; i-- {
		if r.s.moods[i].UserID == userID {
			out = append(out, r.s.moods[i])
		}
	}
	return window(out, limit, 0), nil
}

type journalStore struct{ s *Store }

func (r journalStore) Create(_ context.Context, e *domain.JournalEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = r.s.now()
	r.s.journal = append(r.s.journal, *e)
	return nil
}

func (r journalStore) ListRecent(_ context.Context, userID string, limit int) ([]domain.JournalEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.JournalEntry
	for i := len(r.s.journal) - 1; i >= 0; i-- {
		if r.s.journal[i].UserID == userID {
			out = append(out, r.s.journal[i])
		}
	}
	return window(out, limit, 0), nil
}

type habitStore struct{ s *Store }

func (r habitStore) GetByID(_ context.Context, id string) (*domain.Habit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h, ok := r.s.habits[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return &h, nil
}

func (r habitStore) List(_ context.Context, f repository.HabitFilter) ([]domain.Habit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Habit
	for _, h := range r.s.habits {
		if h.UserID != f.UserID {
			continue
		}
		if f.CoachType != "" && h.CoachType != f.CoachType {
			continue
		}
		if f.ActiveOnly && !h.IsActive {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, f.Limit, 0), nil
}

func (r habitStore) Create(_ context.Context, h *domain.Habit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.CreatedAt = r.s.now()
	h.UpdatedAt = h.CreatedAt
	r.s.habits[h.ID] = *h
	return nil
}

func (r habitStore) Update(_ context.Context, h *domain.Habit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.habits[h.ID]
	if !ok {
		return domain.ErrHabitNotFound
	}
	h.CreatedAt = existing.CreatedAt
	h.UpdatedAt = r.s.now()
	r.s.habits[h.ID] = *h
	return nil
}

func (r habitStore) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.habits[id]; !ok {
		return domain.ErrHabitNotFound
	}
	delete(r.s.habits, id)
	return nil
}
