package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/coachly/api/handler"
	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/middleware"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Autopilot *apiHandler.AutopilotHandler
	Chat      *apiHandler.ChatHandler
	Function  *apiHandler.FunctionHandler
	Task      *apiHandler.TaskHandler
	Profile   *apiHandler.ProfileHandler
	Wellbeing *apiHandler.WellbeingHandler
	Health    *apiHandler.HealthHandler
}

// New wires every route. auth renders failures in the envelope; the
// function endpoints get a bare-JSON copy.
func New(handlers Handlers, auth *middleware.Auth, logger *zap.Logger) *router.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := router.New()
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, rcv interface{}) {
		logger.Error("handler panic", zap.Any("panic", rcv), zap.String("path", string(ctx.Path())))
		apiHandler.EnvelopeError(ctx, domain.NewError(domain.ErrCodeInternal, "internal error"))
	}

	r.GET("/health", handlers.Health.Check)

	// Function-compatible endpoints
	fn := auth.WithErrorWriter(apiHandler.BareError)
	r.POST("/functions/v1/autopilot-agent", fn.Required(handlers.Function.Autopilot))
	r.POST("/functions/v1/chat", fn.Optional(handlers.Function.Chat))
	r.POST("/functions/v1/extract-tasks", fn.Required(handlers.Function.ExtractTasks))
	r.POST("/functions/v1/analyze-mood", fn.Required(handlers.Wellbeing.AnalyzeMood))
	r.POST("/functions/v1/analyze-journal", fn.Required(handlers.Wellbeing.AnalyzeJournal))

	api := r.Group("/api/v1")

	api.GET("/auth/me", auth.Required(handlers.Auth.Me))
	api.POST("/auth/logout", auth.Required(handlers.Auth.Logout))

	api.GET("/autopilot/goal", auth.Required(handlers.Autopilot.ActiveGoal))
	api.GET("/autopilot/goals/{id}/tasks/today", auth.Required(handlers.Autopilot.TodayTasks))
	api.GET("/autopilot/goals/{id}/activity", auth.Required(handlers.Autopilot.Activity))
	api.GET("/autopilot/goals/{id}/reports", auth.Required(handlers.Autopilot.Reports))
	api.PATCH("/autopilot/goals/{id}/autopilot", auth.Required(handlers.Autopilot.SetAutopilot))
	api.PATCH("/autopilot/goals/{id}/status", auth.Required(handlers.Autopilot.SetStatus))
	api.POST("/autopilot/tasks/{id}/toggle", auth.Required(handlers.Autopilot.ToggleTask))
	api.GET("/autopilot/notifications", auth.Required(handlers.Autopilot.Notifications))
	api.POST("/autopilot/notifications/{id}/read", auth.Required(handlers.Autopilot.MarkNotificationRead))

	api.GET("/chats", auth.Required(handlers.Chat.ListChats))
	api.POST("/chats", auth.Required(handlers.Chat.CreateChat))
	api.PATCH("/chats/{id}", auth.Required(handlers.Chat.RenameChat))
	api.GET("/chats/{id}/messages", auth.Required(handlers.Chat.Messages))
	api.POST("/chats/{id}/messages", auth.Required(handlers.Chat.SaveMessages))

	api.GET("/coach-tasks", auth.Required(handlers.Task.GetTasks))
	api.POST("/coach-tasks", auth.Required(handlers.Task.CreateTask))
	api.PUT("/coach-tasks/{id}", auth.Required(handlers.Task.UpdateTask))
	api.DELETE("/coach-tasks/{id}", auth.Required(handlers.Task.DeleteTask))
	api.POST("/coach-tasks/{id}/toggle", auth.Required(handlers.Task.ToggleTask))

	api.GET("/profile", auth.Required(handlers.Profile.GetProfile))
	api.PATCH("/profile", auth.Required(handlers.Profile.UpdateProfile))
	api.GET("/profile/subscription", auth.Required(handlers.Profile.Subscription))

	api.GET("/mood", auth.Required(handlers.Wellbeing.MoodHistory))
	api.GET("/journal", auth.Required(handlers.Wellbeing.JournalEntries))
	api.GET("/habits", auth.Required(handlers.Wellbeing.ListHabits))
	api.POST("/habits", auth.Required(handlers.Wellbeing.CreateHabit))
	api.PATCH("/habits/{id}", auth.Required(handlers.Wellbeing.UpdateHabit))
	api.DELETE("/habits/{id}", auth.Required(handlers.Wellbeing.DeleteHabit))
	api.POST("/habits/{id}/toggle", auth.Required(handlers.Wellbeing.ToggleHabit))

	return r
}
