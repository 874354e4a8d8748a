// Package coach serves the persona chat: streaming replies, chat history and
// task extraction from conversations.
package coach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/internal/llm"
	"github.com/fastygo/coachly/repository"
	"github.com/fastygo/coachly/usecase"
)

const (
	contextTaskLimit    = 5
	contextSessionLimit = 5
)

type UseCase struct {
	chats  repository.ChatRepository
	tasks  repository.CoachTaskRepository
	llm    llm.Client
	logger *zap.Logger
	now    func() time.Time
}

func New(chats repository.ChatRepository, tasks repository.CoachTaskRepository, client llm.Client, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		chats:  chats,
		tasks:  tasks,
		llm:    client,
		logger: logger.Named("coach"),
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

// ChatRequest is the body of the streaming chat endpoint.
type ChatRequest struct {
	Messages  []llm.Message `json:"messages"`
	CoachType string        `json:"coachType"`
	ChatID    string        `json:"chatId,omitempty"`
	UserID    string        `json:"userId,omitempty"`
}

// ErrMessagesRequired is returned when a chat request carries no message list.
var ErrMessagesRequired = domain.NewError(domain.ErrCodeInvalid, "Messages array is required")

// OpenChat opens an upstream stream for the conversation. userID is empty for
// anonymous callers, who get the bare persona prompt.
func (uc *UseCase) OpenChat(ctx context.Context, userID string, req ChatRequest) (*llm.Stream, error) {
	if req.Messages == nil {
		return nil, ErrMessagesRequired
	}
	if uc.llm == nil {
		return nil, usecase.WrapChatError(llm.ErrNotConfigured)
	}
	if _, chat := uc.llm.Configured(); !chat {
		return nil, usecase.WrapChatError(llm.ErrNotConfigured)
	}

	persona := domain.ParseCoachType(req.CoachType)
	system := persona.SystemPrompt() + uc.sessionContext(ctx, userID, persona, req.ChatID)

	messages := make([]llm.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := string(domain.RoleUser)
		if m.Role == string(domain.RoleAssistant) {
			role = string(domain.RoleAssistant)
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}

	uc.logger.Info("starting chat",
		zap.String("coach_type", string(persona)),
		zap.Int("messages", len(messages)),
		zap.Bool("authenticated", userID != ""))

	stream, err := uc.llm.OpenStream(ctx, llm.StreamRequest{SystemPrompt: system, Messages: messages})
	if err != nil {
		uc.logger.Warn("chat upstream failed", zap.Error(err))
		return nil, usecase.WrapChatError(err)
	}
	return stream, nil
}

// sessionContext lists the caller's open tasks and earlier chats with the
// same coach. It is empty unless the caller owns chatID; lookup failures only
// drop the context.
func (uc *UseCase) sessionContext(ctx context.Context, userID string, persona domain.CoachType, chatID string) string {
	if userID == "" || chatID == "" {
		return ""
	}
	if _, err := uc.chats.GetOwned(ctx, chatID, userID); err != nil {
		return ""
	}

	var b strings.Builder

	tasks, err := uc.tasks.List(ctx, repository.CoachTaskFilter{
		UserID:    userID,
		CoachType: persona,
		OpenOnly:  true,
		Limit:     contextTaskLimit,
	})
	if err != nil {
		uc.logger.Warn("loading open tasks for chat context", zap.Error(err))
	} else if len(tasks) > 0 {
		b.WriteString("\n\nThe user's open tasks:")
		for _, t := range tasks {
			fmt.Fprintf(&b, "\n- %s (%s priority, %s)", t.Title, t.Priority, t.Status)
		}
	}

	chats, err := uc.chats.List(ctx, repository.ChatFilter{
		UserID:    userID,
		CoachType: persona,
		Limit:     contextSessionLimit + 1,
	})
	if err != nil {
		uc.logger.Warn("loading prior sessions for chat context", zap.Error(err))
	} else {
		var titles []string
		for _, c := range chats {
			if c.ID == chatID || len(titles) == contextSessionLimit {
				continue
			}
			titles = append(titles, c.Title)
		}
		if len(titles) > 0 {
			b.WriteString("\n\nPrior sessions with this user:")
			for _, title := range titles {
				fmt.Fprintf(&b, "\n- %s", title)
			}
		}
	}
	return b.String()
}
