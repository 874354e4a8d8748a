package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/fastygo/coachly/domain"
	"github.com/fastygo/coachly/repository"
)

const historyLimit = 100

func (uc *UseCase) ListChats(ctx context.Context, userID, coachType string) ([]domain.Chat, error) {
	filter := repository.ChatFilter{UserID: userID}
	if coachType != "" {
		filter.CoachType = domain.ParseCoachType(coachType)
	}
	chats, err := uc.chats.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if chats == nil {
		chats = []domain.Chat{}
	}
	return chats, nil
}

// CreateChat starts a conversation; an empty title becomes "<Coach> Chat - <date>".
func (uc *UseCase) CreateChat(ctx context.Context, userID, coachType, title string) (*domain.Chat, error) {
	persona := domain.ParseCoachType(coachType)
	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("%s Chat - %s", persona.DisplayName(), uc.now().Format(domain.DateLayout))
	}
	chat := &domain.Chat{
		UserID:    userID,
		CoachType: persona,
		Title:     title,
	}
	if err := uc.chats.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (uc *UseCase) RenameChat(ctx context.Context, userID, chatID, title string) (*domain.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	chat, err := uc.chats.GetOwned(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.chats.Rename(ctx, chat.ID, title); err != nil {
		return nil, err
	}
	chat.Title = title
	return chat, nil
}

func (uc *UseCase) Messages(ctx context.Context, userID, chatID string) ([]domain.Message, error) {
	chat, err := uc.chats.GetOwned(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	messages, err := uc.chats.RecentMessages(ctx, chat.ID, historyLimit)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// SaveMessages appends user and assistant turns to the caller's chat.
func (uc *UseCase) SaveMessages(ctx context.Context, userID, chatID string, messages []domain.Message) ([]domain.Message, error) {
	if len(messages) == 0 {
		return nil, domain.NewError(domain.ErrCodeInvalid, "messages are required")
	}
	chat, err := uc.chats.GetOwned(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}
	for i := range messages {
		if messages[i].Role != domain.RoleUser && messages[i].Role != domain.RoleAssistant {
			return nil, domain.NewError(domain.ErrCodeInvalid, "role must be user or assistant")
		}
		if strings.TrimSpace(messages[i].Content) == "" {
			return nil, domain.NewError(domain.ErrCodeInvalid, "message content is required")
		}
		messages[i].ID = ""
		messages[i].ChatID = chat.ID
	}
	if err := uc.chats.AppendMessages(ctx, chat.ID, messages); err != nil {
		return nil, err
	}
	return messages, nil
}
