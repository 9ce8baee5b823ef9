package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"formaai/backend/internal/domain"
	"formaai/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrEmptyMessage = errors.New("message text is required")
)

// ChatMessageEvent is pushed over the websocket to both parties of a direct
// message.
type ChatMessageEvent struct {
	Type     string              `json:"type"` // "private-message"
	Message  *domain.ChatMessage `json:"message"`
	FromUser UserSummary         `json:"fromUser"`
}

// ConversationView is a chat thread summary with the partner resolved.
type ConversationView struct {
	Partner     UserSummary        `json:"partner"`
	LastMessage domain.ChatMessage `json:"lastMessage"`
}

// --- Service Interface ---
type ChatService interface {
	// SendMessage persists a direct message and publishes it to the live
	// sessions of both sender and recipient. Delivery is best-effort.
	SendMessage(ctx context.Context, from, to primitive.ObjectID, text string) (*domain.ChatMessage, error)
	History(ctx context.Context, userID, otherID primitive.ObjectID) ([]domain.ChatMessage, error)
	Conversations(ctx context.Context, userID primitive.ObjectID) ([]ConversationView, error)
}

// --- Service Implementation ---

type chatService struct {
	chatRepo  repository.ChatMessageRepository
	userRepo  repository.UserRepository
	profiles  ProfileService
	publisher EventPublisher
}

// NewChatService creates a new instance of chatService.
func NewChatService(
	chatRepo repository.ChatMessageRepository,
	userRepo repository.UserRepository,
	profiles ProfileService,
	publisher EventPublisher,
) ChatService {
	return &chatService{
		chatRepo:  chatRepo,
		userRepo:  userRepo,
		profiles:  profiles,
		publisher: publisher,
	}
}

func (s *chatService) SendMessage(ctx context.Context, from, to primitive.ObjectID, text string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := s.userRepo.GetByID(ctx, to); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	msg := &domain.ChatMessage{From: from, To: to, Message: text}
	if _, err := s.chatRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := ChatMessageEvent{
			Type:     "private-message",
			Message:  msg,
			FromUser: s.senderSummary(ctx, from),
		}
		// Recipient's room, then sender's own sessions for UI sync.
		s.publisher.Publish(to.Hex(), event)
		s.publisher.Publish(from.Hex(), event)
	}

	return msg, nil
}

func (s *chatService) History(ctx context.Context, userID, otherID primitive.ObjectID) ([]domain.ChatMessage, error) {
	return s.chatRepo.GetBetween(ctx, userID, otherID)
}

func (s *chatService) Conversations(ctx context.Context, userID primitive.ObjectID) ([]ConversationView, error) {
	conversations, err := s.chatRepo.GetConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(conversations))
	for _, c := range conversations {
		views = append(views, ConversationView{
			Partner:     s.senderSummary(ctx, c.PartnerID),
			LastMessage: c.LastMessage,
		})
	}
	return views, nil
}

func (s *chatService) senderSummary(ctx context.Context, id primitive.ObjectID) UserSummary {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		log.Printf("WARN: could not load user %s for chat summary: %v", id.Hex(), err)
		return UserSummary{ID: id.Hex()}
	}
	return s.profiles.Summarize(ctx, user)
}
