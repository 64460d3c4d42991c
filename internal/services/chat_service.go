package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"etugal/internal/models"
	"etugal/internal/repositories"
)

// duplicateWindow is how long an identical (session, sender, text) message
// suppresses re-persistence. Broadcast is unaffected by suppression.
const duplicateWindow = 2 * time.Second

// ChatService resolves chat sessions and persists messages. Session identity
// is the (task, provider, performer) triple; creation is idempotent.
type ChatService interface {
	GetOrCreateSession(ctx context.Context, taskID, providerID, performerID int64, roomName string) (session *models.ChatSession, created bool, err error)
	ListSessionsForUser(ctx context.Context, profileID int64) ([]*models.ChatSession, error)
	FindByRoomName(ctx context.Context, roomName string) (*models.ChatSession, error)
	GetSession(ctx context.Context, id int64) (*models.ChatSession, error)
	SearchUsers(ctx context.Context, query string) ([]*models.UserProfile, error)
	ListMessages(ctx context.Context, sessionID int64) ([]*models.ChatMessage, error)
	SaveMessage(ctx context.Context, sessionID, senderProfileID int64, text string) (msg *models.ChatMessage, suppressed bool, err error)
}

type chatService struct {
	repo  repositories.ChatRepository
	users repositories.UserRepository
	trust TrustService
}

func NewChatService(repo repositories.ChatRepository, users repositories.UserRepository, trust TrustService) ChatService {
	return &chatService{repo: repo, users: users, trust: trust}
}

func (s *chatService) GetOrCreateSession(ctx context.Context, taskID, providerID, performerID int64, roomName string) (*models.ChatSession, bool, error) {
	if err := s.trust.RequireActive(ctx, providerID); err != nil {
		if IsAccountInactive(err) {
			return nil, false, fmt.Errorf("provider: %w", err)
		}
		return nil, false, err
	}
	if err := s.trust.RequireActive(ctx, performerID); err != nil {
		if IsAccountInactive(err) {
			return nil, false, fmt.Errorf("performer: %w", err)
		}
		return nil, false, err
	}

	existing, err := s.repo.FindSession(ctx, taskID, providerID, performerID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	session := &models.ChatSession{
		TaskID:      taskID,
		ProviderID:  providerID,
		PerformerID: performerID,
		RoomName:    roomName,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		// a concurrent creator may have won; fall back to the existing row
		if existing, ferr := s.repo.FindSession(ctx, taskID, providerID, performerID); ferr == nil && existing != nil {
			return existing, false, nil
		}
		return nil, false, err
	}
	log.Printf("[chat][session][create] id=%d task=%d room=%q", session.ID, taskID, roomName)
	return session, true, nil
}

func (s *chatService) ListSessionsForUser(ctx context.Context, profileID int64) ([]*models.ChatSession, error) {
	return s.repo.ListSessionsForProfile(ctx, profileID)
}

func (s *chatService) FindByRoomName(ctx context.Context, roomName string) (*models.ChatSession, error) {
	session, err := s.repo.FindSessionByRoomName(ctx, roomName)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *chatService) GetSession(ctx context.Context, id int64) (*models.ChatSession, error) {
	return s.repo.FindSessionByID(ctx, id)
}

// SearchUsers matches counterpart display names; an empty query returns no
// results rather than every user.
func (s *chatService) SearchUsers(ctx context.Context, query string) ([]*models.UserProfile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return s.users.SearchProfilesByName(ctx, query)
}

func (s *chatService) ListMessages(ctx context.Context, sessionID int64) ([]*models.ChatMessage, error) {
	return s.repo.ListMessages(ctx, sessionID)
}

// SaveMessage persists an accepted message unless an identical one from the
// same sender landed within duplicateWindow. The suppressed result lets the
// broker broadcast regardless.
func (s *chatService) SaveMessage(ctx context.Context, sessionID, senderProfileID int64, text string) (*models.ChatMessage, bool, error) {
	dup, err := s.repo.HasRecentDuplicate(ctx, sessionID, senderProfileID, text, duplicateWindow)
	if err != nil {
		return nil, false, err
	}
	if dup {
		log.Printf("[chat][message][dup] session=%d sender=%d", sessionID, senderProfileID)
		return nil, true, nil
	}

	msg := &models.ChatMessage{
		SessionID: sessionID,
		ProfileID: senderProfileID,
		Message:   text,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, false, err
	}
	return msg, false, nil
}
