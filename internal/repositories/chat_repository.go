package repositories

import (
	"context"
	"database/sql"
	"time"

	"etugal/internal/models"
)

type ChatRepository interface {
	FindSession(ctx context.Context, taskID, providerID, performerID int64) (*models.ChatSession, error)
	FindSessionByID(ctx context.Context, id int64) (*models.ChatSession, error)
	FindSessionByRoomName(ctx context.Context, roomName string) (*models.ChatSession, error)
	CreateSession(ctx context.Context, session *models.ChatSession) error
	ListSessionsForProfile(ctx context.Context, profileID int64) ([]*models.ChatSession, error)
	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	ListMessages(ctx context.Context, sessionID int64) ([]*models.ChatMessage, error)
	HasRecentDuplicate(ctx context.Context, sessionID, profileID int64, text string, window time.Duration) (bool, error)
}

type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) ChatRepository {
	return &chatRepository{db: db}
}

const sessionColumns = `id, task_id, provider_id, performer_id, room_name, created_at, updated_at`

func scanSession(row interface{ Scan(...interface{}) error }) (*models.ChatSession, error) {
	s := &models.ChatSession{}
	err := row.Scan(
		&s.ID, &s.TaskID, &s.ProviderID, &s.PerformerID, &s.RoomName,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *chatRepository) FindSession(ctx context.Context, taskID, providerID, performerID int64) (*models.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions
		WHERE task_id = $1 AND provider_id = $2 AND performer_id = $3`
	s, err := scanSession(r.db.QueryRowContext(ctx, query, taskID, providerID, performerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *chatRepository) FindSessionByID(ctx context.Context, id int64) (*models.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions WHERE id = $1`
	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *chatRepository) FindSessionByRoomName(ctx context.Context, roomName string) (*models.ChatSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM chat_sessions
		WHERE room_name = $1 ORDER BY id LIMIT 1`
	s, err := scanSession(r.db.QueryRowContext(ctx, query, roomName))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// CreateSession relies on the UNIQUE (task_id, provider_id, performer_id)
// constraint; a violation means the session already exists and callers
// re-read the row.
func (r *chatRepository) CreateSession(ctx context.Context, s *models.ChatSession) error {
	query := `
		INSERT INTO chat_sessions (task_id, provider_id, performer_id, room_name)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		s.TaskID, s.ProviderID, s.PerformerID, s.RoomName,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// ListSessionsForProfile returns the sessions a user should see in their
// inbox: the user is a party, the task is still live, the task's performer
// slot is either empty or held by this user, and neither party is suspended.
func (r *chatRepository) ListSessionsForProfile(ctx context.Context, profileID int64) ([]*models.ChatSession, error) {
	query := `
		SELECT s.id, s.task_id, s.provider_id, s.performer_id, s.room_name, s.created_at, s.updated_at
		FROM chat_sessions s
		JOIN tasks t ON t.id = s.task_id
		JOIN user_profiles pp ON pp.id = s.provider_id
		JOIN user_profiles fp ON fp.id = s.performer_id
		WHERE t.status NOT IN ('REJECTED','CANCELLED','COMPLETED')
		  AND (s.provider_id = $1 OR s.performer_id = $1)
		  AND (t.performer_id = $1 OR t.performer_id IS NULL)
		  AND pp.is_suspended = FALSE AND fp.is_suspended = FALSE
		ORDER BY s.updated_at DESC`
	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.ChatSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *chatRepository) CreateMessage(ctx context.Context, m *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (chat_session_id, user_profile_id, message)
		VALUES ($1,$2,$3)
		RETURNING id, timestamp`
	return r.db.QueryRowContext(ctx, query,
		m.SessionID, m.ProfileID, m.Message,
	).Scan(&m.ID, &m.Timestamp)
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID int64) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, chat_session_id, user_profile_id, message, timestamp
		FROM chat_messages
		WHERE chat_session_id = $1
		ORDER BY timestamp DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		m := &models.ChatMessage{}
		if err := rows.Scan(&m.ID, &m.SessionID, &m.ProfileID, &m.Message, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// HasRecentDuplicate reports whether an identical (session, sender, text)
// message was persisted within the given window.
func (r *chatRepository) HasRecentDuplicate(ctx context.Context, sessionID, profileID int64, text string, window time.Duration) (bool, error) {
	var dummy int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM chat_messages
		WHERE chat_session_id = $1 AND user_profile_id = $2 AND message = $3
		  AND timestamp > $4
		LIMIT 1`,
		sessionID, profileID, text, time.Now().Add(-window),
	).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
