package repository

import (
	"context"

	"github.com/articlehub/articlehub-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository handles chat message data access.
type ChatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// Insert stores a message. ID, CreatedAt and Read are assigned by the database.
func (r *ChatRepository) Insert(ctx context.Context, m *model.ChatMessage) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO chat_messages (sender_role, sender_name, recipient, body)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, read`,
		m.SenderRole, m.SenderName, m.Recipient, m.Body,
	).Scan(&m.ID, &m.CreatedAt, &m.Read)
	return translateError(err)
}

// ListThread returns both directions of the conversation keyed by the guest's name.
// The id tie-breaker keeps same-timestamp messages in insertion order.
func (r *ChatRepository) ListThread(ctx context.Context, thread string) ([]model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, sender_role, sender_name, recipient, body, created_at, read
		 FROM chat_messages
		 WHERE recipient = $1 OR (sender_role = 'guest' AND sender_name = $1)
		 ORDER BY created_at ASC, id ASC`, thread,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	messages := []model.ChatMessage{}
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SenderRole, &m.SenderName, &m.Recipient, &m.Body, &m.CreatedAt, &m.Read); err != nil {
			return nil, translateError(err)
		}
		messages = append(messages, m)
	}
	return messages, translateError(rows.Err())
}

// ListRecipients returns every non-admin party that has at least one message.
func (r *ChatRepository) ListRecipients(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT name FROM (
		     SELECT recipient AS name FROM chat_messages
		     UNION
		     SELECT sender_name FROM chat_messages WHERE sender_role = 'guest'
		 ) parties
		 WHERE name <> ''
		 ORDER BY name`,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, translateError(err)
		}
		names = append(names, name)
	}
	return names, translateError(rows.Err())
}
