package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"alexchat-backend/internal/models"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, user_id, role, content, image_data_uri)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq, created_at`

	msg.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		msg.ID, msg.UserID, msg.Role, msg.Content, msg.ImageDataURI,
	).Scan(&msg.Seq, &msg.CreatedAt)
}

// ListByUser returns a user's full history in replay order: timestamp first,
// insertion order as the tiebreaker.
func (r *MessageRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	query := `SELECT id, seq, user_id, role, content, image_data_uri, created_at
		FROM chat_messages WHERE user_id = $1
		ORDER BY created_at ASC, seq ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.Seq, &m.UserID, &m.Role, &m.Content, &m.ImageDataURI, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *MessageRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM chat_messages WHERE user_id = $1", userID)
	return err
}
