package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/portfolio/internal/types"
)

// ContactMessage is a stored contact-form submission.
type ContactMessage struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// SaveContactMessage stores a submission under id.
func (db *DB) SaveContactMessage(ctx context.Context, id uuid.UUID, receivedAt time.Time, req types.ContactRequest) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO contact_messages (id, name, email, phone, message, received_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, req.Name, req.Email, req.Phone, req.Message, receivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save contact message: %w", err)
	}
	return nil
}

// ListContactMessages returns the most recent submissions, newest first.
func (db *DB) ListContactMessages(ctx context.Context, limit int) ([]ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, email, phone, message, received_at
		 FROM contact_messages ORDER BY received_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	var messages []ContactMessage
	for rows.Next() {
		var m ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
