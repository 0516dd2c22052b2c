package postgres

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Guruganeshkannan/Afterlife/internal/model"
	"github.com/Guruganeshkannan/Afterlife/internal/repository"
)

var _ repository.MessageRepository = (*MessageRepository)(nil)

// MessageRepository provides PostgreSQL backed message operations.
type MessageRepository struct {
	db     *sql.DB
	logger *log.Logger
}

// NewMessageRepository creates a new repository instance.
func NewMessageRepository(db *sql.DB, logger *log.Logger) *MessageRepository {
	if logger == nil {
		logger = log.New(log.Writer(), "message-repo ", log.LstdFlags)
	}
	return &MessageRepository{db: db, logger: logger}
}

const messageColumns = `id, user_id, title, content, media_urls, delivery_date,
        delivery_method, recipient_email, recipient_phone, is_delivered,
        generation_settings, created_at, updated_at`

// FetchDue returns snapshots of every undelivered message whose delivery
// date has passed and which has a recipient address, in ascending id order.
// delivery_date is stored as a naive timestamp string; lexicographic
// comparison against the formatted current time is chronological for the
// canonical layout. Rows with an unparsable stored date are logged and
// skipped so one corrupt row never stalls the rest of the cycle.
func (r *MessageRepository) FetchDue(ctx context.Context, now time.Time) ([]model.DueMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, title, content, recipient_email, delivery_date, is_delivered
        FROM messages
        WHERE is_delivered = FALSE
          AND delivery_date <= $1
          AND recipient_email IS NOT NULL
        ORDER BY id ASC`, model.FormatDeliveryDate(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []model.DueMessage
	for rows.Next() {
		var (
			msg     model.DueMessage
			rawDate string
		)
		if err := rows.Scan(&msg.ID, &msg.Title, &msg.Content, &msg.RecipientEmail, &rawDate, &msg.IsDelivered); err != nil {
			return nil, err
		}
		deliveryAt, err := model.ParseDeliveryDate(rawDate)
		if err != nil {
			r.logger.Printf("skipping message %s: %v", msg.ID, err)
			continue
		}
		msg.DeliveryAt = deliveryAt
		due = append(due, msg)
	}

	return due, rows.Err()
}

// SetDelivered updates the delivered flag for one message. Only the flag
// column is written, so a concurrent content edit on the same row is never
// lost. Returns sql.ErrNoRows when the row no longer exists.
func (r *MessageRepository) SetDelivered(ctx context.Context, id uuid.UUID, delivered bool) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE messages
        SET is_delivered = $2, updated_at = $3
        WHERE id = $1`, id, delivered, time.Now().UTC())
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Create inserts a new message row.
func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO messages (`+messageColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		msg.ID, msg.UserID, msg.Title, msg.Content, msg.MediaURLs,
		model.FormatDeliveryDate(msg.DeliveryAt), msg.DeliveryMethod,
		msg.RecipientEmail, msg.RecipientPhone, msg.IsDelivered,
		msg.GenerationSettings, msg.CreatedAt, msg.UpdatedAt)
	return err
}

// GetByID fetches one message scoped to its owner.
func (r *MessageRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (model.Message, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+messageColumns+`
        FROM messages
        WHERE id = $1 AND user_id = $2`, id, userID)
	return scanMessage(row)
}

// ListByUser lists a user's messages with pagination and counts the total.
func (r *MessageRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]model.Message, int, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+messageColumns+`
        FROM messages
        WHERE user_id = $1
        ORDER BY created_at DESC
        OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM messages WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// Update rewrites content and delivery-configuration columns for a message
// owned by the given user. The delivered flag is deliberately not in the
// column list; only the scheduler writes it.
func (r *MessageRepository) Update(ctx context.Context, msg *model.Message) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE messages
        SET title = $3, content = $4, media_urls = $5, delivery_date = $6,
            delivery_method = $7, recipient_email = $8, recipient_phone = $9,
            generation_settings = $10, updated_at = $11
        WHERE id = $1 AND user_id = $2`,
		msg.ID, msg.UserID, msg.Title, msg.Content, msg.MediaURLs,
		model.FormatDeliveryDate(msg.DeliveryAt), msg.DeliveryMethod,
		msg.RecipientEmail, msg.RecipientPhone, msg.GenerationSettings,
		time.Now().UTC())
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a message owned by the given user.
func (r *MessageRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
        DELETE FROM messages WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (model.Message, error) {
	var (
		msg            model.Message
		rawDate        string
		recipientEmail sql.NullString
		recipientPhone sql.NullString
	)
	if err := row.Scan(&msg.ID, &msg.UserID, &msg.Title, &msg.Content,
		&msg.MediaURLs, &rawDate, &msg.DeliveryMethod, &recipientEmail,
		&recipientPhone, &msg.IsDelivered, &msg.GenerationSettings,
		&msg.CreatedAt, &msg.UpdatedAt); err != nil {
		return model.Message{}, err
	}

	deliveryAt, err := model.ParseDeliveryDate(rawDate)
	if err != nil {
		return model.Message{}, err
	}
	msg.DeliveryAt = deliveryAt

	if recipientEmail.Valid {
		email := recipientEmail.String
		msg.RecipientEmail = &email
	}
	if recipientPhone.Valid {
		phone := recipientPhone.String
		msg.RecipientPhone = &phone
	}

	return msg, nil
}
