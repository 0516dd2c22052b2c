package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeliveryMethodEmail is the only delivery method the engine currently
// understands. recipient_phone is stored but unused.
const DeliveryMethodEmail = "email"

// DeliveryDateLayout is the canonical naive timestamp format stored in the
// delivery_date column. Lexicographic order of this layout matches
// chronological order, so the due-message query can compare strings.
const DeliveryDateLayout = "2006-01-02 15:04:05"

// deliveryDateLayoutFrac accepts rows written with fractional seconds.
const deliveryDateLayoutFrac = "2006-01-02 15:04:05.999999"

// ParseDeliveryDate parses a stored delivery_date value. Values are naive
// timestamps interpreted in the configured reference timezone.
func ParseDeliveryDate(value string) (time.Time, error) {
	if t, err := time.Parse(DeliveryDateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(deliveryDateLayoutFrac, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse delivery date %q: %w", value, err)
	}
	return t, nil
}

// FormatDeliveryDate renders a timestamp in the canonical stored layout.
func FormatDeliveryDate(t time.Time) string {
	return t.Format(DeliveryDateLayout)
}

// Message represents the data stored in PostgreSQL about a scheduled message.
type Message struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	UserID             uuid.UUID  `db:"user_id" json:"user_id"`
	Title              string     `db:"title" json:"title"`
	Content            string     `db:"content" json:"content"`
	MediaURLs          StringList `db:"media_urls" json:"media_urls,omitempty"`
	DeliveryAt         time.Time  `db:"delivery_date" json:"delivery_date"`
	DeliveryMethod     string     `db:"delivery_method" json:"delivery_method"`
	RecipientEmail     *string    `db:"recipient_email" json:"recipient_email,omitempty"`
	RecipientPhone     *string    `db:"recipient_phone" json:"recipient_phone,omitempty"`
	IsDelivered        bool       `db:"is_delivered" json:"is_delivered"`
	GenerationSettings JSONMap    `db:"generation_settings" json:"generation_settings,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// DueMessage is the point-in-time snapshot the selector hands to the
// delivery engine. It is not the live row; the engine re-applies its state
// change by id and tolerates the row having changed or vanished since.
type DueMessage struct {
	ID             uuid.UUID
	Title          string
	Content        string
	RecipientEmail string
	DeliveryAt     time.Time
	IsDelivered    bool
}

// StringList stores a JSON array of strings in a text/json column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

// JSONMap stores a free-form JSON object in a text/json column.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(src any) error {
	return scanJSON(src, m)
}

func scanJSON(src, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
