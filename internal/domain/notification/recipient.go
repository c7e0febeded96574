// internal/domain/notification/recipient.go
package notification

import (
	"database/sql"
	"time"
)

// Recipient is a person who receives maintenance alerts on Telegram.
// Corresponds to the 'alert_recipients' table.
type Recipient struct {
	ID         int64
	TelegramID int64
	FirstName  string
	LastName   sql.NullString // To handle optional last name
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (r *Recipient) FullName() string {
	if r.LastName.Valid && r.LastName.String != "" {
		return r.FirstName + " " + r.LastName.String
	}
	return r.FirstName
}
