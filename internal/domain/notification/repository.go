// internal/domain/notification/repository.go
package notification

import (
	"context"
)

// RecipientRepository defines the operations for persisting and retrieving alert recipients.
type RecipientRepository interface {
	Create(ctx context.Context, recipient *Recipient) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*Recipient, error)
	Update(ctx context.Context, recipient *Recipient) error // Should handle updates to FirstName, LastName, IsActive
	ListActive(ctx context.Context) ([]*Recipient, error)
	ListAll(ctx context.Context) ([]*Recipient, error) // For admin purposes
}

// DispatchRepository is the delivery log used to avoid sending the same alert twice.
type DispatchRepository interface {
	HasDispatch(ctx context.Context, key Key) (bool, error)
	CreateDispatch(ctx context.Context, d *Dispatch) error
}
