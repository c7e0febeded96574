package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"maintenance_alert_bot/internal/domain/notification"
	idb "maintenance_alert_bot/internal/infra/database"
)

// Custom application-level errors for admin service
var ErrAdminNotAuthorized = fmt.Errorf("performing user is not authorized as an admin")
var ErrRecipientAlreadyExists = fmt.Errorf("recipient with this Telegram ID is already active")
var ErrRecipientAlreadyInactive = fmt.Errorf("recipient is already inactive")

type AdminService struct {
	recipientRepo   notification.RecipientRepository
	adminTelegramID int64
}

func NewAdminService(rr notification.RecipientRepository, adminID int64) *AdminService {
	return &AdminService{
		recipientRepo:   rr,
		adminTelegramID: adminID,
	}
}

// IsAdmin reports whether telegramID belongs to the configured administrator.
func (s *AdminService) IsAdmin(telegramID int64) bool {
	return telegramID == s.adminTelegramID
}

// AddRecipient registers a new alert recipient. A previously removed recipient is reactivated
// with the new name instead of failing on the unique Telegram ID.
func (s *AdminService) AddRecipient(ctx context.Context, performingAdminID int64, telegramID int64, firstName string, lastNameValue string) (*notification.Recipient, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}

	var lastName sql.NullString
	if lastNameValue != "" {
		lastName.String = lastNameValue
		lastName.Valid = true
	}

	existing, err := s.recipientRepo.GetByTelegramID(ctx, telegramID)
	switch {
	case err == nil && existing.IsActive:
		return nil, ErrRecipientAlreadyExists
	case err == nil:
		existing.FirstName = firstName
		existing.LastName = lastName
		existing.IsActive = true
		if err := s.recipientRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to reactivate recipient: %w", err)
		}
		return existing, nil
	case !errors.Is(err, idb.ErrRecipientNotFound):
		return nil, fmt.Errorf("failed to check existing recipient: %w", err)
	}

	newRecipient := &notification.Recipient{
		TelegramID: telegramID,
		FirstName:  firstName,
		LastName:   lastName,
		IsActive:   true,
	}
	if err := s.recipientRepo.Create(ctx, newRecipient); err != nil {
		if errors.Is(err, idb.ErrDuplicateTelegramID) {
			return nil, ErrRecipientAlreadyExists
		}
		return nil, fmt.Errorf("failed to create recipient in repository: %w", err)
	}
	return newRecipient, nil
}

// RemoveRecipient deactivates a recipient. Dispatch history is kept.
func (s *AdminService) RemoveRecipient(ctx context.Context, performingAdminID int64, telegramID int64) (*notification.Recipient, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}

	target, err := s.recipientRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, idb.ErrRecipientNotFound) {
			return nil, idb.ErrRecipientNotFound // Propagate specific error
		}
		return nil, fmt.Errorf("failed to get recipient by Telegram ID for removal: %w", err)
	}
	if !target.IsActive {
		return target, ErrRecipientAlreadyInactive
	}

	target.IsActive = false
	if err := s.recipientRepo.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to update recipient to inactive in repository: %w", err)
	}
	return target, nil
}

func (s *AdminService) ListActiveRecipients(ctx context.Context, performingAdminID int64) ([]*notification.Recipient, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}
	recipients, err := s.recipientRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active recipients: %w", err)
	}
	return recipients, nil
}

func (s *AdminService) ListAllRecipients(ctx context.Context, performingAdminID int64) ([]*notification.Recipient, error) {
	if !s.IsAdmin(performingAdminID) {
		return nil, ErrAdminNotAuthorized
	}
	recipients, err := s.recipientRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	return recipients, nil
}
