package telegram

import (
	"context"

	"gopkg.in/telebot.v3"
)

// Client delivers alert and report messages to a Telegram chat.
type Client interface {
	// SendMessage gives up without sending when ctx is already done, so a sweep that ran
	// past its timeout stops fanning out.
	SendMessage(ctx context.Context, chatID int64, text string, options *telebot.SendOptions) error
}
