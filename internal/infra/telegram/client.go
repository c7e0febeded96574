// internal/infra/telegram/client.go
package telegram

import (
	"context"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to a private chat. Nothing is sent once ctx is done.
func (tba *TelebotAdapter) SendMessage(ctx context.Context, chatID int64, text string, options *telebot.SendOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if options == nil {
		options = &telebot.SendOptions{}
	}

	recipient := &telebot.User{ID: chatID} // alerts go to direct user chats
	_, err := tba.bot.Send(recipient, text, options)
	return err
}
