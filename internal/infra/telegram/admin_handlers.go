package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"maintenance_alert_bot/internal/app"
	"maintenance_alert_bot/internal/domain/notification"
	idb "maintenance_alert_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const msgNotAuthorized = "Erro: você não tem permissão para executar este comando."

// RegisterAdminHandlers registers handlers for recipient management commands.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, baseLogger *logrus.Entry) {
	b.Handle("/add_recipient", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add_recipient",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if !adminService.IsAdmin(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(msgNotAuthorized)
		}

		// Expected format: /add_recipient <TelegramID> <FirstName> [LastName]
		args, err := parseAddRecipientArgs(c.Args())
		if err != nil {
			handlerLogger.WithError(err).Warn("Invalid command format")
			return c.Send(err.Error())
		}
		handlerLogger = handlerLogger.WithField("recipient_telegram_id", args.telegramID)

		recipient, err := adminService.AddRecipient(ctx, c.Sender().ID, args.telegramID, args.firstName, args.lastName)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, app.ErrAdminNotAuthorized):
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send(msgNotAuthorized)
			case errors.Is(err, app.ErrRecipientAlreadyExists):
				logWithError.Warn("Recipient already exists")
				return c.Send(fmt.Sprintf("Erro: o destinatário com Telegram ID %d já está cadastrado.", args.telegramID))
			default:
				logWithError.Error("Failed to add recipient")
				return c.Send("Ocorreu um erro ao cadastrar o destinatário. Tente novamente mais tarde.")
			}
		}

		handlerLogger.WithField("recipient_id", recipient.ID).Info("Recipient added successfully")
		return c.Send(fmt.Sprintf("Destinatário %s (ID: %d) cadastrado com sucesso.", recipient.FullName(), recipient.TelegramID))
	})

	b.Handle("/remove_recipient", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remove_recipient",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if !adminService.IsAdmin(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(msgNotAuthorized)
		}

		args := c.Args()
		if len(args) != 1 {
			return c.Send("Formato inválido. Use: /remove_recipient <TelegramID>")
		}
		telegramID, err := parseID(args[0])
		if err != nil {
			handlerLogger.WithField("arg", args[0]).Warn("Invalid Telegram ID format")
			return c.Send("Erro: o Telegram ID deve ser um número.")
		}
		handlerLogger = handlerLogger.WithField("recipient_telegram_id", telegramID)

		removed, err := adminService.RemoveRecipient(ctx, c.Sender().ID, telegramID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, app.ErrAdminNotAuthorized):
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send(msgNotAuthorized)
			case errors.Is(err, idb.ErrRecipientNotFound):
				logWithError.Warn("Recipient to remove not found")
				return c.Send(fmt.Sprintf("Nenhum destinatário com Telegram ID %d foi encontrado.", telegramID))
			case errors.Is(err, app.ErrRecipientAlreadyInactive):
				logWithError.Warn("Recipient already inactive")
				return c.Send(fmt.Sprintf("O destinatário %s (ID: %d) já estava desativado.", removed.FullName(), removed.TelegramID))
			default:
				logWithError.Error("Failed to remove recipient")
				return c.Send("Ocorreu um erro ao desativar o destinatário. Tente novamente mais tarde.")
			}
		}

		handlerLogger.WithField("recipient_id", removed.ID).Info("Recipient deactivated successfully")
		return c.Send(fmt.Sprintf("Destinatário %s (ID: %d) desativado com sucesso.", removed.FullName(), removed.TelegramID))
	})

	b.Handle("/list_recipients", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/list_recipients",
			"sender_id": c.Sender().ID,
		})
		if !adminService.IsAdmin(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(msgNotAuthorized)
		}

		listType := "active"
		if args := c.Args(); len(args) > 0 {
			listType = strings.ToLower(args[0])
		}
		handlerLogger = handlerLogger.WithField("list_type", listType)

		var recipients []*notification.Recipient
		var err error
		var title string
		switch listType {
		case "active":
			title = "Destinatários ativos"
			recipients, err = adminService.ListActiveRecipients(ctx, c.Sender().ID)
		case "all":
			title = "Todos os destinatários"
			recipients, err = adminService.ListAllRecipients(ctx, c.Sender().ID)
		default:
			handlerLogger.Warn("Invalid list type argument")
			return c.Send("Argumento inválido. Use 'active' ou 'all', ou deixe vazio para listar os ativos.")
		}

		if err != nil {
			if errors.Is(err, app.ErrAdminNotAuthorized) {
				return c.Send(msgNotAuthorized)
			}
			handlerLogger.WithError(err).Error("Failed to get list of recipients")
			return c.Send("Ocorreu um erro ao listar os destinatários. Tente novamente mais tarde.")
		}

		if len(recipients) == 0 {
			if listType == "active" {
				return c.Send("Nenhum destinatário ativo encontrado.")
			}
			return c.Send("A lista de destinatários está vazia.")
		}

		handlerLogger.WithField("recipients_count", len(recipients)).Info("Successfully retrieved recipient list")
		return c.Send(formatRecipientList(title, recipients))
	})
}

func formatRecipientList(title string, recipients []*notification.Recipient) string {
	var response strings.Builder
	fmt.Fprintf(&response, "--- %s ---\n", title)
	for _, r := range recipients {
		status := "Desativado"
		if r.IsActive {
			status = "Ativo"
		}
		fmt.Fprintf(&response, "ID: %d, Telegram ID: %d, Nome: %s, Status: %s\n", r.ID, r.TelegramID, r.FullName(), status)
	}
	return response.String()
}
