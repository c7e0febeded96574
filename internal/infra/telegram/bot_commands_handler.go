// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"maintenance_alert_bot/internal/domain/notification"
	idb "maintenance_alert_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

type role int

const (
	roleUnknown role = iota
	roleInactive
	roleRecipient
	roleAdmin
)

const msgStatusCheckFailed = "Ocorreu um erro ao verificar seu cadastro. Tente novamente mais tarde."

// AccessChecker resolves who is talking to the bot.
type AccessChecker struct {
	adminTelegramID int64
	recipientRepo   notification.RecipientRepository
}

func NewAccessChecker(adminTelegramID int64, rr notification.RecipientRepository) AccessChecker {
	return AccessChecker{adminTelegramID: adminTelegramID, recipientRepo: rr}
}

func (a AccessChecker) resolve(ctx context.Context, senderID int64) (role, *notification.Recipient, error) {
	if senderID == a.adminTelegramID {
		return roleAdmin, nil, nil
	}
	r, err := a.recipientRepo.GetByTelegramID(ctx, senderID)
	if err != nil {
		if errors.Is(err, idb.ErrRecipientNotFound) {
			return roleUnknown, nil, nil
		}
		return roleUnknown, nil, err
	}
	if !r.IsActive {
		return roleInactive, r, nil
	}
	return roleRecipient, r, nil
}

// allowed reports whether the sender may read reports and record executions.
// A denial reply has already been sent when ok is false.
func (a AccessChecker) allowed(ctx context.Context, c telebot.Context, logCtx *logrus.Entry) (bool, error) {
	who, _, err := a.resolve(ctx, c.Sender().ID)
	if err != nil {
		logCtx.WithError(err).Error("Error checking recipient status")
		return false, c.Send(msgStatusCheckFailed)
	}
	if who == roleAdmin || who == roleRecipient {
		return true, nil
	}
	logCtx.Warn("Unauthorized access attempt")
	return false, c.Send("Você não tem permissão para usar este comando. Peça ao administrador para cadastrá-lo.")
}

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	access AccessChecker,
	baseLogger *logrus.Entry, // For contextual logging
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		who, r, err := access.resolve(ctx, senderID)
		if err != nil {
			logCtx.WithError(err).Error("Error checking recipient status for /start command")
			return c.Send(msgStatusCheckFailed)
		}

		switch who {
		case roleAdmin:
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Olá, administrador %s! Estou pronto. Use /help para ver os comandos.", c.Sender().FirstName))
		case roleRecipient:
			logCtx.WithField("recipient_id", r.ID).Info("User identified as active recipient")
			return c.Send(fmt.Sprintf("Olá, %s! Vou avisar sobre manutenções preventivas, calibrações e testes de segurança próximos do vencimento.", r.FirstName))
		case roleInactive:
			logCtx.WithField("recipient_id", r.ID).Info("User identified as inactive recipient")
			return c.Send("Seu cadastro para alertas está inativo. Fale com o administrador.")
		default:
			logCtx.Info("User is unknown")
			return c.Send("Olá! Sou o bot de alertas de manutenção da engenharia clínica. Para receber alertas, peça ao administrador para cadastrá-lo.")
		}
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		who, _, err := access.resolve(ctx, senderID)
		if err != nil {
			logCtx.WithError(err).Error("Error checking recipient status for /help command")
			return c.Send(msgStatusCheckFailed)
		}

		switch who {
		case roleAdmin:
			return c.Send(adminHelpText()+"\n\n"+recipientHelpText(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		case roleRecipient:
			return c.Send(recipientHelpText(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		case roleInactive:
			return c.Send("Seu cadastro para alertas está inativo. Para reativá-lo, fale com o administrador.")
		default:
			return c.Send("Nenhum comando disponível. Para receber alertas, peça ao administrador para cadastrá-lo.")
		}
	})
}

func adminHelpText() string {
	var helpText strings.Builder
	helpText.WriteString("Comandos do administrador:\n\n")
	helpText.WriteString("`/add_recipient <TelegramID> <Nome> [Sobrenome]`\n - Cadastrar um destinatário de alertas.\n\n")
	helpText.WriteString("`/remove_recipient <TelegramID>`\n - Desativar um destinatário (deixa de receber alertas).\n\n")
	helpText.WriteString("`/list_recipients [active|all]`\n - Listar destinatários. Padrão: ativos.")
	return helpText.String()
}

func recipientHelpText() string {
	var helpText strings.Builder
	helpText.WriteString("Alertas são enviados 60, 30, 20, 15, 10 e 5 dias antes do vencimento, no dia do vencimento e a cada 5 dias enquanto a tarefa estiver vencida. ")
	helpText.WriteString("Use o botão \"Registrar execução\" do alerta quando a tarefa for concluída.\n\n")
	helpText.WriteString("`/due [dias]`\n - Tarefas vencidas ou que vencem nos próximos dias (padrão 30).\n\n")
	helpText.WriteString("`/reliability <ID do equipamento>`\n - MTTR e MTBF de um equipamento.\n\n")
	helpText.WriteString("`/fleet_reliability`\n - MTTR e MTBF do parque ativo.\n\n")
	helpText.WriteString("`/help`\n - Mostrar esta mensagem.")
	return helpText.String()
}
