// internal/infra/telegram/execution_handlers.go
package telegram

import (
	"context"
	"errors"
	"fmt"

	"maintenance_alert_bot/internal/app"
	idb "maintenance_alert_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterExecutionHandlers handles the "Registrar execução" button attached to every alert.
func RegisterExecutionHandlers(ctx context.Context, b *telebot.Bot, access AccessChecker, alertService *app.AlertService, baseLogger *logrus.Entry) {
	// telebot routes "\f<unique>|<data>" callbacks here with Callback().Data set to the payload.
	b.Handle("\f"+app.CallbackExecutionDone, func(c telebot.Context) error {
		data := c.Callback().Data
		logCtx := baseLogger.WithFields(logrus.Fields{
			"handler":   app.CallbackExecutionDone,
			"sender_id": c.Sender().ID,
			"data":      data,
		})

		who, _, err := access.resolve(ctx, c.Sender().ID)
		if err != nil {
			logCtx.WithError(err).Error("Error checking recipient status")
			return c.Respond(&telebot.CallbackResponse{Text: "Erro ao verificar cadastro."})
		}
		if who != roleAdmin && who != roleRecipient {
			logCtx.Warn("Unauthorized execution attempt")
			return c.Respond(&telebot.CallbackResponse{Text: "Sem permissão.", ShowAlert: true})
		}

		planID, err := parseID(data)
		if err != nil {
			c.Bot().OnError(fmt.Errorf("invalid plan ID '%s' in callback: %w", data, err), c)
			return c.Respond(&telebot.CallbackResponse{Text: "Erro no ID do plano."})
		}

		plan, err := alertService.RecordExecution(ctx, planID, alertService.Now())
		if err != nil {
			if errors.Is(err, idb.ErrPlanNotFound) {
				logCtx.WithField("plan_id", planID).Warn("Plan not found for execution")
				return c.Respond(&telebot.CallbackResponse{Text: "Plano não encontrado."})
			}
			if errors.Is(err, app.ErrPlanInactive) {
				logCtx.WithField("plan_id", planID).Warn("Execution attempted on inactive plan")
				return c.Respond(&telebot.CallbackResponse{Text: "Plano desativado; execução não registrada.", ShowAlert: true})
			}
			c.Bot().OnError(fmt.Errorf("error recording execution for plan %d: %w", planID, err), c)
			return c.Respond(&telebot.CallbackResponse{Text: "Ocorreu um erro."})
		}

		reply := "✅ Execução registrada."
		if plan.NextDueAt.Valid {
			reply = fmt.Sprintf("✅ Execução registrada. Próximo vencimento: %s.", plan.NextDueAt.Time.Format("02/01/2006"))
		}
		if err := c.Send(reply); err != nil {
			logCtx.WithError(err).Warn("Failed to send execution confirmation")
		}
		return c.Respond(&telebot.CallbackResponse{Text: "Execução registrada!"})
	})
}
