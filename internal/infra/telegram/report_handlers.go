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

// RegisterReportHandlers registers the read-only commands available to recipients and the admin.
func RegisterReportHandlers(
	ctx context.Context,
	b *telebot.Bot,
	access AccessChecker,
	alertService *app.AlertService,
	reliabilityService *app.ReliabilityService,
	baseLogger *logrus.Entry,
) {
	reportLogger := baseLogger.WithField("handler_group", "reports")

	b.Handle("/due", func(c telebot.Context) error {
		logCtx := reportLogger.WithFields(logrus.Fields{"command": "/due", "sender_id": c.Sender().ID})
		if ok, err := access.allowed(ctx, c, logCtx); !ok {
			return err
		}

		horizon, err := parseHorizon(c.Args())
		if err != nil {
			return c.Send(err.Error())
		}

		items, err := alertService.ListDue(ctx, horizon)
		if err != nil {
			logCtx.WithError(err).Error("Failed to list due plans")
			return c.Send("Ocorreu um erro ao consultar os vencimentos. Tente novamente mais tarde.")
		}
		logCtx.WithFields(logrus.Fields{"horizon_days": horizon, "items": len(items)}).Info("Due list sent")
		return c.Send(app.FormatDueList(items, horizon))
	})

	b.Handle("/reliability", func(c telebot.Context) error {
		logCtx := reportLogger.WithFields(logrus.Fields{"command": "/reliability", "sender_id": c.Sender().ID})
		if ok, err := access.allowed(ctx, c, logCtx); !ok {
			return err
		}

		args := c.Args()
		if len(args) != 1 {
			return c.Send("Formato inválido. Use: /reliability <ID do equipamento>")
		}
		equipmentID, err := parseID(args[0])
		if err != nil {
			return c.Send("Erro: o ID do equipamento deve ser um número.")
		}

		report, err := reliabilityService.AssetReliability(ctx, equipmentID)
		if err != nil {
			if errors.Is(err, idb.ErrEquipmentNotFound) {
				return c.Send(fmt.Sprintf("Equipamento %d não encontrado.", equipmentID))
			}
			logCtx.WithError(err).WithField("equipment_id", equipmentID).Error("Failed to compute asset reliability")
			return c.Send("Ocorreu um erro ao calcular a confiabilidade. Tente novamente mais tarde.")
		}
		return c.Send(app.FormatAssetReport(report))
	})

	b.Handle("/fleet_reliability", func(c telebot.Context) error {
		logCtx := reportLogger.WithFields(logrus.Fields{"command": "/fleet_reliability", "sender_id": c.Sender().ID})
		if ok, err := access.allowed(ctx, c, logCtx); !ok {
			return err
		}

		report, err := reliabilityService.FleetReliability(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to compute fleet reliability")
			return c.Send("Ocorreu um erro ao calcular a confiabilidade. Tente novamente mais tarde.")
		}
		return c.Send(app.FormatFleetReport(report))
	})
}
