package app

import (
	"fmt"
	"strings"

	"maintenance_alert_bot/internal/domain/alert"
	"maintenance_alert_bot/internal/domain/reliability"
)

const insufficientData = "dados insuficientes"

func formatHours(v *float64) string {
	if v == nil {
		return insufficientData
	}
	if *v >= 48 {
		return fmt.Sprintf("%.1f h (%.1f dias)", *v, *v/24)
	}
	return fmt.Sprintf("%.1f h", *v)
}

func writeMetrics(b *strings.Builder, m reliability.Metrics) {
	fmt.Fprintf(b, "MTTR: %s\n", formatHours(m.MTTRHours))
	fmt.Fprintf(b, "MTBF: %s\n", formatHours(m.MTBFHours))
	fmt.Fprintf(b, "Chamados fechados: %d", m.SampleCount)
	if m.Anomalies > 0 {
		fmt.Fprintf(b, "\nRegistros inconsistentes ignorados: %d", m.Anomalies)
	}
}

// FormatAssetReport renders one equipment's reliability for Telegram.
func FormatAssetReport(r *AssetReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Confiabilidade de %s\n\n", r.Equipment.Ref())
	writeMetrics(&b, r.Metrics)
	return b.String()
}

// FormatFleetReport renders the pooled fleet reliability for Telegram.
func FormatFleetReport(r *FleetReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Confiabilidade do parque (%d equipamentos ativos)\n\n", r.EquipmentCount)
	writeMetrics(&b, r.Metrics)
	return b.String()
}

// FormatDueList renders the due-date overview. An empty list gets a reassuring line instead.
func FormatDueList(items []DueItem, horizonDays int) string {
	if len(items) == 0 {
		return fmt.Sprintf("✅ Nenhuma manutenção vencida ou prevista para os próximos %d dias.", horizonDays)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Manutenções vencidas ou previstas para os próximos %d dias:\n", horizonDays)
	for _, item := range items {
		b.WriteString("\n")
		b.WriteString(severityIcon(item.Severity))
		fmt.Fprintf(&b, " %s | %s | %s", item.EquipmentRef, item.TaskLabel, item.DueDate.Format("02/01/2006"))
		switch {
		case item.DaysUntil < 0:
			fmt.Fprintf(&b, " (vencida há %d dias)", -item.DaysUntil)
		case item.DaysUntil == 0:
			b.WriteString(" (hoje)")
		default:
			fmt.Fprintf(&b, " (em %d dias)", item.DaysUntil)
		}
	}
	return b.String()
}

func severityIcon(s alert.Severity) string {
	switch s {
	case alert.SeverityOverdue:
		return "🔴"
	case alert.SeverityWarning:
		return "🟡"
	default:
		return "🟢"
	}
}
