package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultDueHorizonDays = 30
	maxDueHorizonDays     = 365
)

type addRecipientArgs struct {
	telegramID int64
	firstName  string
	lastName   string
}

// Errors are returned with the Portuguese reply text so handlers can send them as is.
func parseAddRecipientArgs(args []string) (addRecipientArgs, error) {
	if len(args) < 2 || len(args) > 3 {
		return addRecipientArgs{}, errors.New("Formato inválido. Use: /add_recipient <TelegramID> <Nome> [Sobrenome]")
	}
	id, err := parseID(args[0])
	if err != nil {
		return addRecipientArgs{}, errors.New("Erro: o Telegram ID deve ser um número.")
	}
	out := addRecipientArgs{telegramID: id, firstName: strings.TrimSpace(args[1])}
	if out.firstName == "" {
		return addRecipientArgs{}, errors.New("Erro: o nome não pode ficar vazio.")
	}
	if len(args) == 3 {
		out.lastName = strings.TrimSpace(args[2])
	}
	return out, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}

// parseHorizon reads the optional day count of /due.
func parseHorizon(args []string) (int, error) {
	if len(args) == 0 {
		return defaultDueHorizonDays, nil
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days < 0 || days > maxDueHorizonDays {
		return 0, fmt.Errorf("Informe um número de dias entre 0 e %d.", maxDueHorizonDays)
	}
	return days, nil
}
