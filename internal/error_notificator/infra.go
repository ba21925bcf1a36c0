package error_notificator

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender — то, что нужно от tgbotapi.BotAPI
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Infra struct {
	bot    Sender
	admins []int64
	log    *zap.Logger
}

func NewInfra(bot Sender, admins []int64, log *zap.Logger) *Infra {
	if log == nil {
		log = zap.NewNop()
	}
	return &Infra{bot: bot, admins: admins, log: log.Named("error_notificator")}
}

// NewTelegramInfra поднимает бота по токену.
func NewTelegramInfra(token string, admins []int64, log *zap.Logger) (*Infra, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return NewInfra(bot, admins, log), nil
}

func (i *Infra) Notify(ctx context.Context, jobID string, err error, details string) error {
	text := fmt.Sprintf(
		"❗ Ошибка конвертации (%s)\n\nОшибка: %v\n\nДетали: %s",
		jobID,
		err,
		details,
	)

	for _, chatID := range i.admins {
		_, sendErr := i.bot.Send(tgbotapi.NewMessage(chatID, text))
		if sendErr != nil {
			i.log.Warn("send fail", zap.Int64("chat", chatID), zap.Error(sendErr))
			return sendErr
		}
	}

	return nil
}

// Nop — уведомления выключены
type Nop struct{}

func (Nop) Notify(context.Context, string, error, string) error { return nil }
