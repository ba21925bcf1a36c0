package error_notificator

import "context"

type Notificator interface {
	// Notify — отправляет сообщение об упавшей конвертации админам
	Notify(ctx context.Context, jobID string, err error, details string) error
}
