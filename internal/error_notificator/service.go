package error_notificator

import "context"

type Service struct {
	infra Notificator
}

func NewService(infra Notificator) *Service {
	if infra == nil {
		infra = Nop{}
	}
	return &Service{infra: infra}
}

func (s *Service) Notify(ctx context.Context, jobID string, err error, details string) error {
	return s.infra.Notify(ctx, jobID, err, details)
}
