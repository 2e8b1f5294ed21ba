// Package notification envia alertas de oferta (quedas de preço, novos
// produtos) pelos canais configurados, de forma assíncrona.
package notification

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/capteiofertas/ofertas-server/config"
	applog "github.com/capteiofertas/ofertas-server/log"
	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
)

// Sender interface de envio de notificações oferecida aos demais serviços.
type Sender interface {
	// Notify envia a mensagem pelo canal informado.
	Notify(id NotifierID, message string) (succeeded bool)

	// NotifyDefault envia a mensagem pelo canal padrão configurado.
	NotifyDefault(message string) (succeeded bool)
}

// Service serviço de notificação: mantém os canais configurados e distribui as
// mensagens entre eles.
type Service struct {
	cfg *config.AppConfig

	running   bool
	runningMu sync.Mutex

	defaultHandler NotifierHandler
	handlers       []*telegramNotifier

	notificationStopWaiter *sync.WaitGroup

	// newTelegramFn injetável para os testes substituírem o bot real.
	newTelegramFn func(id NotifierID, botToken string, chatID int64) (*telegramNotifier, error)
}

// NewService cria o serviço de notificação a partir da configuração.
func NewService(cfg *config.AppConfig) *Service {
	return &Service{
		cfg: cfg,

		notificationStopWaiter: &sync.WaitGroup{},

		newTelegramFn: newTelegramNotifier,
	}
}

// Run inicia os canais configurados e o ciclo de vida do serviço.
func (s *Service) Run(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	logger := applog.WithComponent("notification.service")
	logger.Debug("iniciando o serviço de notificação...")

	if s.running {
		defer serviceStopWaiter.Done()

		logger.Warn("o serviço de notificação já foi iniciado")

		return nil
	}

	for _, telegram := range s.cfg.Notifiers.Telegrams {
		h, err := s.newTelegramFn(NotifierID(telegram.ID), telegram.BotToken, telegram.ChatID)
		if err != nil {
			defer serviceStopWaiter.Done()
			s.closeHandlers()

			return apperrors.Wrap(err, apperrors.ErrSystem, "falha na inicialização do notificador do Telegram")
		}
		s.handlers = append(s.handlers, h)

		s.notificationStopWaiter.Add(1)
		go h.run(serviceStopCtx, s.notificationStopWaiter)

		applog.WithComponentAndFields("notification.service", log.Fields{
			"notifier_id": telegram.ID,
		}).Debug("notificador do Telegram registrado")
	}

	for _, h := range s.handlers {
		if h.ID() == NotifierID(s.cfg.Notifiers.DefaultNotifierID) {
			s.defaultHandler = h
			break
		}
	}

	go s.waitForStop(serviceStopCtx, serviceStopWaiter)

	s.running = true

	logger.Debug("serviço de notificação iniciado")

	return nil
}

func (s *Service) waitForStop(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) {
	defer serviceStopWaiter.Done()

	<-serviceStopCtx.Done()

	logger := applog.WithComponent("notification.service")
	logger.Debug("encerrando o serviço de notificação...")

	s.runningMu.Lock()
	s.closeHandlers()
	s.running = false
	s.defaultHandler = nil
	s.runningMu.Unlock()

	// Aguarda o término dos envios pendentes de todos os canais.
	s.notificationStopWaiter.Wait()

	logger.Debug("serviço de notificação encerrado")
}

func (s *Service) closeHandlers() {
	for _, h := range s.handlers {
		h.close()
	}
	s.handlers = nil
}

// Notify envia a mensagem pelo canal informado.
func (s *Service) Notify(id NotifierID, message string) bool {
	s.runningMu.Lock()
	var handler NotifierHandler
	for _, h := range s.handlers {
		if h.ID() == id {
			handler = h
			break
		}
	}
	s.runningMu.Unlock()

	if handler == nil {
		applog.WithComponentAndFields("notification.service", log.Fields{
			"notifier_id": id,
		}).Error("o canal de notificação solicitado não está registrado")

		return false
	}

	// O registro na fila fica fora do lock do serviço: com a fila cheia ele
	// bloqueia até haver espaço e não pode atrasar o encerramento.
	return handler.Notify(message)
}

// NotifyDefault envia a mensagem pelo canal padrão. Sem canais configurados a
// mensagem é descartada silenciosamente.
func (s *Service) NotifyDefault(message string) bool {
	s.runningMu.Lock()
	handler := s.defaultHandler
	s.runningMu.Unlock()

	if handler == nil {
		return false
	}

	return handler.Notify(message)
}

var _ Sender = (*Service)(nil)
