package notification

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	applog "github.com/capteiofertas/ofertas-server/log"
	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
)

const (
	// telegramSendInterval intervalo mínimo entre mensagens para o mesmo chat,
	// respeitando o limite de envio do Telegram.
	telegramSendInterval = time.Second

	telegramSendBufferSize = 10
)

// botAPI subconjunto do cliente do Telegram usado pelo notificador. Permite a
// substituição do bot real por dublês nos testes.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// telegramNotifier canal de notificação que envia mensagens a um chat do
// Telegram, com marcação HTML.
type telegramNotifier struct {
	notifier

	chatID int64

	bot     botAPI
	limiter *rate.Limiter
}

// newTelegramNotifier autentica o bot e monta o notificador.
func newTelegramNotifier(id NotifierID, botToken string, chatID int64) (*telegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha na autenticação do bot do Telegram")
	}

	applog.WithComponentAndFields("notification.telegram", log.Fields{
		"notifier_id": id,
		"account":     bot.Self.UserName,
	}).Debug("bot do Telegram autenticado")

	return newTelegramNotifierWithBot(id, chatID, bot), nil
}

func newTelegramNotifierWithBot(id NotifierID, chatID int64, bot botAPI) *telegramNotifier {
	return &telegramNotifier{
		notifier: newNotifier(id, true, telegramSendBufferSize),

		chatID: chatID,

		bot:     bot,
		limiter: rate.NewLimiter(rate.Every(telegramSendInterval), 1),
	}
}

// run consome a fila de envio até o encerramento do serviço.
func (n *telegramNotifier) run(notificationStopCtx context.Context, notificationStopWaiter *sync.WaitGroup) {
	defer notificationStopWaiter.Done()

	logger := applog.WithComponentAndFields("notification.telegram", log.Fields{
		"notifier_id": n.ID(),
	})

	logger.Debug("notificador do Telegram iniciado")

	requestC := n.requestC

	for {
		select {
		case request, opened := <-requestC:
			if !opened {
				return
			}

			n.send(notificationStopCtx, logger, request.message)

		case <-notificationStopCtx.Done():
			logger.Debug("notificador do Telegram encerrado")
			return
		}
	}
}

func (n *telegramNotifier) send(ctx context.Context, logger *log.Entry, message string) {
	if err := n.limiter.Wait(ctx); err != nil {
		return
	}

	m := tgbotapi.NewMessage(n.chatID, message)
	m.ParseMode = tgbotapi.ModeHTML
	m.DisableWebPagePreview = true

	if _, err := n.bot.Send(m); err != nil {
		logger.WithError(err).Error("falha no envio da notificação pelo Telegram")
	}
}
