package notification

import (
	"sync"

	log "github.com/sirupsen/logrus"

	applog "github.com/capteiofertas/ofertas-server/log"
)

// NotifierID identificador de um canal de notificação configurado.
type NotifierID string

// notifyRequest dados de uma notificação transportados pelo canal interno.
type notifyRequest struct {
	message string
}

// NotifierHandler contrato dos canais de notificação registrados no serviço.
type NotifierHandler interface {
	ID() NotifierID

	// Notify registra a mensagem na fila de envio assíncrono.
	Notify(message string) (succeeded bool)

	// SupportsHTML informa se o canal aceita marcação HTML nas mensagens.
	SupportsHTML() bool
}

// notifier implementação base dos canais de notificação, embutida nas
// implementações concretas.
type notifier struct {
	id NotifierID

	supportsHTML bool

	mu       sync.Mutex
	requestC chan *notifyRequest
}

func newNotifier(id NotifierID, supportsHTML bool, bufferSize int) notifier {
	return notifier{
		id: id,

		supportsHTML: supportsHTML,

		requestC: make(chan *notifyRequest, bufferSize),
	}
}

func (n *notifier) ID() NotifierID {
	return n.id
}

func (n *notifier) SupportsHTML() bool {
	return n.supportsHTML
}

// Notify registra a mensagem na fila de envio. Um panic durante o registro
// (canal fechado no desligamento) é recuperado para não derrubar o chamador.
func (n *notifier) Notify(message string) (succeeded bool) {
	defer func() {
		if r := recover(); r != nil {
			succeeded = false

			applog.WithComponentAndFields("notification.service", log.Fields{
				"notifier_id":    n.ID(),
				"message_length": len(message),
				"panic":          r,
			}).Error("panic durante o registro da notificação")
		}
	}()

	n.mu.Lock()
	requestC := n.requestC
	n.mu.Unlock()

	if requestC == nil {
		return false
	}

	requestC <- &notifyRequest{message: message}

	return true
}

// close fecha o canal de envio e libera os recursos do notificador.
func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.requestC != nil {
		close(n.requestC)
		n.requestC = nil
	}
}
