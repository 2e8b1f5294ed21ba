package shopee

import (
	"time"

	log "github.com/sirupsen/logrus"

	applog "github.com/capteiofertas/ofertas-server/log"
)

// Source identifica a camada upstream que produziu (ou tentou produzir) um snapshot.
type Source string

const (
	// SourceInternalAPI API web interna da Shopee (não autenticada).
	SourceInternalAPI Source = "internal_api"

	// SourcePartnerAPI API de parceiros assinada.
	SourcePartnerAPI Source = "partner_api"
)

// Observer recebe os eventos estruturados emitidos durante uma resolução
// (camada tentada, resultado, duração). Desacopla o resolvedor de qualquer
// backend de logging/telemetria específico.
type Observer interface {
	TierAttempted(source Source, ref ProductReference)
	TierFinished(source Source, ref ProductReference, elapsed time.Duration, err error)
}

// logObserver observador padrão: registra os eventos no log estruturado da aplicação.
type logObserver struct{}

func (logObserver) TierAttempted(source Source, ref ProductReference) {
	applog.WithComponentAndFields("shopee.resolver", log.Fields{
		"source":  source,
		"shop_id": ref.ShopID,
		"item_id": ref.ItemID,
	}).Debug("consultando camada upstream")
}

func (logObserver) TierFinished(source Source, ref ProductReference, elapsed time.Duration, err error) {
	entry := applog.WithComponentAndFields("shopee.resolver", log.Fields{
		"source":   source,
		"shop_id":  ref.ShopID,
		"item_id":  ref.ItemID,
		"duration": elapsed.Round(time.Millisecond).String(),
	})

	if err != nil {
		entry.WithError(err).Debug("camada upstream não produziu dados")
		return
	}

	entry.Debug("camada upstream respondeu com sucesso")
}

// NopObserver observador que descarta todos os eventos; útil em testes.
type NopObserver struct{}

func (NopObserver) TierAttempted(Source, ProductReference)                      {}
func (NopObserver) TierFinished(Source, ProductReference, time.Duration, error) {}
