// Package refresh re-resolve periodicamente os produtos do catálogo para
// manter os preços atualizados e alertar sobre quedas de preço.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/capteiofertas/ofertas-server/config"
	applog "github.com/capteiofertas/ofertas-server/log"
	"github.com/capteiofertas/ofertas-server/service/notification"
	"github.com/capteiofertas/ofertas-server/service/shopee"
	"github.com/capteiofertas/ofertas-server/service/storage"
)

const component = "refresh.service"

// ProductResolver resolve uma URL de produto em um snapshot atualizado.
type ProductResolver interface {
	Resolve(ctx context.Context, rawURL string) (*shopee.ProductSnapshot, error)
}

// Service serviço agendado de atualização de preços do catálogo.
type Service struct {
	cfg *config.AppConfig

	store    storage.Store
	resolver ProductResolver
	sender   notification.Sender

	cron    *cron.Cron
	limiter *rate.Limiter

	running   bool
	runningMu sync.Mutex
}

// NewService cria o serviço de atualização de preços.
func NewService(cfg *config.AppConfig, store storage.Store, resolver ProductResolver, sender notification.Sender) *Service {
	perMinute := cfg.Refresh.RatePerMinute
	if perMinute <= 0 {
		perMinute = 1
	}

	return &Service{
		cfg: cfg,

		store:    store,
		resolver: resolver,
		sender:   sender,

		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
	}
}

// Run registra a rotina de atualização no agendador cron e o inicia.
func (s *Service) Run(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	logger := applog.WithComponent(component)
	logger.Debug("iniciando o serviço de atualização de preços...")

	if !s.cfg.Refresh.Runnable {
		defer serviceStopWaiter.Done()

		logger.Debug("a atualização periódica de preços está desabilitada na configuração")

		return nil
	}

	if s.running {
		defer serviceStopWaiter.Done()

		logger.Warn("o serviço de atualização de preços já foi iniciado")

		return nil
	}

	cronLogger := cron.VerbosePrintfLogger(applog.WithComponent(component))
	s.cron = cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		),
	)

	if _, err := s.cron.AddFunc(s.cfg.Refresh.TimeSpec, func() {
		s.refreshAll(serviceStopCtx)
	}); err != nil {
		defer serviceStopWaiter.Done()

		return err
	}

	s.cron.Start()
	s.running = true

	go func() {
		defer serviceStopWaiter.Done()

		<-serviceStopCtx.Done()

		s.stop()
	}()

	logger.Debug("serviço de atualização de preços iniciado")

	return nil
}

func (s *Service) stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	logger := applog.WithComponent(component)
	logger.Debug("encerrando o serviço de atualização de preços...")

	// Aguarda o término da rodada em andamento.
	<-s.cron.Stop().Done()
	s.running = false

	logger.Debug("serviço de atualização de preços encerrado")
}

// refreshAll percorre o catálogo re-resolvendo cada produto. Falhas
// individuais são registradas e puladas, nunca interrompem a rodada.
func (s *Service) refreshAll(ctx context.Context) {
	logger := applog.WithComponent(component)

	products, err := s.store.Products(ctx, storage.ProductFilter{})
	if err != nil {
		logger.WithError(err).Error("falha ao carregar o catálogo para a atualização de preços")
		return
	}

	started := time.Now()

	var updated, dropped, failed int
	for _, product := range products {
		if ctx.Err() != nil {
			logger.Warn("rodada de atualização de preços interrompida pelo encerramento do serviço")
			return
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return
		}

		switch changed, priceDrop, err := s.refreshProduct(ctx, product); {
		case err != nil:
			failed++
			applog.WithComponentAndFields(component, log.Fields{
				"product_id": product.ID,
				"url":        product.AffiliateURL,
			}).WithError(err).Warn("falha na re-resolução do produto; produto pulado")
		case changed:
			updated++
			if priceDrop {
				dropped++
			}
		}
	}

	applog.WithComponentAndFields(component, log.Fields{
		"total":       len(products),
		"updated":     updated,
		"price_drops": dropped,
		"failures":    failed,
		"elapsed":     time.Since(started).Round(time.Millisecond).String(),
	}).Info("rodada de atualização de preços concluída")
}

// refreshProduct re-resolve um produto e persiste os preços quando mudaram.
// Informa também se houve queda de preço (e alerta, nesse caso).
func (s *Service) refreshProduct(ctx context.Context, product *storage.Product) (changed, priceDrop bool, err error) {
	snapshot, err := s.resolver.Resolve(ctx, product.AffiliateURL)
	if err != nil {
		return false, false, err
	}

	if snapshot.Price == product.Price && snapshot.OriginalPrice == product.OriginalPrice {
		return false, false, nil
	}

	if err := s.store.UpdateProductPrice(ctx, product.ID, snapshot.Price, snapshot.OriginalPrice); err != nil {
		return false, false, err
	}

	if snapshot.Price < product.Price {
		s.notifyPriceDrop(renderPriceDropMessage(s.cfg.Site.Name, product, snapshot.Price))
		return true, true, nil
	}

	return true, false, nil
}

func (s *Service) notifyPriceDrop(message string) {
	if s.cfg.Refresh.NotifierID != "" {
		s.sender.Notify(notification.NotifierID(s.cfg.Refresh.NotifierID), message)
		return
	}

	s.sender.NotifyDefault(message)
}
