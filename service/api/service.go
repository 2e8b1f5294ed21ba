// Package api expõe a API pública do site: catálogo de ofertas, blog,
// sitemap e endpoints de sistema.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/capteiofertas/ofertas-server/config"
	applog "github.com/capteiofertas/ofertas-server/log"
	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
	"github.com/capteiofertas/ofertas-server/pkg/version"
	"github.com/capteiofertas/ofertas-server/service/api/handler"
	"github.com/capteiofertas/ofertas-server/service/notification"
	"github.com/capteiofertas/ofertas-server/service/storage"
)

const (
	// shutdownTimeout tempo de espera pelo encerramento do servidor
	shutdownTimeout = 5 * time.Second
)

// Service serviço que gerencia o ciclo de vida do servidor da API.
//
// Responsabilidades:
//   - Iniciar e encerrar o servidor HTTP/HTTPS baseado no echo
//   - Configurar as rotas da API (catálogo, blog, sitemap, sistema)
//   - Gerenciar o estado do serviço (iniciado/parado)
//   - Suportar graceful shutdown
//
// O serviço roda em uma goroutine e recebe o sinal de encerramento pelo
// context.
type Service struct {
	appConfig *config.AppConfig

	running   bool
	runningMu sync.Mutex

	store    storage.Store
	resolver handler.ProductResolver
	sender   notification.Sender

	buildInfo version.BuildInfo
}

func NewService(appConfig *config.AppConfig, store storage.Store, resolver handler.ProductResolver, sender notification.Sender, buildInfo version.BuildInfo) *Service {
	return &Service{
		appConfig: appConfig,

		running:   false,
		runningMu: sync.Mutex{},

		store:    store,
		resolver: resolver,
		sender:   sender,

		buildInfo: buildInfo,
	}
}

func (s *Service) Run(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent("api.service").Info("Serviço da API iniciando...")

	if s.store == nil {
		defer serviceStopWaiter.Done()

		return apperrors.New(apperrors.ErrInternal, "o objeto Store não foi inicializado")
	}
	if s.resolver == nil {
		defer serviceStopWaiter.Done()

		return apperrors.New(apperrors.ErrInternal, "o objeto ProductResolver não foi inicializado")
	}

	if s.running {
		defer serviceStopWaiter.Done()

		applog.WithComponent("api.service").Warn("Serviço da API já foi iniciado!!!")

		return nil
	}

	go s.run0(serviceStopCtx, serviceStopWaiter)

	s.running = true

	applog.WithComponent("api.service").Info("Serviço da API iniciado")

	return nil
}

func (s *Service) run0(serviceStopCtx context.Context, serviceStopWaiter *sync.WaitGroup) {
	defer serviceStopWaiter.Done()

	// Configuração do servidor
	e := s.setupServer()

	// Início do servidor HTTP
	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	// Espera pelo shutdown
	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer cria o servidor echo e registra as rotas.
func (s *Service) setupServer() *echo.Echo {
	h := handler.NewHandler(s.appConfig, s.store, s.resolver, s.sender, s.buildInfo)

	e := NewServer(ServerConfig{
		Debug:        s.appConfig.Debug,
		AllowOrigins: s.appConfig.API.CORS.AllowOrigins,
	})

	SetupRoutes(e, h)

	return e
}

// startHTTPServer inicia o servidor HTTP.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.API.ListenPort
	applog.WithComponentAndFields("api.service", log.Fields{
		"port": port,
	}).Debug("Serviço da API > iniciando o servidor http")

	var err error
	if s.appConfig.API.TLSServer {
		err = e.StartTLS(
			fmt.Sprintf(":%d", port),
			s.appConfig.API.TLSCertFile,
			s.appConfig.API.TLSKeyFile,
		)
	} else {
		err = e.Start(fmt.Sprintf(":%d", port))
	}

	s.handleServerError(err)
}

// handleServerError trata o erro retornado pelo servidor.
func (s *Service) handleServerError(err error) {
	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent("api.service").Info("Serviço da API > servidor http encerrado")
		return
	}

	msg := "Serviço da API > ocorreu um erro fatal ao iniciar o servidor http."
	applog.WithComponentAndFields("api.service", log.Fields{
		"port":  s.appConfig.API.ListenPort,
		"error": err,
	}).Error(msg)

	if s.sender != nil {
		s.sender.NotifyDefault(fmt.Sprintf("%s\r\n\r\n%s", msg, err))
	}
}

// waitForShutdown espera o sinal de encerramento e finaliza o servidor.
func (s *Service) waitForShutdown(
	serviceStopCtx context.Context,
	e *echo.Echo,
	httpServerDone chan struct{},
) {
	<-serviceStopCtx.Done()

	applog.WithComponent("api.service").Info("Serviço da API parando...")

	// Encerramento do servidor web
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields("api.service", log.Fields{
			"error": err,
		}).Error("Erro ao encerrar o servidor")
	}

	<-httpServerDone

	// Limpeza do estado
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent("api.service").Info("Serviço da API parado")
}
