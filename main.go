package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/capteiofertas/ofertas-server/config"
	applog "github.com/capteiofertas/ofertas-server/log"
	"github.com/capteiofertas/ofertas-server/pkg/version"
	"github.com/capteiofertas/ofertas-server/service"
	"github.com/capteiofertas/ofertas-server/service/api"
	"github.com/capteiofertas/ofertas-server/service/notification"
	"github.com/capteiofertas/ofertas-server/service/refresh"
	"github.com/capteiofertas/ofertas-server/service/shopee"
	"github.com/capteiofertas/ofertas-server/service/storage"
)

// Variáveis de build (injetadas pelo ldflags no Dockerfile)
var (
	Version   = "dev"     // hash do commit
	BuildDate = "unknown" // data do build
)

const (
	banner = `
         __           _
   ___  / _|  ___  _ __| |_  __ _  ___   ___   ___  _ __ __   __  ___  _ __
  / _ \| |_  / _ \| '__| __|/ _' |/ __| / __| / _ \| '__|\ \ / / / _ \| '__|
 | (_) |  _||  __/| |  | |_| (_| |\__ \ \__ \|  __/| |    \ V / |  __/| |
  \___/|_|   \___||_|   \__|\__,_||___/ |___/ \___||_|     \_/   \___||_|
                                                                 %s
                                                    capteiofertas.com.br
--------------------------------------------------------------------------------
`
)

func main() {
	// 1. Carga das configurações (necessária antes do logging)
	appConfig, err := config.Load()
	if err != nil {
		// O logger ainda não foi inicializado; escreve na saída de erro.
		fmt.Fprintf(os.Stderr, "[FATAL] falha na carga das configurações: %v\n", err)
		os.Exit(1)
	}

	// 2. Inicialização do sistema de logs
	logCloser := applog.Setup(appConfig.Debug, config.AppName, appConfig.Log.MaxAgeDays)
	defer logCloser.Close()

	// Arte ASCII (https://patorjk.com/software/taag/, fonte: standard)
	fmt.Printf(banner, Version)

	buildInfo := version.BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
	}

	applog.WithComponentAndFields("main", log.Fields{
		"version":    buildInfo.Version,
		"build_date": buildInfo.BuildDate,
		"go_version": runtime.Version(),
		"os_arch":    runtime.GOOS + "/" + runtime.GOARCH,
		"env":        map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("Inicialização do servidor iniciada")

	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 3. Conexão com o banco de dados do catálogo
	store, err := storage.Open(context.Background(), appConfig.Database.DSN)
	if err != nil {
		applog.WithComponentAndFields("main", log.Fields{
			"error": err,
		}).Fatal("Falha na conexão com o banco de dados")
	}
	defer store.Close()

	// 4. Resolvedor de produtos do marketplace
	resolver := shopee.NewResolver(shopee.Config{
		Credentials: shopee.Credentials{
			PartnerID:  appConfig.Shopee.PartnerID,
			PartnerKey: appConfig.Shopee.PartnerKey,
		},
		InternalBaseURL: appConfig.Shopee.InternalBaseURL,
		PartnerBaseURL:  appConfig.Shopee.PartnerBaseURL,
		Locale:          appConfig.Shopee.Locale,
		Timeout:         appConfig.Shopee.TimeoutDuration(),
	})

	// 5. Criação dos serviços
	notificationService := notification.NewService(appConfig)
	refreshService := refresh.NewService(appConfig, store, resolver, notificationService)
	apiService := api.NewService(appConfig, store, resolver, notificationService, buildInfo)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWaiter := &sync.WaitGroup{}

	// 6. Início dos serviços
	services := []service.Service{notificationService, refreshService, apiService}
	for _, s := range services {
		serviceStopWaiter.Add(1)
		if err := s.Run(serviceStopCtx, serviceStopWaiter); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("Falha na inicialização de um dos serviços")

			cancel() // encerra também os demais serviços
			serviceStopWaiter.Wait()

			log.Fatal("O servidor será encerrado por falha na inicialização dos serviços")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("Servidor no ar")

	<-termC // Blocks here until interrupted

	// Handle shutdown
	applog.WithComponent("main").Info("Sinal de encerramento recebido")
	cancel()                 // Signal cancellation to context.Context
	serviceStopWaiter.Wait() // Block here until are workers are done
}
