package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	appmiddleware "github.com/capteiofertas/ofertas-server/service/api/middleware"
)

// ServerConfig configurações necessárias para a criação do servidor.
type ServerConfig struct {
	// Debug ativa o modo de depuração do echo.
	Debug bool
	// AllowOrigins lista de origens permitidas pelo CORS.
	// Em produção deve ser restrito aos domínios do site.
	AllowOrigins []string
}

// NewServer cria a instância do echo com os middlewares configurados.
// Os middlewares são aplicados na seguinte ordem:
//  1. Recover - recuperação de pânico
//  2. RequestID - geração do id da requisição
//  3. HTTPLogger - logging
//  4. CORS - Cross-Origin Resource Sharing
//  5. Secure - cabeçalhos de segurança
//
// As rotas não são configuradas aqui; devem ser registradas à parte na
// instância retornada.
func NewServer(cfg ServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true

	// Os logs emitidos pelo próprio echo são redirecionados para o logrus
	// através de um adaptador da interface de Logger do echo.
	e.Logger = appmiddleware.Logger{Logger: log.StandardLogger()}

	// Middlewares (ordem recomendada)
	e.Use(appmiddleware.PanicRecovery())                   // 1. Recuperação de pânico
	e.Use(middleware.RequestID())                          // 2. Request ID
	e.Use(appmiddleware.HTTPLogger())                      // 3. Logging
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{ // 4. CORS
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.Secure()) // 5. Cabeçalhos de segurança

	return e
}
