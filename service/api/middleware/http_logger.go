package middleware

import (
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	applog "github.com/capteiofertas/ofertas-server/log"
)

// sensitiveQueryParams parâmetros de query mascarados nos logs de acesso.
var sensitiveQueryParams = []string{
	"app_key",
	"api_key",
	"password",
	"token",
	"secret",
}

// HTTPLogger registra cada requisição HTTP como um log estruturado, com os
// parâmetros sensíveis da query mascarados.
func HTTPLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			// O log é adiado para registrar o status final mesmo quando o
			// handler devolve erro (tratado depois pelo HTTPErrorHandler).
			defer func() {
				applog.WithComponentAndFields("api.http", log.Fields{
					"remote_ip":  c.RealIP(),
					"method":     req.Method,
					"uri":        maskSensitiveQuery(req.URL),
					"status":     res.Status,
					"bytes_out":  res.Size,
					"latency":    time.Since(start).Round(time.Microsecond).String(),
					"user_agent": req.UserAgent(),
					"request_id": res.Header().Get(echo.HeaderXRequestID),
				}).Info("requisição HTTP")
			}()

			return next(c)
		}
	}
}

// maskSensitiveQuery devolve a URI da requisição com os valores dos
// parâmetros sensíveis substituídos por asteriscos.
func maskSensitiveQuery(u *url.URL) string {
	query := u.Query()

	masked := false
	for _, param := range sensitiveQueryParams {
		if query.Has(param) {
			query.Set(param, "****")
			masked = true
		}
	}

	if !masked {
		return u.RequestURI()
	}

	clone := *u
	clone.RawQuery = query.Encode()

	return clone.RequestURI()
}
