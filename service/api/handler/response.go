package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	applog "github.com/capteiofertas/ofertas-server/log"
	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
)

// ErrorResponse corpo padronizado das respostas de erro da API.
type ErrorResponse struct {
	Message string `json:"message"`
}

func respondError(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorResponse{Message: message})
}

// CustomHTTPErrorHandler converte os erros propagados pelos handlers (e pelo
// próprio echo) em respostas JSON padronizadas.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	statusCode := http.StatusInternalServerError
	message := "ocorreu um erro interno no servidor"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		statusCode = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(statusCode)
		}
	} else {
		switch apperrors.GetType(err) {
		case apperrors.ErrInvalidInput, apperrors.ErrInvalidURL:
			statusCode = http.StatusBadRequest
			message = err.Error()
		case apperrors.ErrNotFound, apperrors.ErrNoData:
			statusCode = http.StatusNotFound
			message = err.Error()
		case apperrors.ErrUnauthorized:
			statusCode = http.StatusUnauthorized
			message = err.Error()
		case apperrors.ErrUpstreamUnavailable:
			statusCode = http.StatusBadGateway
			message = err.Error()
		}
	}

	if statusCode >= http.StatusInternalServerError {
		applog.WithComponent("api.handler").WithError(err).Error("erro interno na resposta da API")
	}

	if err := respondError(c, statusCode, message); err != nil {
		applog.WithComponent("api.handler").WithError(err).Error("falha ao escrever a resposta de erro")
	}
}
