package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
)

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var errorResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errorResp))

	return errorResp
}

func TestCustomHTTPErrorHandler(t *testing.T) {
	newContext := func() (echo.Context, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ofertas/999", nil)
		rec := httptest.NewRecorder()

		return e.NewContext(req, rec), rec
	}

	t.Run("erro HTTP do echo preserva o código e a mensagem", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(echo.NewHTTPError(http.StatusNotFound, "a página não foi encontrada"), c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "a página não foi encontrada", decodeErrorResponse(t, rec).Message)
	})

	t.Run("entrada inválida vira 400", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(apperrors.New(apperrors.ErrInvalidInput, "a categoria é obrigatória"), c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "a categoria é obrigatória", decodeErrorResponse(t, rec).Message)
	})

	t.Run("URL de produto inválida vira 400", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(apperrors.New(apperrors.ErrInvalidURL, "a URL não é de um produto"), c)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("não encontrado vira 404", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(apperrors.New(apperrors.ErrNotFound, "o produto não foi encontrado"), c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("produto sem dados no marketplace vira 404", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(apperrors.New(apperrors.ErrNoData, "o produto não existe mais"), c)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("não autorizado vira 401", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(apperrors.New(apperrors.ErrUnauthorized, "a chave de API é inválida"), c)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("upstream indisponível vira 502", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(apperrors.New(apperrors.ErrUpstreamUnavailable, "o marketplace está fora do ar"), c)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("erro desconhecido vira 500 com mensagem genérica", func(t *testing.T) {
		c, rec := newContext()

		CustomHTTPErrorHandler(apperrors.New(apperrors.ErrInternal, "detalhe interno sensível"), c)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "ocorreu um erro interno no servidor", decodeErrorResponse(t, rec).Message)
	})

	t.Run("resposta já enviada não é sobrescrita", func(t *testing.T) {
		c, rec := newContext()

		require.NoError(t, c.JSON(http.StatusOK, map[string]string{"ok": "true"}))
		CustomHTTPErrorHandler(apperrors.New(apperrors.ErrInternal, "tarde demais"), c)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
