package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPLogger(t *testing.T) {
	t.Run("requisição registrada com os campos estruturados", func(t *testing.T) {
		buf := captureLogrus(t)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ofertas?category=casa", nil)
		req.Header.Set("User-Agent", "teste-agente")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := func(c echo.Context) error {
			return c.String(http.StatusOK, "ok")
		}

		require.NoError(t, HTTPLogger()(h)(c))

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

		assert.Equal(t, "requisição HTTP", logEntry["msg"])
		assert.Equal(t, "api.http", logEntry["component"])
		assert.Equal(t, http.MethodGet, logEntry["method"])
		assert.Equal(t, "/api/v1/ofertas?category=casa", logEntry["uri"])
		assert.Equal(t, float64(http.StatusOK), logEntry["status"])
		assert.Equal(t, "teste-agente", logEntry["user_agent"])
		assert.NotEmpty(t, logEntry["latency"])
	})

	t.Run("erro do handler é registrado e propagado", func(t *testing.T) {
		buf := captureLogrus(t)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ofertas", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusBadRequest, "corpo inválido")
		}

		assert.Error(t, HTTPLogger()(h)(c))

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
		assert.Equal(t, "requisição HTTP", logEntry["msg"])
	})
}

func TestMaskSensitiveQuery(t *testing.T) {
	testCases := []struct {
		desc     string
		rawURL   string
		expected string
	}{
		{
			desc:     "app_key mascarada",
			rawURL:   "/api/v1/ofertas?app_key=chave-secreta",
			expected: "/api/v1/ofertas?app_key=%2A%2A%2A%2A",
		},
		{
			desc:     "parâmetros comuns preservados",
			rawURL:   "/api/v1/ofertas?category=casa&limit=10",
			expected: "/api/v1/ofertas?category=casa&limit=10",
		},
		{
			desc:     "mistura mascara apenas os sensíveis",
			rawURL:   "/api/v1/ofertas?category=casa&token=abc",
			expected: "/api/v1/ofertas?category=casa&token=%2A%2A%2A%2A",
		},
		{
			desc:     "sem query",
			rawURL:   "/health",
			expected: "/health",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			u, err := url.Parse(tc.rawURL)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, maskSensitiveQuery(u))
		})
	}
}
