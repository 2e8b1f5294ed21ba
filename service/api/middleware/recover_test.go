package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogrus(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	out := logrus.StandardLogger().Out
	formatter := logrus.StandardLogger().Formatter

	logrus.SetOutput(&buf)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	t.Cleanup(func() {
		logrus.SetOutput(out)
		logrus.SetFormatter(formatter)
	})

	return &buf
}

func TestPanicRecovery(t *testing.T) {
	t.Run("panic é recuperado e registrado", func(t *testing.T) {
		buf := captureLogrus(t)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := func(c echo.Context) error {
			panic("problema no handler")
		}

		err := PanicRecovery()(h)(c)
		assert.NoError(t, err)

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

		assert.Equal(t, "PANIC RECUPERADO", logEntry["msg"])
		assert.Equal(t, "error", logEntry["level"])
		assert.Equal(t, "api.middleware", logEntry["component"])
		assert.Contains(t, logEntry["error"], "problema no handler")
		assert.NotEmpty(t, logEntry["stack"])

		// O panic é convertido em erro e respondido como 500.
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("panic com erro preserva o erro original", func(t *testing.T) {
		captureLogrus(t)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := func(c echo.Context) error {
			panic(errors.New("erro original"))
		}

		assert.NoError(t, PanicRecovery()(h)(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("handler sem panic passa inalterado", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := func(c echo.Context) error {
			return c.String(http.StatusOK, "ok")
		}

		assert.NoError(t, PanicRecovery()(h)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
