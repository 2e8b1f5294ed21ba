package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

var serverStartTime = time.Now()

// HealthResponse corpo da resposta do endpoint de saúde.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime int64  `json:"uptime"`
}

// VersionResponse corpo da resposta do endpoint de versão.
type VersionResponse struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HealthCheck informa que o servidor está no ar e há quanto tempo.
func (h *Handler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
		Uptime: int64(time.Since(serverStartTime).Seconds()),
	})
}

// Version devolve as informações de build do servidor.
func (h *Handler) Version(c echo.Context) error {
	return c.JSON(http.StatusOK, VersionResponse{
		Version:   h.buildInfo.Version,
		BuildDate: h.buildInfo.BuildDate,
		GoVersion: runtime.Version(),
	})
}
