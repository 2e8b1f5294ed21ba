package api

import (
	"github.com/labstack/echo/v4"

	"github.com/capteiofertas/ofertas-server/service/api/handler"
)

// SetupRoutes configura as rotas do servidor.
//
// Rotas registradas:
//   - Sistema: /health, /version (sem autenticação)
//   - Catálogo: /api/v1/ofertas, /api/v1/ofertas/:id, /api/v1/categorias
//   - Blog: /api/v1/posts, /api/v1/posts/:slug
//   - SEO: /sitemap.xml
//   - Handler customizado de erros HTTP (404, 500 etc.)
func SetupRoutes(e *echo.Echo, h *handler.Handler) {
	setupSystemRoutes(e, h)
	setupCatalogRoutes(e, h)
	setupErrorHandler(e)
}

func setupSystemRoutes(e *echo.Echo, h *handler.Handler) {
	// Endpoints de sistema (sem autenticação)
	e.GET("/health", h.HealthCheck)
	e.GET("/version", h.Version)
}

func setupCatalogRoutes(e *echo.Echo, h *handler.Handler) {
	v1 := e.Group("/api/v1")

	// A ingestão de ofertas exige a chave de API da aplicação cliente;
	// as consultas são públicas.
	v1.POST("/ofertas", h.CreateProduct)
	v1.GET("/ofertas", h.ListProducts)
	v1.GET("/ofertas/:id", h.GetProduct)
	v1.GET("/categorias", h.ListCategories)

	v1.GET("/posts", h.ListPosts)
	v1.GET("/posts/:slug", h.GetPost)

	e.GET("/sitemap.xml", h.Sitemap)
}

// setupErrorHandler configura o handler customizado de erros HTTP.
func setupErrorHandler(e *echo.Echo) {
	e.HTTPErrorHandler = handler.CustomHTTPErrorHandler
}
