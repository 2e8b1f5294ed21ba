package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
	"github.com/capteiofertas/ofertas-server/service/refresh"
	"github.com/capteiofertas/ofertas-server/service/storage"
)

// CreateProductRequest corpo da requisição de ingestão de uma oferta.
type CreateProductRequest struct {
	URL      string `json:"url"`
	Category string `json:"category"`
	Store    string `json:"store"`
}

// CreateProduct ingere uma nova oferta: autentica a aplicação cliente,
// resolve a URL do produto no marketplace, persiste o resultado no catálogo e
// dispara o alerta de nova oferta.
func (h *Handler) CreateProduct(c echo.Context) error {
	if !h.authorized(c) {
		return respondError(c, http.StatusUnauthorized, "a chave de API informada é inválida")
	}

	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "o corpo da requisição é inválido")
	}

	req.URL = strings.TrimSpace(req.URL)
	req.Category = strings.TrimSpace(req.Category)
	req.Store = strings.TrimSpace(req.Store)

	if req.URL == "" {
		return respondError(c, http.StatusBadRequest, "a URL do produto (url) é obrigatória")
	}
	if req.Category == "" {
		return respondError(c, http.StatusBadRequest, "a categoria da oferta (category) é obrigatória")
	}
	if req.Store == "" {
		req.Store = "Shopee"
	}

	snapshot, err := h.resolver.Resolve(c.Request().Context(), req.URL)
	if err != nil {
		return err
	}

	product, err := h.store.SaveProduct(c.Request().Context(),
		storage.NewProductFromSnapshot(snapshot, req.URL, req.Category, req.Store))
	if err != nil {
		return err
	}

	h.sender.NotifyDefault(refresh.RenderNewProductMessage(h.cfg.Site.Name, product))

	return c.JSON(http.StatusCreated, product)
}

// authorized verifica a chave de API contra as aplicações configuradas.
func (h *Handler) authorized(c echo.Context) bool {
	appKey := c.QueryParam("app_key")
	if appKey == "" {
		return false
	}

	for _, app := range h.cfg.API.Applications {
		if app.AppKey == appKey {
			return true
		}
	}

	return false
}

// ListProducts lista as ofertas do catálogo, com filtros opcionais de
// categoria, loja e limite.
func (h *Handler) ListProducts(c echo.Context) error {
	filter := storage.ProductFilter{
		CategorySlug: c.QueryParam("category"),
		StoreName:    c.QueryParam("store"),
		Limit:        h.cfg.API.MaxListSize,
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return respondError(c, http.StatusBadRequest, "o limite (limit) deve ser um inteiro positivo")
		}
		if h.cfg.API.MaxListSize > 0 && limit > h.cfg.API.MaxListSize {
			limit = h.cfg.API.MaxListSize
		}
		filter.Limit = limit
	}

	products, err := h.store.Products(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	if products == nil {
		products = []*storage.Product{}
	}

	return c.JSON(http.StatusOK, products)
}

// GetProduct busca uma oferta pelo identificador numérico ou pelo slug.
func (h *Handler) GetProduct(c echo.Context) error {
	key := c.Param("id")

	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		product, err := h.store.ProductByID(c.Request().Context(), id)
		if err == nil {
			return c.JSON(http.StatusOK, product)
		}
		// Slugs totalmente numéricos (ex.: "1984") ainda precisam ser
		// encontrados quando não há produto com esse id.
		if apperrors.GetType(err) != apperrors.ErrNotFound {
			return err
		}
	}

	product, err := h.store.ProductBySlug(c.Request().Context(), key)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

// ListCategories lista as categorias do catálogo com seus totais.
func (h *Handler) ListCategories(c echo.Context) error {
	counts, err := h.store.CategoryCounts(c.Request().Context())
	if err != nil {
		return err
	}

	if counts == nil {
		counts = []storage.CategoryCount{}
	}

	return c.JSON(http.StatusOK, counts)
}
