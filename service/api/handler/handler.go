// Package handler implementa os handlers HTTP da API pública do site.
package handler

import (
	"context"

	"github.com/capteiofertas/ofertas-server/config"
	"github.com/capteiofertas/ofertas-server/pkg/version"
	"github.com/capteiofertas/ofertas-server/service/notification"
	"github.com/capteiofertas/ofertas-server/service/shopee"
	"github.com/capteiofertas/ofertas-server/service/storage"
)

// ProductResolver resolve uma URL de produto em um snapshot normalizado.
type ProductResolver interface {
	Resolve(ctx context.Context, rawURL string) (*shopee.ProductSnapshot, error)
}

// Handler conjunto dos handlers da API, com as dependências injetadas.
type Handler struct {
	cfg *config.AppConfig

	store    storage.Store
	resolver ProductResolver
	sender   notification.Sender

	buildInfo version.BuildInfo
}

// NewHandler cria o Handler com as dependências informadas.
func NewHandler(cfg *config.AppConfig, store storage.Store, resolver ProductResolver, sender notification.Sender, buildInfo version.BuildInfo) *Handler {
	return &Handler{
		cfg: cfg,

		store:    store,
		resolver: resolver,
		sender:   sender,

		buildInfo: buildInfo,
	}
}
