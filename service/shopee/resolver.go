// Package shopee resolve URLs de produtos da Shopee em snapshots normalizados
// (título, imagem, preço atual e preço pré-desconto).
//
// A resolução tem três estágios sequenciais: extração de identificadores da
// URL, consulta escalonada aos upstreams (API interna e, em seguida, API de
// parceiros assinada) e normalização das duas codificações de preço/imagem em
// uma representação única. O resolvedor é uma função pura de
// (URL, respostas upstream) -> snapshot-ou-falha: não guarda cache nem estado
// entre chamadas.
package shopee

import (
	"context"
	"time"

	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
	"github.com/capteiofertas/ofertas-server/service/fetcher"
)

// defaultTierTimeout tempo máximo de cada consulta upstream. O valor não é
// ditado pelo marketplace; foi escolhido para falhar rápido o suficiente para
// o fluxo de ingestão sem derrubar consultas legítimas lentas.
const defaultTierTimeout = 8 * time.Second

const (
	defaultInternalBaseURL = "https://shopee.com.br"
	defaultPartnerBaseURL  = "https://partner.shopeemobile.com"
	defaultLocale          = "pt-BR"
)

// Config configuração imutável do resolvedor, injetada na construção.
type Config struct {
	// Credentials credenciais da API de parceiros; quando ausentes, a camada 2
	// fica silenciosamente desabilitada e apenas a API interna é consultada.
	Credentials Credentials

	// InternalBaseURL base da API interna (site do marketplace no país alvo).
	InternalBaseURL string

	// PartnerBaseURL base da API de parceiros.
	PartnerBaseURL string

	// Locale locale enviado nos cabeçalhos da API interna.
	Locale string

	// Timeout tempo máximo de cada consulta upstream; zero assume o padrão.
	Timeout time.Duration
}

// Resolver resolve URLs de produto em snapshots. Seguro para uso concorrente:
// todo o estado é configuração imutável definida na construção.
type Resolver struct {
	cfg      Config
	fetcher  fetcher.Fetcher
	observer Observer

	// now injetável para tornar a assinatura determinística em testes.
	now func() time.Time
}

// Option opção de construção do Resolver.
type Option func(*Resolver)

// WithFetcher substitui o cliente HTTP (testes, instrumentação).
func WithFetcher(f fetcher.Fetcher) Option {
	return func(r *Resolver) { r.fetcher = f }
}

// WithObserver substitui o observador de eventos de resolução.
func WithObserver(o Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

// WithClock substitui a fonte de tempo usada no timestamp da assinatura.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver cria um Resolver com a configuração informada, preenchendo os
// padrões de URL, locale e timeout quando omitidos.
func NewResolver(cfg Config, opts ...Option) *Resolver {
	if cfg.InternalBaseURL == "" {
		cfg.InternalBaseURL = defaultInternalBaseURL
	}
	if cfg.PartnerBaseURL == "" {
		cfg.PartnerBaseURL = defaultPartnerBaseURL
	}
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTierTimeout
	}

	r := &Resolver{
		cfg:      cfg,
		fetcher:  fetcher.NewHTTPFetcher(cfg.Timeout),
		observer: logObserver{},
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve resolve uma URL de produto da Shopee em um snapshot normalizado.
//
// Ordem das camadas (curto-circuito no primeiro sucesso):
//  1. extração de identificadores — URLs não reconhecidas falham de imediato
//     com ErrInvalidURL, sem nenhuma chamada de rede;
//  2. API interna do site — utilizável com título presente e preço positivo;
//  3. API de parceiros assinada — apenas com credenciais configuradas;
//     utilizável com título presente.
//
// Falhas de transporte e de parsing são capturadas na fronteira de cada
// camada e viram falha da camada, nunca panics ou erros avulsos: o chamador
// só observa as categorias ErrInvalidURL, ErrUpstreamUnavailable e ErrNoData
// (além do erro de contexto quando a chamada é cancelada).
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*ProductSnapshot, error) {
	ref, ok := ExtractProductReference(rawURL)
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrInvalidURL, "a URL não corresponde a nenhum formato de produto reconhecido: %s", rawURL)
	}

	var tierErrs []error

	// Camada 1: API interna.
	snapshot, err := r.attemptTier(ctx, SourceInternalAPI, ref)
	if err == nil {
		return snapshot, nil
	}
	tierErrs = append(tierErrs, err)

	// Cancelamento aborta a resolução sem tentar a próxima camada.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	// Camada 2: API de parceiros, somente com credenciais configuradas.
	if r.cfg.Credentials.Configured() {
		snapshot, err = r.attemptTier(ctx, SourcePartnerAPI, ref)
		if err == nil {
			return snapshot, nil
		}
		tierErrs = append(tierErrs, err)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}

	// Quando todas as camadas tentadas falharam no transporte, o problema é de
	// conectividade e não de dados; nos demais casos o resultado é NoData.
	if allTransportFailures(tierErrs) {
		return nil, apperrors.Wrap(tierErrs[len(tierErrs)-1], apperrors.ErrUpstreamUnavailable, "nenhuma camada upstream pôde ser alcançada")
	}

	return nil, apperrors.New(apperrors.ErrNoData, "nenhuma camada upstream produziu um snapshot utilizável")
}

// attemptTier executa a consulta de uma camada com timeout próprio, emitindo
// os eventos de observabilidade correspondentes.
func (r *Resolver) attemptTier(ctx context.Context, source Source, ref ProductReference) (*ProductSnapshot, error) {
	r.observer.TierAttempted(source, ref)

	tierCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	started := time.Now()

	var snapshot *ProductSnapshot
	var err error
	switch source {
	case SourceInternalAPI:
		snapshot, err = r.fetchFromInternalAPI(tierCtx, ref)
	case SourcePartnerAPI:
		snapshot, err = r.fetchFromPartnerAPI(tierCtx, ref)
	}

	r.observer.TierFinished(source, ref, time.Since(started), err)

	return snapshot, err
}

func allTransportFailures(errs []error) bool {
	if len(errs) == 0 {
		return false
	}
	for _, err := range errs {
		if !apperrors.Is(err, apperrors.ErrUpstreamUnavailable) {
			return false
		}
	}
	return true
}
