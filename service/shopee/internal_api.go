package shopee

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
	"github.com/capteiofertas/ofertas-server/service/fetcher"
)

// itemGetPath endpoint interno usado pelo próprio site da Shopee para carregar
// a página de produto. Não é um contrato público documentado.
const itemGetPath = "/api/v4/item/get"

// fetchFromInternalAPI consulta a API web interna da Shopee (camada 1).
//
// O endpoint pode recusar requisições que não se pareçam com o front-end do
// próprio site; por isso a requisição carrega identidade de navegador
// (User-Agent, Referer, locale) e os cabeçalhos do AJAX da Shopee.
func (r *Resolver) fetchFromInternalAPI(ctx context.Context, ref ProductReference) (*ProductSnapshot, error) {
	query := url.Values{}
	query.Set("itemid", strconv.FormatUint(ref.ItemID, 10))
	query.Set("shopid", strconv.FormatUint(ref.ShopID, 10))

	endpoint := r.cfg.InternalBaseURL + itemGetPath + "?" + query.Encode()

	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("Accept-Language", r.cfg.Locale+","+languageTag(r.cfg.Locale)+";q=0.9,en-US;q=0.8,en;q=0.7")
	header.Set("Referer", r.cfg.InternalBaseURL+"/")
	header.Set("x-api-source", "pc")
	header.Set("x-requested-with", "XMLHttpRequest")
	header.Set("x-shopee-language", r.cfg.Locale)

	resp, err := fetcher.Get(ctx, r.fetcher, endpoint, header)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstreamUnavailable, "falha de transporte na API interna")
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = fetcher.ReadBody(resp)
		return nil, apperrors.Newf(apperrors.ErrUpstreamUnavailable, "API interna respondeu com status %d", resp.StatusCode)
	}

	body, err := fetcher.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	root := gjson.ParseBytes(body)

	// A API sinaliza falhas de aplicação com um campo "error" não nulo
	// (ex.: {"error": "item_not_found"}) ou simplesmente omitindo "data".
	if errField := root.Get("error"); truthy(errField) {
		return nil, apperrors.Newf(apperrors.ErrNoData, "API interna retornou erro de aplicação: %s", errField.String())
	}

	data := root.Get("data")
	if !data.Exists() || data.Type == gjson.Null {
		return nil, apperrors.New(apperrors.ErrNoData, "resposta da API interna não contém o payload de dados")
	}

	snapshot := normalizeInternalPayload(data, ref)

	// Para esta camada o snapshot só é utilizável com título presente e preço
	// positivo; caso contrário a camada de parceiros ainda será tentada.
	if snapshot.Title == "" || snapshot.Price <= 0 {
		return nil, apperrors.New(apperrors.ErrNoData, "API interna retornou produto sem título ou sem preço")
	}

	return snapshot, nil
}

// truthy reproduz a semântica de "campo de erro presente": valores nulos,
// zero e string vazia não sinalizam erro.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null:
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return v.Float() != 0
	case gjson.String:
		return v.String() != ""
	case gjson.True:
		return true
	default:
		return v.Exists()
	}
}

// languageTag reduz um locale completo ("pt-BR") à sua língua base ("pt").
func languageTag(locale string) string {
	for i := 0; i < len(locale); i++ {
		if locale[i] == '-' {
			return locale[:i]
		}
	}
	return locale
}
