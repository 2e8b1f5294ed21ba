package shopee

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
	"github.com/capteiofertas/ofertas-server/service/fetcher"
)

// itemBaseInfoPath endpoint público de informações de item da API de parceiros.
const itemBaseInfoPath = "/api/v2/product/get_item_base_info"

// Diferente da API interna, a API de parceiros é um contrato documentado;
// a resposta é decodificada em DTOs tipados.
type partnerItemBaseInfoResponse struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Response struct {
		ItemList []partnerItem `json:"item_list"`
	} `json:"response"`
}

type partnerItem struct {
	ItemName  string `json:"item_name"`
	PriceInfo *struct {
		CurrentPrice  float64 `json:"current_price"`
		MinPrice      float64 `json:"min_price"`
		OriginalPrice float64 `json:"original_price"`
	} `json:"price_info"`
	Image *struct {
		ImageURLList []string `json:"image_url_list"`
		ImageIDList  []string `json:"image_id_list"`
	} `json:"image"`
}

// fetchFromPartnerAPI consulta a API de parceiros assinada (camada 2).
// Esta chamada pública de informações de item não exige access token nem
// escopo de loja na assinatura.
func (r *Resolver) fetchFromPartnerAPI(ctx context.Context, ref ProductReference) (*ProductSnapshot, error) {
	timestamp := r.now().Unix()
	sign := r.cfg.Credentials.Sign(itemBaseInfoPath, timestamp, "", 0)

	query := url.Values{}
	query.Set("partner_id", r.cfg.Credentials.PartnerID)
	query.Set("timestamp", strconv.FormatInt(timestamp, 10))
	query.Set("sign", sign)
	query.Set("item_id_list", strconv.FormatUint(ref.ItemID, 10))
	query.Set("shop_id", strconv.FormatUint(ref.ShopID, 10))

	endpoint := r.cfg.PartnerBaseURL + itemBaseInfoPath + "?" + query.Encode()

	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("Content-Type", "application/json")

	resp, err := fetcher.Get(ctx, r.fetcher, endpoint, header)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstreamUnavailable, "falha de transporte na API de parceiros")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = fetcher.ReadBody(resp)
		return nil, apperrors.Newf(apperrors.ErrUpstreamUnavailable, "API de parceiros respondeu com status %d", resp.StatusCode)
	}

	body, err := fetcher.ReadBody(resp)
	if err != nil {
		return nil, err
	}

	var parsed partnerItemBaseInfoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrNoData, "resposta da API de parceiros não é um JSON válido")
	}

	if parsed.Error != "" {
		return nil, apperrors.Newf(apperrors.ErrNoData, "API de parceiros retornou erro de aplicação: %s (%s)", parsed.Error, parsed.Message)
	}

	if len(parsed.Response.ItemList) == 0 {
		return nil, apperrors.New(apperrors.ErrNoData, "resposta da API de parceiros não contém itens")
	}

	snapshot := normalizePartnerItem(parsed.Response.ItemList[0], ref)

	// Nesta camada o preço pode legitimamente vir ausente/zerado; apenas o
	// título é obrigatório para o snapshot ser utilizável.
	if snapshot.Title == "" {
		return nil, apperrors.New(apperrors.ErrNoData, "API de parceiros retornou item sem título")
	}

	return snapshot, nil
}
