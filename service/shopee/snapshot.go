package shopee

import (
	"github.com/tidwall/gjson"

	"github.com/capteiofertas/ofertas-server/pkg/strutil"
)

const (
	// priceScale divisor que converte o preço inteiro interno da Shopee para o
	// valor de exibição (ex.: 1500000000 -> 15000.00). A API de parceiros reusa
	// a mesma escala da API interna — convenção observada nas respostas reais,
	// não um contrato documentado.
	priceScale = 100000

	// imageCDNBaseURL modelo de URL do CDN de imagens para o mercado brasileiro;
	// identificadores puros de imagem são combinados com esta base.
	imageCDNBaseURL = "https://down-br.img.susercontent.com/file/"
)

// ProductSnapshot resultado normalizado de uma resolução bem-sucedida.
// O resolvedor não retém estado entre chamadas: cada snapshot é produzido uma
// única vez e entregue ao chamador.
type ProductSnapshot struct {
	Title string `json:"title"`

	// ImageURL URL absoluta da imagem principal; pode ser vazia quando o
	// upstream não informa imagem (cabe ao chamador decidir se rejeita).
	ImageURL string `json:"image_url,omitempty"`

	// Price preço de venda atual, já na unidade monetária de exibição.
	Price float64 `json:"price"`

	// OriginalPrice preço de referência antes do desconto. Zero significa
	// ausente; quando presente é estritamente maior que Price.
	OriginalPrice float64 `json:"original_price,omitempty"`

	Reference ProductReference `json:"reference"`
}

// HasDiscount informa se o snapshot carrega um preço original (pré-desconto).
func (s *ProductSnapshot) HasDiscount() bool {
	return s.OriginalPrice > s.Price && s.Price > 0
}

// normalizeInternalPayload converte o objeto "data" da API interna (v4) no
// snapshot normalizado. O payload dessa API não é um contrato público; os
// campos são extraídos de forma tolerante com gjson.
func normalizeInternalPayload(data gjson.Result, ref ProductReference) *ProductSnapshot {
	price := data.Get("price").Float()
	if price == 0 {
		price = data.Get("price_min").Float()
	}

	// A imagem principal vem em "image"; na ausência, usa-se a primeira
	// candidata da lista "images". Identificadores puros viram URLs do CDN.
	imageID := data.Get("image").String()
	if imageID == "" {
		imageID = data.Get("images.0").String()
	}

	snapshot := &ProductSnapshot{
		Title:     strutil.NormalizeSpaces(data.Get("name").String()),
		ImageURL:  imageURLFromID(imageID),
		Price:     price / priceScale,
		Reference: ref,
	}

	applyOriginalPrice(snapshot, data.Get("price_before_discount").Float()/priceScale)

	return snapshot
}

// normalizePartnerItem converte um item da API de parceiros no snapshot
// normalizado.
func normalizePartnerItem(item partnerItem, ref ProductReference) *ProductSnapshot {
	var price, originalPrice float64
	if item.PriceInfo != nil {
		price = item.PriceInfo.CurrentPrice
		if price == 0 {
			price = item.PriceInfo.MinPrice
		}
		originalPrice = item.PriceInfo.OriginalPrice
	}

	// A API de parceiros devolve URLs absolutas em image_url_list; na ausência,
	// o identificador puro de image_id_list é combinado com a base do CDN.
	var imageURL string
	if item.Image != nil {
		if len(item.Image.ImageURLList) > 0 {
			imageURL = item.Image.ImageURLList[0]
		} else if len(item.Image.ImageIDList) > 0 {
			imageURL = imageURLFromID(item.Image.ImageIDList[0])
		}
	}

	snapshot := &ProductSnapshot{
		Title:     strutil.NormalizeSpaces(item.ItemName),
		ImageURL:  imageURL,
		Price:     price / priceScale,
		Reference: ref,
	}

	applyOriginalPrice(snapshot, originalPrice/priceScale)

	return snapshot
}

// applyOriginalPrice registra o preço pré-desconto apenas quando ele é
// estritamente maior que o preço atual; caso contrário o campo fica ausente.
func applyOriginalPrice(s *ProductSnapshot, originalPrice float64) {
	if originalPrice > s.Price {
		s.OriginalPrice = originalPrice
	}
}

func imageURLFromID(id string) string {
	if id == "" {
		return ""
	}
	return imageCDNBaseURL + id
}
