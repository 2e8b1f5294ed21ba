package shopee

import (
	"net/url"
	"regexp"
	"strconv"
)

// Formatos de URL de produto reconhecidos:
//   - https://shopee.com.br/product/123456/789012
//   - https://shopee.com.br/Nome-do-Produto-i.123456.789012
var (
	productPathPattern = regexp.MustCompile(`/product/(\d+)/(\d+)`)
	inlineIDsPattern   = regexp.MustCompile(`i\.(\d+)\.(\d+)`)
)

// ProductReference identidade de um anúncio no marketplace, extraída da URL.
type ProductReference struct {
	ShopID uint64 `json:"shop_id"`
	ItemID uint64 `json:"item_id"`
}

// ExtractProductReference extrai os identificadores de loja e item de uma URL
// de produto da Shopee. O formato "/product/{shopId}/{itemId}" tem prioridade
// sobre o formato embutido "i.{shopId}.{itemId}".
//
// URLs que não casam com nenhum formato (ou que nem sequer são URLs válidas)
// retornam ok=false; esse é um resultado rotineiro para entradas alheias, não
// uma condição de erro.
func ExtractProductReference(rawURL string) (ref ProductReference, ok bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ProductReference{}, false
	}

	// Sem host, url.Parse coloca tudo em Path ("shopee.com.br/abc-i.1.2");
	// os padrões são aplicados sobre o caminho em ambos os casos.
	path := u.Path
	if u.Opaque != "" {
		path = u.Opaque
	}

	for _, pattern := range []*regexp.Regexp{productPathPattern, inlineIDsPattern} {
		m := pattern.FindStringSubmatch(path)
		if m == nil {
			continue
		}

		shopID, err1 := strconv.ParseUint(m[1], 10, 64)
		itemID, err2 := strconv.ParseUint(m[2], 10, 64)
		if err1 != nil || err2 != nil {
			// Sequências de dígitos grandes demais para uint64 não são
			// identificadores reais do marketplace.
			continue
		}

		return ProductReference{ShopID: shopID, ItemID: itemID}, true
	}

	return ProductReference{}, false
}
