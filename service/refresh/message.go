package refresh

import (
	"fmt"
	"html"
	"strings"

	"github.com/capteiofertas/ofertas-server/pkg/strutil"
	"github.com/capteiofertas/ofertas-server/service/storage"
)

// renderPriceDropMessage monta a mensagem HTML do alerta de queda de preço.
func renderPriceDropMessage(siteName string, product *storage.Product, newPrice float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<b>[ %s ]</b>\n", html.EscapeString(siteName)))
	sb.WriteString("📉 Queda de preço!\n\n")

	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(product.Title)))
	sb.WriteString(fmt.Sprintf("de <s>%s</s> por <b>%s</b>\n\n",
		strutil.FormatPrecoBRL(product.Price), strutil.FormatPrecoBRL(newPrice)))

	sb.WriteString(product.AffiliateURL)

	return sb.String()
}

// RenderNewProductMessage monta a mensagem HTML do alerta de produto novo no
// catálogo, usada pelo fluxo de ingestão da API.
func RenderNewProductMessage(siteName string, product *storage.Product) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<b>[ %s ]</b>\n", html.EscapeString(siteName)))
	sb.WriteString("🆕 Nova oferta!\n\n")

	sb.WriteString(fmt.Sprintf("<b>%s</b>\n", html.EscapeString(product.Title)))
	if product.HasDiscount() {
		sb.WriteString(fmt.Sprintf("de <s>%s</s> por <b>%s</b>\n\n",
			strutil.FormatPrecoBRL(product.OriginalPrice), strutil.FormatPrecoBRL(product.Price)))
	} else {
		sb.WriteString(fmt.Sprintf("por <b>%s</b>\n\n", strutil.FormatPrecoBRL(product.Price)))
	}

	sb.WriteString(product.AffiliateURL)

	return sb.String()
}
