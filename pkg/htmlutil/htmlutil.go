// Package htmlutil extrai texto de fragmentos HTML para a geração de
// metadados de SEO (descrição de posts do blog).
package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/capteiofertas/ofertas-server/pkg/strutil"
)

// ExtractText devolve o texto visível de um fragmento HTML, com espaços normalizados.
// Entradas que não são HTML válido são devolvidas como estão (apenas normalizadas).
func ExtractText(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strutil.NormalizeSpaces(fragment)
	}

	// Scripts e estilos não fazem parte do texto visível.
	doc.Find("script, style").Remove()

	// Os nós de texto são percorridos manualmente porque Selection.Text()
	// concatena blocos adjacentes sem separador ("<p>a</p><p>b</p>" -> "ab").
	var b strings.Builder
	for _, n := range doc.Find("body").Nodes {
		collectText(n, &b)
	}

	return strutil.NormalizeSpaces(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// MetaDescription gera uma descrição de SEO a partir do conteúdo HTML de um post,
// limitada a maxLen runas.
func MetaDescription(contentHTML string, maxLen int) string {
	return strutil.Truncate(ExtractText(contentHTML), maxLen)
}
