// Package strutil fornece utilitários de manipulação de strings usados
// na normalização de títulos de produtos, slugs e valores monetários.
package strutil

import (
	"strings"
	"unicode"

	"github.com/iancoleman/strcase"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ptBR impressora de mensagens na localidade alvo da loja (números no formato 1.234,56).
var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// removeDiacritics transformador que decompõe e descarta acentos (é -> e, ç -> c).
var removeDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeSpaces remove espaços nas extremidades e comprime espaços consecutivos.
// Ex.: "  Fone   Bluetooth  " -> "Fone Bluetooth"
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(s)), " ")
}

// Slugify converte um texto livre (título de produto, nome de categoria) em um
// slug apto para URL: sem acentos, minúsculo, separado por hífens.
// Ex.: "Eletrônicos e Acessórios" -> "eletronicos-e-acessorios"
func Slugify(s string) string {
	plain, _, err := transform.String(removeDiacritics, s)
	if err != nil {
		// A remoção de acentos é melhor-esforço; na falha, segue com o texto original.
		plain = s
	}

	var b strings.Builder
	for _, r := range plain {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '-' || r == '_' || r == '.' || r == '/':
			b.WriteRune(' ')
		}
	}

	return strcase.ToKebab(strings.TrimSpace(b.String()))
}

// FormatPrecoBRL formata um valor monetário no padrão brasileiro de exibição.
// Ex.: 9990.0 -> "R$ 9.990,00"
func FormatPrecoBRL(valor float64) string {
	return ptBR.Sprintf("R$ %.2f", valor)
}

// Truncate corta o texto em maxLen runas, acrescentando reticências quando houver corte.
// Usado para gerar descrições de SEO a partir do conteúdo de posts.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	cut := strings.TrimRight(string(r[:maxLen]), " ")
	return cut + "…"
}
