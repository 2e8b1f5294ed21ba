package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpaces(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		expected string
	}{
		{"espaços nas extremidades", "  Fone Bluetooth  ", "Fone Bluetooth"},
		{"espaços consecutivos", "Fone   Bluetooth   Sem Fio", "Fone Bluetooth Sem Fio"},
		{"string vazia", "", ""},
		{"apenas espaços", "    ", ""},
		{"tabulações e quebras de linha", "\tFone\nBluetooth ", "Fone Bluetooth"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, NormalizeSpaces(c.in))
		})
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		expected string
	}{
		{"acentos removidos", "Eletrônicos e Acessórios", "eletronicos-e-acessorios"},
		{"cedilha", "Promoções do Dia", "promocoes-do-dia"},
		{"maiúsculas", "GAMES", "games"},
		{"pontuação descartada", "Fone (Bluetooth) 5.0!", "fone-bluetooth-5-0"},
		{"string vazia", "", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, Slugify(c.in))
		})
	}
}

func TestFormatPrecoBRL(t *testing.T) {
	assert.Equal(t, "R$ 9.990,00", FormatPrecoBRL(9990.0))
	assert.Equal(t, "R$ 15.000,00", FormatPrecoBRL(15000.0))
	assert.Equal(t, "R$ 12,34", FormatPrecoBRL(12.34))
	assert.Equal(t, "R$ 0,00", FormatPrecoBRL(0))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abcde…", Truncate("abcdefgh", 5))
	assert.Equal(t, "", Truncate("abc", 0))

	// Corte não pode quebrar caracteres multibyte.
	assert.Equal(t, "promoção…", Truncate("promoção imperdível", 8))
	assert.Equal(t, "promoçã…", Truncate("promoção imperdível", 7))
}
