// Package config carrega e valida a configuração da aplicação a partir de
// valores padrão, arquivo JSON e variáveis de ambiente, nessa ordem de
// precedência crescente.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
)

const (
	// AppName identificador global da aplicação.
	AppName string = "ofertas-server"

	// DefaultFilename arquivo de configuração padrão, procurado no diretório de
	// trabalho quando nenhum caminho explícito é informado na execução.
	DefaultFilename = AppName + ".json"

	// envPrefix prefixo das variáveis de ambiente que sobrescrevem a
	// configuração (ex.: OFERTAS_SHOPEE__LOCALE -> shopee.locale).
	envPrefix = "OFERTAS_"

	// Padrões do resolvedor de produtos e do agendador de atualização.
	defaultShopeeTimeout  = "8s"
	defaultRefreshSpec    = "0 */6 * * *"
	defaultRefreshPerMin  = 30
	defaultAPIListenPort  = 8080
	defaultLogMaxAgeDays  = 30
	defaultProductListCap = 200
)

// Load lê o arquivo de configuração padrão e monta o AppConfig.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile lê o arquivo de configuração informado e monta o AppConfig.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. Valores padrão (menor precedência).
	err := k.Load(confmap.Provider(map[string]interface{}{
		"shopee.internal_base_url": "https://shopee.com.br",
		"shopee.partner_base_url":  "https://partner.shopeemobile.com",
		"shopee.locale":            "pt-BR",
		"shopee.timeout":           defaultShopeeTimeout,
		"refresh.time_spec":        defaultRefreshSpec,
		"refresh.rate_per_minute":  defaultRefreshPerMin,
		"api.listen_port":          defaultAPIListenPort,
		"log.max_age_days":         defaultLogMaxAgeDays,
		"api.max_list_size":        defaultProductListCap,
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao carregar os valores padrão da configuração")
	}

	// 2. Arquivo JSON (sobrescreve os padrões).
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.ErrSystem, fmt.Sprintf("arquivo de configuração não encontrado: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidInput, fmt.Sprintf("falha ao carregar o arquivo de configuração: '%s'", filename))
	}

	// 3. Variáveis de ambiente (maior precedência).
	// Duplo sublinhado vira ponto para expressar a hierarquia:
	// OFERTAS_SHOPEE__PARTNER_ID -> shopee.partner_id
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao carregar as variáveis de ambiente")
	}

	// As credenciais da API de parceiros também são aceitas nos nomes curtos
	// convencionais, práticos em implantações via painel de hospedagem.
	if v := os.Getenv("SHOPEE_PARTNER_ID"); v != "" {
		_ = k.Set("shopee.partner_id", v)
	}
	if v := os.Getenv("SHOPEE_PARTNER_KEY"); v != "" {
		_ = k.Set("shopee.partner_key", v)
	}

	// 4. Unmarshal estrito: campos desconhecidos no arquivo são erro.
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao converter a configuração para a estrutura da aplicação")
	}

	// 5. Validação de integridade.
	if err := appConfig.validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidInput, fmt.Sprintf("a validação do arquivo de configuração ('%s') falhou", filename))
	}

	return &appConfig, nil
}
