package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
)

// AppConfig estrutura raiz com toda a configuração da aplicação.
type AppConfig struct {
	Debug     bool           `json:"debug"`
	Log       LogConfig      `json:"log"`
	Site      SiteConfig     `json:"site"`
	Database  DatabaseConfig `json:"database"`
	Shopee    ShopeeConfig   `json:"shopee"`
	Notifiers NotifierConfig `json:"notifiers"`
	Refresh   RefreshConfig  `json:"refresh"`
	API       APIConfig      `json:"api"`
}

// validate verifica a integridade e a consistência mútua das seções da
// configuração logo após a carga.
func (c *AppConfig) validate() error {
	if err := c.Site.validate(); err != nil {
		return err
	}

	if err := c.Database.validate(); err != nil {
		return err
	}

	if err := c.Shopee.validate(); err != nil {
		return err
	}

	notifierIDs, err := c.Notifiers.validate()
	if err != nil {
		return err
	}

	if err := c.Refresh.validate(notifierIDs); err != nil {
		return err
	}

	return c.API.validate()
}

// VerifyRecommendations diagnostica o cumprimento de configurações
// recomendadas para a operação do serviço. Não gera erros, apenas avisos.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	if c.API.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("o servidor web está configurado em uma porta reservada do sistema (porta: %d); a execução pode exigir privilégios de administrador", c.API.ListenPort))
	}

	if !c.Shopee.Configured() {
		warnings = append(warnings, "as credenciais da API de parceiros da Shopee não foram configuradas; a resolução de produtos contará apenas com a API interna do site")
	}

	return warnings
}

// LogConfig política de retenção dos arquivos de log.
type LogConfig struct {
	MaxAgeDays int `json:"max_age_days" validate:"min=1"`
}

// SiteConfig identidade pública do site, usada no sitemap e nos metadados.
type SiteConfig struct {
	Name    string `json:"name" validate:"required"`
	BaseURL string `json:"base_url" validate:"required"`
}

func (c *SiteConfig) validate() error {
	if err := checkStruct(validate, c, "Site"); err != nil {
		return err
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.New(apperrors.ErrInvalidInput, fmt.Sprintf("a URL base do site (base_url) é inválida: '%s' (formato: https://dominio)", c.BaseURL))
	}

	return nil
}

// DatabaseConfig conexão com o banco de dados do catálogo.
type DatabaseConfig struct {
	DSN string `json:"dsn" validate:"required"`
}

func (c *DatabaseConfig) validate() error {
	return checkStruct(validate, c, "Database")
}

// ShopeeConfig parâmetros do resolvedor de produtos da Shopee.
type ShopeeConfig struct {
	// PartnerID e PartnerKey credenciais da API de parceiros. Opcionais: na
	// ausência, a camada assinada da resolução fica desabilitada.
	PartnerID  string `json:"partner_id"`
	PartnerKey string `json:"partner_key"`

	InternalBaseURL string `json:"internal_base_url" validate:"required,url"`
	PartnerBaseURL  string `json:"partner_base_url" validate:"required,url"`
	Locale          string `json:"locale" validate:"required"`
	Timeout         string `json:"timeout" validate:"required"`
}

// Configured informa se as credenciais da API de parceiros estão completas.
func (c *ShopeeConfig) Configured() bool {
	return c.PartnerID != "" && c.PartnerKey != ""
}

// TimeoutDuration devolve o timeout por camada já convertido. A conversão é
// garantida pela validação prévia da configuração.
func (c *ShopeeConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

func (c *ShopeeConfig) validate() error {
	if err := checkStruct(validate, c, "Shopee"); err != nil {
		return err
	}

	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return apperrors.New(apperrors.ErrInvalidInput, fmt.Sprintf("o timeout das consultas à Shopee (timeout) é inválido: '%s' (ex.: 8s, 1500ms)", c.Timeout))
	}

	// Credenciais parciais indicam erro de implantação; ou ambas, ou nenhuma.
	if (c.PartnerID == "") != (c.PartnerKey == "") {
		return apperrors.New(apperrors.ErrInvalidInput, "as credenciais da API de parceiros estão incompletas: partner_id e partner_key devem ser informados juntos")
	}

	return nil
}

// NotifierConfig canais de notificação disponíveis para os alertas de oferta.
type NotifierConfig struct {
	DefaultNotifierID string           `json:"default_notifier_id"`
	Telegrams         []TelegramConfig `json:"telegrams"`
}

func (c *NotifierConfig) validate() ([]string, error) {
	if err := checkUniqueField(validate, c.Telegrams, "ID", "Notifier"); err != nil {
		return nil, err
	}

	var notifierIDs []string
	for _, telegram := range c.Telegrams {
		if err := checkStruct(validate, telegram, fmt.Sprintf("Notifier Telegram['%s']", telegram.ID)); err != nil {
			return nil, err
		}
		notifierIDs = append(notifierIDs, telegram.ID)
	}

	// Sem notificadores o serviço opera normalmente, apenas sem alertas.
	if len(notifierIDs) == 0 {
		if c.DefaultNotifierID != "" {
			return nil, apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("o NotifierID padrão ('%s') foi definido, mas nenhum notificador está configurado", c.DefaultNotifierID))
		}
		return nil, nil
	}

	if !slices.Contains(notifierIDs, c.DefaultNotifierID) {
		return nil, apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("o NotifierID padrão ('%s') não existe na lista de notificadores definidos", c.DefaultNotifierID))
	}

	return notifierIDs, nil
}

// TelegramConfig token do bot e chat de destino de um notificador Telegram.
type TelegramConfig struct {
	ID       string `json:"id" validate:"required"`
	BotToken string `json:"bot_token" validate:"required,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required"`
}

// RefreshConfig agendamento da atualização periódica de preços.
type RefreshConfig struct {
	Runnable      bool   `json:"runnable"`
	TimeSpec      string `json:"time_spec"`
	RatePerMinute int    `json:"rate_per_minute" validate:"min=1"`

	// NotifierID canal dos alertas de queda de preço; vazio usa o padrão.
	NotifierID string `json:"notifier_id"`
}

func (c *RefreshConfig) validate(notifierIDs []string) error {
	if err := checkStruct(validate, c, "Refresh"); err != nil {
		return err
	}

	if c.Runnable {
		if _, err := cron.ParseStandard(c.TimeSpec); err != nil {
			return apperrors.Wrap(err, apperrors.ErrInvalidInput, fmt.Sprintf("a expressão de agendamento da atualização de preços (time_spec) é inválida: '%s'", c.TimeSpec))
		}
	}

	if c.NotifierID != "" && !slices.Contains(notifierIDs, c.NotifierID) {
		return apperrors.New(apperrors.ErrNotFound, fmt.Sprintf("o NotifierID ('%s') referenciado pela atualização de preços não está definido", c.NotifierID))
	}

	return nil
}

// APIConfig servidor REST público e as credenciais das aplicações clientes.
type APIConfig struct {
	TLSServer   bool   `json:"tls_server"`
	TLSCertFile string `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	ListenPort  int    `json:"listen_port" validate:"min=1,max=65535"`
	MaxListSize int    `json:"max_list_size" validate:"min=1"`

	CORS         CORSConfig          `json:"cors"`
	Applications []ApplicationConfig `json:"applications"`
}

func (c *APIConfig) validate() error {
	if err := checkStruct(validate, c, "API"); err != nil {
		return err
	}

	if err := c.CORS.validate(); err != nil {
		return err
	}

	if err := checkUniqueField(validate, c.Applications, "ID", "Application"); err != nil {
		return err
	}

	for _, app := range c.Applications {
		if err := checkStruct(validate, app, fmt.Sprintf("Application['%s']", app.ID)); err != nil {
			return err
		}

		if strings.TrimSpace(app.AppKey) == "" {
			return apperrors.New(apperrors.ErrInvalidInput, fmt.Sprintf("a chave de API (app_key) da Application['%s'] não foi definida", app.ID))
		}
	}

	return nil
}

// CORSConfig política de compartilhamento de recursos entre origens.
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate() error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.ErrInvalidInput, "a lista de origens permitidas do CORS (allow_origins) está vazia")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" && len(c.AllowOrigins) > 1 {
			return apperrors.New(apperrors.ErrInvalidInput, "o curinga (*) não pode ser combinado com outras origens; para liberar todas, configure apenas o curinga")
		}
	}

	if err := validate.Struct(c); err != nil {
		return translateCORSError(err)
	}

	return nil
}

// ApplicationConfig aplicação cliente autorizada a usar a API de ingestão.
type ApplicationConfig struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AppKey      string `json:"app_key"`
}
