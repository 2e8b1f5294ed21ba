package shopee

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Credentials credenciais da API de parceiros da Shopee. São configuração
// imutável de processo, injetadas no Resolver na construção; quando ausentes,
// a camada da API de parceiros fica silenciosamente desabilitada.
type Credentials struct {
	PartnerID  string
	PartnerKey string
}

// Configured informa se ambas as credenciais foram fornecidas.
func (c Credentials) Configured() bool {
	return c.PartnerID != "" && c.PartnerKey != ""
}

// Sign calcula a assinatura exigida pela API de parceiros:
//
//	HMAC-SHA256(partner_key, partner_id + path + timestamp [+ access_token] [+ shop_id])
//
// em hexadecimal minúsculo. A ordem de concatenação é imposta pela API e
// precisa ser reproduzida bit a bit; accessToken vazio e shopID zero indicam
// campos ausentes e são omitidos da base.
func (c Credentials) Sign(path string, timestamp int64, accessToken string, shopID uint64) string {
	base := c.PartnerID + path + strconv.FormatInt(timestamp, 10)

	if accessToken != "" {
		base += accessToken
	}
	if shopID != 0 {
		base += strconv.FormatUint(shopID, 10)
	}

	mac := hmac.New(sha256.New, []byte(c.PartnerKey))
	mac.Write([]byte(base))

	return hex.EncodeToString(mac.Sum(nil))
}
