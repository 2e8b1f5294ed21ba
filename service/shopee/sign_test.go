package shopee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testPartnerID  = "123456"
	testPartnerKey = "test-partner-key"
	testTimestamp  = int64(1700000000)
	testSignPath   = "/api/v2/product/get_item_base_info"
)

func TestCredentials_Sign(t *testing.T) {
	creds := Credentials{PartnerID: testPartnerID, PartnerKey: testPartnerKey}

	t.Run("assinatura determinística sem campos opcionais", func(t *testing.T) {
		expected := "b4e7815dca3e7796d82e0ac25c9eac93e2bc906689768ea452af1d9208cbf657"

		assert.Equal(t, expected, creds.Sign(testSignPath, testTimestamp, "", 0))
		// Entradas idênticas produzem sempre o mesmo digest.
		assert.Equal(t, expected, creds.Sign(testSignPath, testTimestamp, "", 0))
	})

	t.Run("campos opcionais entram na base na ordem exigida", func(t *testing.T) {
		expected := "a1ca998f9eacfd78c30e2e000f8f14795a0c5ed3b838c50819fbe2ed43207220"

		assert.Equal(t, expected, creds.Sign(testSignPath, testTimestamp, "tok-abc", 789))
	})

	t.Run("qualquer entrada alterada muda o digest", func(t *testing.T) {
		base := creds.Sign(testSignPath, testTimestamp, "", 0)

		assert.NotEqual(t, base, creds.Sign("/api/v2/shop/get_shop_info", testTimestamp, "", 0))
		assert.NotEqual(t, base, creds.Sign(testSignPath, testTimestamp+1, "", 0))
		assert.Equal(t, "75dc6dd3ab6ccd168320744a8481ac8cf9d14ae9b3e25dc1a03c86c3d5c3c2a6",
			creds.Sign(testSignPath, testTimestamp+1, "", 0))

		otherKey := Credentials{PartnerID: testPartnerID, PartnerKey: "outra-chave"}
		assert.NotEqual(t, base, otherKey.Sign(testSignPath, testTimestamp, "", 0))
	})
}

func TestCredentials_Configured(t *testing.T) {
	assert.True(t, Credentials{PartnerID: "1", PartnerKey: "k"}.Configured())
	assert.False(t, Credentials{PartnerID: "1"}.Configured())
	assert.False(t, Credentials{PartnerKey: "k"}.Configured())
	assert.False(t, Credentials{}.Configured())
}
