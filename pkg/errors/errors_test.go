package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrInvalidURL, "URL de produto não reconhecida")

	require.Error(t, err)
	assert.Equal(t, "URL de produto não reconhecida", err.Error())
	assert.Equal(t, ErrInvalidURL, GetType(err))
	assert.Nil(t, Cause(err))
}

func TestWrap(t *testing.T) {
	t.Run("erro envolvido preserva a causa", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, ErrUpstreamUnavailable, "falha ao consultar a API da Shopee")

		require.Error(t, err)
		assert.Equal(t, "falha ao consultar a API da Shopee: connection refused", err.Error())
		assert.Equal(t, ErrUpstreamUnavailable, GetType(err))
		assert.Equal(t, cause, Cause(err))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("errors.Is encontra a causa em cadeias aninhadas", func(t *testing.T) {
		cause := errors.New("timeout")
		inner := Wrap(cause, ErrUpstreamUnavailable, "camada 1 falhou")
		outer := Wrap(inner, ErrNoData, "nenhuma camada retornou dados")

		assert.True(t, errors.Is(outer, cause))
		assert.Equal(t, ErrNoData, GetType(outer))
	})
}

func TestIs(t *testing.T) {
	err := New(ErrNoData, "nenhum dado disponível")

	assert.True(t, Is(err, ErrNoData))
	assert.False(t, Is(err, ErrInvalidURL))
	assert.False(t, Is(nil, ErrNoData))
	assert.False(t, Is(errors.New("erro comum"), ErrNoData))
}

func TestIs_ErroEnvolvidoPorTerceiros(t *testing.T) {
	// Categorias devem ser encontradas mesmo quando o AppError está envolvido por fmt.Errorf.
	err := fmt.Errorf("contexto adicional: %w", New(ErrInvalidURL, "URL inválida"))

	assert.True(t, Is(err, ErrInvalidURL))
	assert.Equal(t, ErrInvalidURL, GetType(err))
}

func TestGetType(t *testing.T) {
	assert.Equal(t, ErrUnknown, GetType(nil))
	assert.Equal(t, ErrUnknown, GetType(errors.New("erro comum")))
	assert.Equal(t, ErrInternal, GetType(New(ErrInternal, "falha interna")))
}
