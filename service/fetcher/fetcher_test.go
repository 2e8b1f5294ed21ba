package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_UserAgentPadrao(t *testing.T) {
	var receivedUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUA = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	f := NewHTTPFetcher(5 * time.Second)

	resp, err := Get(context.Background(), f, ts.URL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Contains(t, receivedUA, "Mozilla/5.0")
}

func TestHTTPFetcher_UserAgentDoChamadorPreservado(t *testing.T) {
	var receivedUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUA = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	f := NewHTTPFetcher(5 * time.Second)

	header := http.Header{}
	header.Set("User-Agent", "ofertas-server-test/1.0")

	resp, err := Get(context.Background(), f, ts.URL, header)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "ofertas-server-test/1.0", receivedUA)
}

func TestGet_CabecalhosEnviados(t *testing.T) {
	var gotLang, gotReferer string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLang = r.Header.Get("Accept-Language")
		gotReferer = r.Header.Get("Referer")
	}))
	defer ts.Close()

	header := http.Header{}
	header.Set("Accept-Language", "pt-BR,pt;q=0.9")
	header.Set("Referer", "https://shopee.com.br/")

	resp, err := Get(context.Background(), NewHTTPFetcher(0), ts.URL, header)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "pt-BR,pt;q=0.9", gotLang)
	assert.Equal(t, "https://shopee.com.br/", gotReferer)
}

func TestGet_ContextoCancelado(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Get(ctx, NewHTTPFetcher(5*time.Second), ts.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReadBody(t *testing.T) {
	t.Run("corpo UTF-8 lido integralmente", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(`{"name":"Fone Bluetooth"}`))
		}))
		defer ts.Close()

		resp, err := Get(context.Background(), NewHTTPFetcher(0), ts.URL, nil)
		require.NoError(t, err)

		body, err := ReadBody(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Fone Bluetooth"}`, string(body))
	})

	t.Run("corpo em ISO-8859-1 convertido para UTF-8", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
			_, _ = w.Write([]byte{'p', 'r', 'o', 'm', 'o', 0xE7, 0xE3, 'o'}) // "promoção" em latin-1
		}))
		defer ts.Close()

		resp, err := Get(context.Background(), NewHTTPFetcher(0), ts.URL, nil)
		require.NoError(t, err)

		body, err := ReadBody(resp)
		require.NoError(t, err)
		assert.Equal(t, "promoção", string(body))
	})
}
