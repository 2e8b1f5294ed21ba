// Package fetcher fornece o cliente HTTP compartilhado pelos serviços que
// consultam APIs externas (APIs da Shopee, páginas de lojas parceiras).
package fetcher

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
)

const (
	// defaultUserAgent identidade de navegador usada quando o chamador não define
	// um User-Agent próprio; evita bloqueios simples de bot nos sites consultados.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// defaultTimeout tempo máximo de uma requisição quando não configurado.
	defaultTimeout = 10 * time.Second

	// maxResponseBodySize limite de leitura do corpo da resposta (proteção de memória).
	maxResponseBodySize = 4 << 20 // 4 MiB
)

// Fetcher interface de execução de requisições HTTP. Permite a substituição do
// transporte real por dublês nos testes.
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher implementação padrão com timeout e User-Agent automático.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher cria um HTTPFetcher com o timeout informado.
// Um timeout menor ou igual a zero assume o valor padrão.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do executa a requisição. Caso o chamador não tenha definido um User-Agent,
// o valor padrão de navegador é aplicado.
func (f *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", defaultUserAgent)
	}
	return f.client.Do(req)
}

// Get monta e executa uma requisição GET com os cabeçalhos informados.
// O Body da resposta deve ser fechado pelo chamador.
func Get(ctx context.Context, f Fetcher, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidInput, "falha ao montar a requisição GET")
	}

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	return f.Do(req)
}

// ReadBody lê o corpo da resposta convertendo a codificação declarada no
// Content-Type para UTF-8 e limitando o tamanho total lido.
// O Body é drenado e fechado antes do retorno, liberando a conexão para reuso.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer drainAndClose(resp.Body)

	utf8Reader, err := charset.NewReader(io.LimitReader(resp.Body, maxResponseBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "falha na conversão de codificação do corpo da resposta")
	}

	body, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUpstreamUnavailable, "falha na leitura do corpo da resposta")
	}

	return body, nil
}

// drainAndClose esvazia o restante do corpo para permitir o reuso da conexão e o fecha.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxResponseBodySize))
	_ = body.Close()
}
