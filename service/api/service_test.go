package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capteiofertas/ofertas-server/config"
	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
	"github.com/capteiofertas/ofertas-server/pkg/version"
	"github.com/capteiofertas/ofertas-server/service/notification"
	"github.com/capteiofertas/ofertas-server/service/shopee"
	"github.com/capteiofertas/ofertas-server/service/storage"
)

// stubStore Store vazio para os testes de ciclo de vida do serviço.
type stubStore struct{}

func (stubStore) SaveProduct(_ context.Context, product *storage.Product) (*storage.Product, error) {
	return product, nil
}

func (stubStore) ProductByID(_ context.Context, _ int64) (*storage.Product, error) {
	return nil, apperrors.New(apperrors.ErrNotFound, "o produto não foi encontrado")
}

func (stubStore) ProductBySlug(_ context.Context, _ string) (*storage.Product, error) {
	return nil, apperrors.New(apperrors.ErrNotFound, "o produto não foi encontrado")
}

func (stubStore) Products(_ context.Context, _ storage.ProductFilter) ([]*storage.Product, error) {
	return nil, nil
}

func (stubStore) UpdateProductPrice(_ context.Context, _ int64, _, _ float64) error {
	return nil
}

func (stubStore) CategoryCounts(_ context.Context) ([]storage.CategoryCount, error) {
	return nil, nil
}

func (stubStore) PublishedPosts(_ context.Context) ([]*storage.Post, error) {
	return nil, nil
}

func (stubStore) PostBySlug(_ context.Context, _ string) (*storage.Post, error) {
	return nil, apperrors.New(apperrors.ErrNotFound, "o post não foi encontrado")
}

func (stubStore) Close() error {
	return nil
}

type stubResolver struct{}

func (stubResolver) Resolve(_ context.Context, _ string) (*shopee.ProductSnapshot, error) {
	return nil, apperrors.New(apperrors.ErrNoData, "o produto não foi encontrado no marketplace")
}

type stubSender struct{}

func (stubSender) Notify(_ notification.NotifierID, _ string) bool { return true }
func (stubSender) NotifyDefault(_ string) bool                     { return true }

// getFreePort aloca uma porta TCP livre para o teste.
func getFreePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

// waitForServer espera o servidor responder em /health.
func waitForServer(port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)

	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}

	return fmt.Errorf("o servidor não respondeu em %s", timeout)
}

func setupTestService(t *testing.T) (*Service, int) {
	port := getFreePort(t)

	appConfig := &config.AppConfig{
		Site: config.SiteConfig{
			Name:    "Capte Ofertas",
			BaseURL: "https://capteiofertas.com.br",
		},
	}
	appConfig.API.ListenPort = port
	appConfig.API.MaxListSize = 50

	service := NewService(appConfig, stubStore{}, stubResolver{}, stubSender{}, version.BuildInfo{
		Version:   "1.0.0",
		BuildDate: "2026-01-01",
	})

	return service, port
}

func TestService_Run(t *testing.T) {
	service, port := setupTestService(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := &sync.WaitGroup{}
	wg.Add(1)

	require.NoError(t, service.Run(ctx, wg))

	require.NoError(t, waitForServer(port, 2*time.Second), "o servidor deve iniciar dentro do tempo limite")

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/api/v1/ofertas", port))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("o serviço não encerrou dentro do tempo limite")
	}
}

func TestService_DuplicateRun(t *testing.T) {
	service, port := setupTestService(t)

	ctx, cancel := context.WithCancel(context.Background())

	wg := &sync.WaitGroup{}
	wg.Add(2)

	require.NoError(t, service.Run(ctx, wg))
	require.NoError(t, waitForServer(port, 2*time.Second))

	// A segunda chamada não inicia um novo servidor, apenas loga o aviso.
	require.NoError(t, service.Run(ctx, wg))

	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("o serviço não encerrou dentro do tempo limite")
	}
}

func TestService_MissingDependencies(t *testing.T) {
	appConfig := &config.AppConfig{}

	t.Run("store ausente", func(t *testing.T) {
		service := NewService(appConfig, nil, stubResolver{}, stubSender{}, version.BuildInfo{})

		wg := &sync.WaitGroup{}
		wg.Add(1)

		err := service.Run(context.Background(), wg)
		assert.Equal(t, apperrors.ErrInternal, apperrors.GetType(err))
		wg.Wait()
	})

	t.Run("resolvedor ausente", func(t *testing.T) {
		service := NewService(appConfig, stubStore{}, nil, stubSender{}, version.BuildInfo{})

		wg := &sync.WaitGroup{}
		wg.Add(1)

		err := service.Run(context.Background(), wg)
		assert.Equal(t, apperrors.ErrInternal, apperrors.GetType(err))
		wg.Wait()
	})
}
