package handler

import (
	"context"
	"time"

	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
	"github.com/capteiofertas/ofertas-server/service/notification"
	"github.com/capteiofertas/ofertas-server/service/shopee"
	"github.com/capteiofertas/ofertas-server/service/storage"
)

// mockStore implementação em memória do Store para os testes dos handlers.
type mockStore struct {
	products []*storage.Product
	posts    []*storage.Post

	savedProducts []*storage.Product
	lastFilter    storage.ProductFilter

	failWith error
}

func (m *mockStore) SaveProduct(_ context.Context, product *storage.Product) (*storage.Product, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	saved := *product
	saved.ID = int64(len(m.savedProducts) + 1)
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt

	m.savedProducts = append(m.savedProducts, &saved)

	return &saved, nil
}

func (m *mockStore) ProductByID(_ context.Context, id int64) (*storage.Product, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	for _, product := range m.products {
		if product.ID == id {
			return product, nil
		}
	}

	return nil, apperrors.New(apperrors.ErrNotFound, "o produto não foi encontrado")
}

func (m *mockStore) ProductBySlug(_ context.Context, slug string) (*storage.Product, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	for _, product := range m.products {
		if product.Slug == slug {
			return product, nil
		}
	}

	return nil, apperrors.New(apperrors.ErrNotFound, "o produto não foi encontrado")
}

func (m *mockStore) Products(_ context.Context, filter storage.ProductFilter) ([]*storage.Product, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	m.lastFilter = filter

	return m.products, nil
}

func (m *mockStore) UpdateProductPrice(_ context.Context, _ int64, _, _ float64) error {
	return m.failWith
}

func (m *mockStore) CategoryCounts(_ context.Context) ([]storage.CategoryCount, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	counts := map[string]*storage.CategoryCount{}
	var order []string
	for _, product := range m.products {
		if c, ok := counts[product.CategorySlug]; ok {
			c.Count++
			continue
		}
		counts[product.CategorySlug] = &storage.CategoryCount{
			Category: product.Category,
			Slug:     product.CategorySlug,
			Count:    1,
		}
		order = append(order, product.CategorySlug)
	}

	ordered := make([]storage.CategoryCount, 0, len(order))
	for _, slug := range order {
		ordered = append(ordered, *counts[slug])
	}

	return ordered, nil
}

func (m *mockStore) PublishedPosts(_ context.Context) ([]*storage.Post, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	return m.posts, nil
}

func (m *mockStore) PostBySlug(_ context.Context, slug string) (*storage.Post, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}

	for _, post := range m.posts {
		if post.Slug == slug {
			return post, nil
		}
	}

	return nil, apperrors.New(apperrors.ErrNotFound, "o post não foi encontrado")
}

func (m *mockStore) Close() error {
	return nil
}

var _ storage.Store = (*mockStore)(nil)

// mockResolver resolve URLs a partir de um mapa fixo.
type mockResolver struct {
	snapshots map[string]*shopee.ProductSnapshot
	err       error

	calls int
}

func (m *mockResolver) Resolve(_ context.Context, rawURL string) (*shopee.ProductSnapshot, error) {
	m.calls++

	if m.err != nil {
		return nil, m.err
	}

	if snapshot, ok := m.snapshots[rawURL]; ok {
		return snapshot, nil
	}

	return nil, apperrors.New(apperrors.ErrNoData, "o produto não foi encontrado no marketplace")
}

// mockSender registra as mensagens enviadas ao canal padrão.
type mockSender struct {
	defaults []string
}

func (m *mockSender) Notify(_ notification.NotifierID, _ string) bool {
	return true
}

func (m *mockSender) NotifyDefault(message string) bool {
	m.defaults = append(m.defaults, message)
	return true
}

var _ notification.Sender = (*mockSender)(nil)
