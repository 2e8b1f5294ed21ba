package storage

import (
	"time"

	"github.com/capteiofertas/ofertas-server/pkg/strutil"
	"github.com/capteiofertas/ofertas-server/service/shopee"
)

// Product oferta persistida no catálogo do site.
type Product struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	ImageURL string `json:"image_url,omitempty"`

	// Price preço atual; PriceDisplay é a forma de exibição em pt-BR
	// ("R$ 9.990,00"), derivada e nunca persistida.
	Price         float64 `json:"price"`
	PriceDisplay  string  `json:"price_display"`
	OriginalPrice float64 `json:"original_price,omitempty"`

	Category     string `json:"category"`
	CategorySlug string `json:"category_slug"`
	StoreName    string `json:"store_name"`

	// AffiliateURL URL original enviada na ingestão, com os parâmetros de
	// afiliado preservados.
	AffiliateURL string `json:"affiliate_url"`

	ShopID uint64 `json:"shop_id"`
	ItemID uint64 `json:"item_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasDiscount informa se o produto carrega um preço pré-desconto.
func (p *Product) HasDiscount() bool {
	return p.OriginalPrice > p.Price && p.Price > 0
}

// fillDerived preenche os campos derivados que não são persistidos.
func (p *Product) fillDerived() {
	p.PriceDisplay = strutil.FormatPrecoBRL(p.Price)
	p.CategorySlug = strutil.Slugify(p.Category)
}

// NewProductFromSnapshot monta um Product a partir de um snapshot resolvido e
// dos metadados informados na ingestão.
func NewProductFromSnapshot(snapshot *shopee.ProductSnapshot, affiliateURL, category, storeName string) *Product {
	p := &Product{
		Title:         snapshot.Title,
		Slug:          strutil.Slugify(snapshot.Title),
		ImageURL:      snapshot.ImageURL,
		Price:         snapshot.Price,
		OriginalPrice: snapshot.OriginalPrice,
		Category:      category,
		StoreName:     storeName,
		AffiliateURL:  affiliateURL,
		ShopID:        snapshot.Reference.ShopID,
		ItemID:        snapshot.Reference.ItemID,
	}
	p.fillDerived()

	return p
}

// CategoryCount total de produtos de uma categoria.
type CategoryCount struct {
	Category string `json:"category"`
	Slug     string `json:"slug"`
	Count    int    `json:"count"`
}

// Post artigo do blog do site.
type Post struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductFilter filtros da listagem de produtos. Campos vazios não filtram.
type ProductFilter struct {
	CategorySlug string
	StoreName    string
	Limit        int
}
