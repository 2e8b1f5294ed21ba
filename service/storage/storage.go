// Package storage persiste o catálogo do site (produtos e artigos) em
// PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/capteiofertas/ofertas-server/log"
	apperrors "github.com/capteiofertas/ofertas-server/pkg/errors"
	"github.com/capteiofertas/ofertas-server/pkg/strutil"
)

// Store operações de persistência do catálogo usadas pelos serviços.
type Store interface {
	SaveProduct(ctx context.Context, product *Product) (*Product, error)
	ProductByID(ctx context.Context, id int64) (*Product, error)
	ProductBySlug(ctx context.Context, slug string) (*Product, error)
	Products(ctx context.Context, filter ProductFilter) ([]*Product, error)
	UpdateProductPrice(ctx context.Context, id int64, price, originalPrice float64) error
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)

	PublishedPosts(ctx context.Context) ([]*Post, error)
	PostBySlug(ctx context.Context, slug string) (*Post, error)

	Close() error
}

// PostgresStore implementação do Store sobre database/sql + lib/pq.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// Open conecta ao banco, verifica a conexão e garante o esquema.
func Open(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao abrir a conexão com o banco de dados")
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "o banco de dados não respondeu à verificação de conexão")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.WithComponent("storage").Debug("conexão com o banco de dados estabelecida")

	return s, nil
}

// Close encerra a conexão com o banco.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// ensureSchema cria as tabelas e índices na primeira execução.
func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id             BIGSERIAL PRIMARY KEY,
			title          TEXT         NOT NULL,
			slug           TEXT         NOT NULL,
			image_url      TEXT         NOT NULL DEFAULT '',
			price          NUMERIC(14,2) NOT NULL,
			original_price NUMERIC(14,2) NOT NULL DEFAULT 0,
			category       TEXT         NOT NULL,
			category_slug  TEXT         NOT NULL,
			store_name     TEXT         NOT NULL,
			affiliate_url  TEXT         NOT NULL,
			shop_id        BIGINT       NOT NULL,
			item_id        BIGINT       NOT NULL,
			created_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			UNIQUE (shop_id, item_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category_slug ON products (category_slug)`,
		`CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id         BIGSERIAL PRIMARY KEY,
			slug       TEXT        NOT NULL UNIQUE,
			title      TEXT        NOT NULL,
			content    TEXT        NOT NULL,
			published  BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return apperrors.Wrap(err, apperrors.ErrSystem, "falha ao preparar o esquema do banco de dados")
		}
	}

	return nil
}

const productColumns = `id, title, slug, image_url, price, original_price, category, category_slug,
	store_name, affiliate_url, shop_id, item_id, created_at, updated_at`

// SaveProduct insere o produto, ou atualiza o registro existente quando o
// mesmo item do marketplace já foi ingerido (upsert por shop_id+item_id).
// Devolve o registro persistido, com ID e timestamps preenchidos.
func (s *PostgresStore) SaveProduct(ctx context.Context, product *Product) (*Product, error) {
	query := `INSERT INTO products (title, slug, image_url, price, original_price, category,
			category_slug, store_name, affiliate_url, shop_id, item_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (shop_id, item_id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			image_url = EXCLUDED.image_url,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			category = EXCLUDED.category,
			category_slug = EXCLUDED.category_slug,
			store_name = EXCLUDED.store_name,
			affiliate_url = EXCLUDED.affiliate_url,
			updated_at = NOW()
		RETURNING ` + productColumns

	row := s.db.QueryRowContext(ctx, query,
		product.Title, product.Slug, product.ImageURL, product.Price, product.OriginalPrice,
		product.Category, product.CategorySlug, product.StoreName, product.AffiliateURL,
		int64(product.ShopID), int64(product.ItemID),
	)

	saved, err := scanProduct(row)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao salvar o produto")
	}

	return saved, nil
}

// ProductByID busca um produto pelo identificador numérico.
func (s *PostgresStore) ProductByID(ctx context.Context, id int64) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "produto não encontrado: id=%d", id)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao buscar o produto")
	}

	return product, nil
}

// ProductBySlug busca um produto pelo slug. Slugs não são únicos no esquema;
// em caso de colisão vale o registro mais recente.
func (s *PostgresStore) ProductBySlug(ctx context.Context, slug string) (*Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1 ORDER BY created_at DESC LIMIT 1`, slug)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "produto não encontrado: slug='%s'", slug)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao buscar o produto")
	}

	return product, nil
}

// Products lista os produtos do mais recente para o mais antigo, aplicando os
// filtros informados.
func (s *PostgresStore) Products(ctx context.Context, filter ProductFilter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`

	var conditions []string
	var args []interface{}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		conditions = append(conditions, fmt.Sprintf("category_slug = $%d", len(args)))
	}
	if filter.StoreName != "" {
		args = append(args, filter.StoreName)
		conditions = append(conditions, fmt.Sprintf("store_name = $%d", len(args)))
	}

	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao listar os produtos")
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao ler o produto da listagem")
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao percorrer a listagem de produtos")
	}

	return products, nil
}

// UpdateProductPrice atualiza os preços de um produto após a re-resolução.
func (s *PostgresStore) UpdateProductPrice(ctx context.Context, id int64, price, originalPrice float64) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE products SET price = $1, original_price = $2, updated_at = NOW() WHERE id = $3`,
		price, originalPrice, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrSystem, "falha ao atualizar o preço do produto")
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.Newf(apperrors.ErrNotFound, "produto não encontrado para atualização de preço: id=%d", id)
	}

	return nil
}

// CategoryCounts totaliza os produtos por categoria, da maior para a menor.
func (s *PostgresStore) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, category_slug, COUNT(*) FROM products
		 GROUP BY category, category_slug ORDER BY COUNT(*) DESC, category ASC`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao totalizar as categorias")
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Slug, &c.Count); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao ler o total da categoria")
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao percorrer os totais de categoria")
	}

	return counts, nil
}

// PublishedPosts lista os artigos publicados, do mais recente para o mais antigo.
func (s *PostgresStore) PublishedPosts(ctx context.Context) ([]*Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, title, content, published, created_at, updated_at
		 FROM posts WHERE published ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao listar os artigos")
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao ler o artigo da listagem")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao percorrer a listagem de artigos")
	}

	return posts, nil
}

// PostBySlug busca um artigo publicado pelo slug.
func (s *PostgresStore) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, content, published, created_at, updated_at
		 FROM posts WHERE slug = $1 AND published`, slug)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "artigo não encontrado: slug='%s'", slug)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSystem, "falha ao buscar o artigo")
	}

	return post, nil
}

// scanner abstrai sql.Row e sql.Rows para os leitores de linha.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row scanner) (*Product, error) {
	var p Product
	var shopID, itemID int64

	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.ImageURL, &p.Price, &p.OriginalPrice,
		&p.Category, &p.CategorySlug, &p.StoreName, &p.AffiliateURL,
		&shopID, &itemID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.ShopID = uint64(shopID)
	p.ItemID = uint64(itemID)
	p.PriceDisplay = strutil.FormatPrecoBRL(p.Price)

	return &p, nil
}

func scanPost(row scanner) (*Post, error) {
	var p Post

	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}
