package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/capteiofertas/ofertas-server/service/storage"
)

// sitemapURLSet raiz do documento sitemap.xml, no formato do protocolo
// sitemaps.org.
type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

func newSitemapURL(loc string, lastMod time.Time, changeFreq, priority string) sitemapURL {
	return sitemapURL{
		Loc:        loc,
		LastMod:    lastMod.UTC().Format(time.RFC3339),
		ChangeFreq: changeFreq,
		Priority:   priority,
	}
}

// Sitemap gera o sitemap.xml do site com as páginas estáticas, as ofertas,
// as categorias e os artigos do blog.
func (h *Handler) Sitemap(c echo.Context) error {
	baseURL := strings.TrimRight(h.cfg.Site.BaseURL, "/")
	now := time.Now()

	urls := []sitemapURL{
		newSitemapURL(baseURL, now, "daily", "1.0"),
		newSitemapURL(baseURL+"/promocoes-do-dia", now, "hourly", "0.9"),
		newSitemapURL(baseURL+"/ofertas", now, "daily", "0.8"),
		newSitemapURL(baseURL+"/blog", now, "daily", "0.7"),
	}

	products, err := h.store.Products(c.Request().Context(), storage.ProductFilter{})
	if err != nil {
		return err
	}
	for _, product := range products {
		urls = append(urls, newSitemapURL(
			fmt.Sprintf("%s/oferta/%d", baseURL, product.ID), product.UpdatedAt, "daily", "0.8"))
	}

	categories, err := h.store.CategoryCounts(c.Request().Context())
	if err != nil {
		return err
	}
	for _, category := range categories {
		urls = append(urls, newSitemapURL(
			fmt.Sprintf("%s/ofertas/%s", baseURL, category.Slug), now, "daily", "0.7"))
	}

	posts, err := h.store.PublishedPosts(c.Request().Context())
	if err != nil {
		return err
	}
	for _, post := range posts {
		urls = append(urls, newSitemapURL(
			fmt.Sprintf("%s/blog/%s", baseURL, post.Slug), post.UpdatedAt, "weekly", "0.6"))
	}

	return c.XML(http.StatusOK, sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}
