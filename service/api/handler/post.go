package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/capteiofertas/ofertas-server/pkg/htmlutil"
	"github.com/capteiofertas/ofertas-server/service/storage"
)

// metaDescriptionMaxLen limite de tamanho da descrição de SEO dos posts.
const metaDescriptionMaxLen = 160

// PostResponse artigo do blog acompanhado da descrição de SEO derivada do
// conteúdo.
type PostResponse struct {
	*storage.Post

	MetaDescription string `json:"meta_description"`
}

func newPostResponse(post *storage.Post) *PostResponse {
	return &PostResponse{
		Post: post,

		MetaDescription: htmlutil.MetaDescription(post.Content, metaDescriptionMaxLen),
	}
}

// ListPosts lista os artigos publicados do blog, do mais recente para o mais
// antigo.
func (h *Handler) ListPosts(c echo.Context) error {
	posts, err := h.store.PublishedPosts(c.Request().Context())
	if err != nil {
		return err
	}

	responses := make([]*PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, newPostResponse(post))
	}

	return c.JSON(http.StatusOK, responses)
}

// GetPost busca um artigo publicado pelo slug.
func (h *Handler) GetPost(c echo.Context) error {
	post, err := h.store.PostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newPostResponse(post))
}
