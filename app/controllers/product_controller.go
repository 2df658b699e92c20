package controllers

import (
	"net/http"
	"strings"

	"github.com/chiquebutik/butik/app/resources"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/response"
	"github.com/chiquebutik/butik/pkg/router"
)

type ProductController struct {
	catalog   *services.CatalogService
	presenter *resources.Presenter
}

func NewProductController(catalog *services.CatalogService, presenter *resources.Presenter) *ProductController {
	return &ProductController{catalog: catalog, presenter: presenter}
}

func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	res, err := c.catalog.List(r.Context(), r.URL.Query().Get("category"), page(r))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Paginated(w, c.presenter.Products(r.Context(), res.Products), response.Pagination{
		Limit:  res.Page.Limit,
		Offset: res.Page.Offset,
		Count:  int(res.Total),
	})
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(router.Param(r, "id"), "id")
	if err != nil {
		response.Fail(w, err)
		return
	}
	p, err := c.catalog.Get(r.Context(), id)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Success(w, c.presenter.Product(r.Context(), p))
}

// Search matches titles. An empty query returns an empty list.
func (c *ProductController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("query")
	if q == "" {
		q = r.URL.Query().Get("q")
	}
	rows, err := c.catalog.Search(r.Context(), strings.TrimSpace(q), page(r))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Success(w, c.presenter.Products(r.Context(), rows))
}
