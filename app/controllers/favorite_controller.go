package controllers

import (
	"net/http"

	"github.com/chiquebutik/butik/app/resources"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/response"
)

type FavoriteController struct {
	service   *services.FavoriteService
	presenter *resources.Presenter
}

func NewFavoriteController(service *services.FavoriteService, presenter *resources.Presenter) *FavoriteController {
	return &FavoriteController{service: service, presenter: presenter}
}

func (c *FavoriteController) Index(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	favs, err := c.service.List(r.Context(), user)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Success(w, c.presenter.Favorites(r.Context(), favs))
}

// Toggle removes the favorite when present and adds it otherwise.
func (c *FavoriteController) Toggle(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	var in struct {
		ProductID uint `json:"productId" validate:"required"`
	}
	if !decode(w, r, &in) {
		return
	}

	res, err := c.service.Toggle(r.Context(), user, in.ProductID)
	if err != nil {
		response.Fail(w, err)
		return
	}
	if !res.Added {
		response.Success(w, map[string]bool{"removed": true})
		return
	}
	response.Success(w, map[string]interface{}{
		"added":    true,
		"favorite": c.presenter.Favorite(r.Context(), res.Favorite),
	})
}
