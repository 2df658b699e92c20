package controllers

import (
	"net/http"

	"github.com/chiquebutik/butik/app/resources"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/response"
)

type CartController struct {
	service   *services.CartService
	presenter *resources.Presenter
}

func NewCartController(service *services.CartService, presenter *resources.Presenter) *CartController {
	return &CartController{service: service, presenter: presenter}
}

type addToCartRequest struct {
	ProductID uint    `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity"  validate:"omitempty,gte=1,lte=99"`
	Size      *string `json:"size"`
}

type updateCartRequest struct {
	CartItemID uint `json:"cartItemId" validate:"required"`
	Quantity   int  `json:"quantity"`
}

// Index lists the caller's cart with derived totals.
func (c *CartController) Index(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	sum, err := c.service.List(r.Context(), user)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Success(w, c.presenter.Cart(r.Context(), sum))
}

func (c *CartController) Store(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	var in addToCartRequest
	if !decode(w, r, &in) {
		return
	}

	line, err := c.service.Add(r.Context(), user, services.AddToCartInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Size:      in.Size,
	})
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Created(w, map[string]interface{}{"cartItem": c.presenter.CartLine(r.Context(), line)})
}

// Update sets an absolute quantity. Quantity is checked by the service so a
// zero or negative value reports InvalidArgument rather than 422.
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	var in updateCartRequest
	if !decode(w, r, &in) {
		return
	}

	line, err := c.service.UpdateQuantity(r.Context(), user, in.CartItemID, in.Quantity)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"cartItem": c.presenter.CartLine(r.Context(), line)})
}

func (c *CartController) Destroy(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	id, err := uintParam(r.URL.Query().Get("id"), "id")
	if err != nil {
		response.Fail(w, err)
		return
	}

	n, err := c.service.Remove(r.Context(), user, id)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Success(w, map[string]int64{"deleted": n})
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	n, err := c.service.Clear(r.Context(), user)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Success(w, map[string]int64{"deleted": n})
}
