package controllers

import (
	"net/http"

	"github.com/chiquebutik/butik/app/resources"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Index returns the caller's paid orders, newest first.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	p := page(r)
	orders, err := c.service.History(r.Context(), user, p)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Paginated(w, resources.Orders(orders), response.Pagination{
		Limit:  p.Limit,
		Offset: p.Offset,
		Count:  len(orders),
	})
}
