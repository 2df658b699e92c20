package controllers

import (
	"net/http"

	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/auth"
	"github.com/chiquebutik/butik/pkg/response"
)

type CheckoutController struct {
	service *services.CheckoutService
}

func NewCheckoutController(service *services.CheckoutService) *CheckoutController {
	return &CheckoutController{service: service}
}

type checkoutRequest struct {
	Items []services.CheckoutItem `json:"items" validate:"omitempty,dive"`
	Email string                  `json:"email" validate:"omitempty,email"`
}

// Store opens a hosted checkout session. Signed-in callers pay for their
// server cart and the body's items are ignored.
func (c *CheckoutController) Store(w http.ResponseWriter, r *http.Request) {
	var in checkoutRequest
	if !decode(w, r, &in) {
		return
	}

	build := services.BuildInput{Email: in.Email, Items: in.Items}
	if id, ok := auth.FromCtx(r.Context()); ok {
		build.UserID = id.UserID
		if id.Email != "" {
			build.Email = id.Email
		}
		build.Items = nil
	}

	res, err := c.service.Build(r.Context(), build)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Success(w, res)
}

// Session returns the expanded session for the success page.
func (c *CheckoutController) Session(w http.ResponseWriter, r *http.Request) {
	sess, err := c.service.Retrieve(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Success(w, sess)
}
