package controllers

import (
	"errors"
	"net/http"

	"github.com/chiquebutik/butik/app/errs"
	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/bind"
	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/response"
)

// Larger bodies get 413, which the provider retries.
const maxWebhookBytes = 256 << 10

type WebhookController struct {
	service *services.WebhookService
}

func NewWebhookController(service *services.WebhookService) *WebhookController {
	return &WebhookController{service: service}
}

// Stripe receives provider events. Responses carry only a status; details
// go to the log.
func (c *WebhookController) Stripe(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	payload, err := bind.Raw(w, r, maxWebhookBytes)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		log.Warn("webhook: unreadable body", "status", status, "error", err)
		response.Error(w, status, http.StatusText(status))
		return
	}

	outcome, err := c.service.Handle(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		kind := errs.KindOf(err)
		status := response.StatusOf(kind)
		log.Warn("webhook: rejected", "kind", kind, "status", status, "error", err)
		response.Error(w, status, http.StatusText(status))
		return
	}
	log.Info("webhook: handled", "outcome", outcome)
	response.JSON(w, http.StatusOK, map[string]bool{"received": true})
}
