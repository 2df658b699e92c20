package controllers

import (
	"net/http"

	"github.com/chiquebutik/butik/app/services"
	"github.com/chiquebutik/butik/pkg/response"
)

type ContactController struct {
	service *services.ContactService
}

func NewContactController(service *services.ContactService) *ContactController {
	return &ContactController{service: service}
}

func (c *ContactController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.ContactInput
	if !decode(w, r, &in) {
		return
	}

	msg, err := c.service.Submit(r.Context(), in)
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Message(w, "Tack för ditt meddelande! Vi återkommer så snart som möjligt.",
		map[string]uint{"messageId": msg.ID})
}

func (c *ContactController) Info(w http.ResponseWriter, r *http.Request) {
	info, err := c.service.Info(r.Context())
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.Success(w, info)
}
