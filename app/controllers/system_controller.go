package controllers

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/chiquebutik/butik/pkg/database"
	"github.com/chiquebutik/butik/pkg/logger"
	"github.com/chiquebutik/butik/pkg/response"
	"github.com/chiquebutik/butik/pkg/ws"
)

// SystemController serves the non-API endpoints: health and websockets.
type SystemController struct {
	db  *gorm.DB
	hub *ws.Hub
}

func NewSystemController(db *gorm.DB, hub *ws.Hub) *SystemController {
	return &SystemController{db: db, hub: hub}
}

func (c *SystemController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, c.db); err != nil {
		logger.WithCtx(ctx).Warn("health: database unreachable", "error", err)
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}

// Cart upgrades the caller to a websocket receiving cart and order pushes.
func (c *SystemController) Cart(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	c.hub.Serve(w, r, user)
}
