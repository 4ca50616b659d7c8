package handlers

import (
	"io"
	"time"

	"github.com/geocoder89/accounthub/internal/auth"
	"github.com/geocoder89/accounthub/internal/dbx"
	"github.com/geocoder89/accounthub/internal/web"
	"github.com/gin-gonic/gin"
)

// APIHandler serves the small JSON/text surface next to the HTML pages.
type APIHandler struct {
	svc *auth.Service
}

func NewAPIHandler(svc *auth.Service) *APIHandler {
	return &APIHandler{svc: svc}
}

func (h *APIHandler) Ping(ctx *gin.Context) (web.Response, error) {
	return web.Text("pong").Header("X-Served-At", time.Now().UTC().Format(time.RFC3339)), nil
}

func (h *APIHandler) Reverse(ctx *gin.Context) (web.Response, error) {
	body, err := io.ReadAll(ctx.Request.Body)

	if err != nil {
		return nil, err
	}

	runes := []rune(string(body))

	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}

	return web.Text(string(runes)), nil
}

// ListUsers returns the user list as JSON. Password hashes never appear: the
// domain type does not carry them.
func (h *APIHandler) ListUsers(ctx *gin.Context, q dbx.DBTX) (web.Response, error) {
	users, err := h.svc.ListUsers(ctx.Request.Context(), q)

	if err != nil {
		return nil, err
	}

	return web.JSON(users), nil
}
