package handlers

import (
	"fmt"

	"github.com/geocoder89/accounthub/internal/auth"
	"github.com/geocoder89/accounthub/internal/dbx"
	"github.com/geocoder89/accounthub/internal/session"
	"github.com/geocoder89/accounthub/internal/ui"
	"github.com/geocoder89/accounthub/internal/web"
	"github.com/gin-gonic/gin"
)

type PagesHandler struct {
	svc *auth.Service
}

func NewPagesHandler(svc *auth.Service) *PagesHandler {
	return &PagesHandler{svc: svc}
}

func (h *PagesHandler) Home(ctx *gin.Context) (web.Response, error) {
	return web.HTML(ui.HomePage()), nil
}

// Secret greets the authenticated principal. The route is only reachable
// through the session middleware, so a missing principal is a programming
// error, not a client one.
func (h *PagesHandler) Secret(ctx *gin.Context, q dbx.DBTX) (web.Response, error) {
	userID, ok := session.UserID(ctx)

	if !ok {
		return nil, fmt.Errorf("secret page reached without a principal")
	}

	u, err := h.svc.GetUser(ctx.Request.Context(), q, userID)

	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}

	return web.HTML(ui.SecretPage(u.Email)), nil
}
