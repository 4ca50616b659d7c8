package handlers

import (
	"strconv"
	"time"

	"github.com/geocoder89/accounthub/internal/ui"
	"github.com/geocoder89/accounthub/internal/web"
	"github.com/gin-gonic/gin"
)

// ListItem re-renders one list item for in-place swaps from the browser.
func ListItem(ctx *gin.Context) (web.Response, error) {
	id, err := strconv.Atoi(ctx.Param("id"))

	if err != nil {
		return web.Text("not found").Status(404), nil
	}

	return web.HTML(ui.Fragment{
		Name: "list_item.html",
		Model: map[string]any{
			"ID":  id,
			"Now": time.Now().Format("15:04:05"),
		},
	}), nil
}
