package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindForm binds and validates a form-encoded request body. Validation detail
// goes to the debug log only; callers answer the client with a redirect back
// to the form, never with field-level errors.
func BindForm(ctx *gin.Context, log *slog.Logger, out any) bool {
	err := ctx.ShouldBind(out)

	if err == nil {
		return true
	}

	var vErrs validator.ValidationErrors

	if errors.As(err, &vErrs) {
		fields := make([]string, 0, len(vErrs))

		for _, fe := range vErrs {
			fields = append(fields, fe.Field()+":"+fe.Tag())
		}

		log.Debug("form validation failed", "path", ctx.Request.URL.Path, "fields", fields)
	} else {
		log.Debug("form bind failed", "path", ctx.Request.URL.Path, "err", err)
	}

	return false
}
