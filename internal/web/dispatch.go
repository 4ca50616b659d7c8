package web

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/geocoder89/accounthub/internal/dbx"
	"github.com/gin-gonic/gin"
)

// HandlerFunc is a route handler in the response-value style: it computes a
// Response instead of writing to the transport itself.
type HandlerFunc func(ctx *gin.Context) (Response, error)

// DBHandlerFunc additionally receives a request-scoped database handle.
type DBHandlerFunc func(ctx *gin.Context, q dbx.DBTX) (Response, error)

// Write flushes a Response to the transport: accumulated headers first, then
// the status code and body in a single terminal write.
func Write(ctx *gin.Context, resp Response) error {
	out := ctx.Writer.Header()

	for name, values := range resp.Headers() {
		for _, value := range values {
			out.Add(name, value)
		}
	}

	switch r := resp.(type) {
	case TextResponse:
		ctx.String(r.StatusCode(), "%s", r.Body)
	case JSONResponse:
		ctx.JSON(r.StatusCode(), r.Body)
	case HTMLResponse:
		var buf bytes.Buffer

		if err := r.Body.Render(&buf); err != nil {
			return fmt.Errorf("render html body: %w", err)
		}

		ctx.Data(r.StatusCode(), "text/html; charset=utf-8", buf.Bytes())
	case TemplateResponse:
		ctx.HTML(r.StatusCode(), r.Name, r.Model)
	default:
		return fmt.Errorf("unknown response variant %T", resp)
	}

	return nil
}

// Handle adapts a HandlerFunc to gin. Handler and dispatch failures are fatal
// to the single request only: logged, answered with a bare 500.
func Handle(log *slog.Logger, h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		resp, err := h(ctx)

		if err != nil {
			fail(ctx, log, err)
			return
		}

		if err := Write(ctx, resp); err != nil {
			fail(ctx, log, err)
		}
	}
}

// HandleDB runs the handler with one pooled connection held for the whole
// request. The connection is returned on every exit path.
func HandleDB(log *slog.Logger, db *sql.DB, h DBHandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var resp Response

		err := dbx.WithSession(ctx.Request.Context(), db, func(_ context.Context, q dbx.DBTX) error {
			var err error
			resp, err = h(ctx, q)
			return err
		})

		if err != nil {
			fail(ctx, log, err)
			return
		}

		if err := Write(ctx, resp); err != nil {
			fail(ctx, log, err)
		}
	}
}

// HandleTx is HandleDB inside a transaction: commit when the handler returns
// cleanly, rollback when it errors or panics.
func HandleTx(log *slog.Logger, db *sql.DB, h DBHandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var resp Response

		err := dbx.WithTx(ctx.Request.Context(), db, func(_ context.Context, tx dbx.DBTX) error {
			var err error
			resp, err = h(ctx, tx)
			return err
		})

		if err != nil {
			fail(ctx, log, err)
			return
		}

		if err := Write(ctx, resp); err != nil {
			fail(ctx, log, err)
		}
	}
}

func fail(ctx *gin.Context, log *slog.Logger, err error) {
	log.Error("request failed",
		"method", ctx.Request.Method,
		"path", ctx.Request.URL.Path,
		"err", err,
	)

	ctx.String(http.StatusInternalServerError, "internal server error")
	ctx.Abort()
}
