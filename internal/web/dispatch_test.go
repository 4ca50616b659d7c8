package web

import (
	"database/sql"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/accounthub/internal/dbx"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)

	return w
}

func TestWriteText(t *testing.T) {
	r := gin.New()
	r.GET("/", Handle(discardLogger(), func(ctx *gin.Context) (Response, error) {
		return Text("pong").Header("X-Test", "yes"), nil
	}))

	w := doGet(t, r, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "yes", w.Header().Get("X-Test"))
}

func TestWriteJSON(t *testing.T) {
	r := gin.New()
	r.GET("/", Handle(discardLogger(), func(ctx *gin.Context) (Response, error) {
		return JSON(map[string]string{"foo": "bar"}).Status(http.StatusCreated), nil
	}))

	w := doGet(t, r, "/")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"foo":"bar"}`, w.Body.String())
}

type staticDoc string

func (d staticDoc) Render(w io.Writer) error {
	_, err := io.WriteString(w, string(d))
	return err
}

type failingDoc struct{}

func (failingDoc) Render(io.Writer) error {
	return errors.New("render exploded")
}

func TestWriteHTML(t *testing.T) {
	r := gin.New()
	r.GET("/", Handle(discardLogger(), func(ctx *gin.Context) (Response, error) {
		return HTML(staticDoc("<h1>hi</h1>")), nil
	}))

	w := doGet(t, r, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>hi</h1>", w.Body.String())
}

func TestWriteTemplate(t *testing.T) {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("greet.html").Parse("hello {{.Name}}")))
	r.GET("/", Handle(discardLogger(), func(ctx *gin.Context) (Response, error) {
		return Template("greet.html", map[string]any{"Name": "bob"}), nil
	}))

	w := doGet(t, r, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, "hello bob", w.Body.String())
}

func TestWriteEmitsRepeatedHeaderValues(t *testing.T) {
	r := gin.New()
	r.GET("/", Handle(discardLogger(), func(ctx *gin.Context) (Response, error) {
		return Text("ok").Header("X-Multi", "a").Header("x-multi", "b"), nil
	}))

	w := doGet(t, r, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"a", "b"}, w.Result().Header.Values("X-Multi"))
}

func TestHandlerErrorBecomes500(t *testing.T) {
	r := gin.New()
	r.GET("/", Handle(discardLogger(), func(ctx *gin.Context) (Response, error) {
		return nil, errors.New("boom")
	}))

	w := doGet(t, r, "/")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom", "error detail must not leak")
}

func TestHandleTxCommitsOnSuccessRollsBackOnError(t *testing.T) {
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	db.SetMaxOpenConns(2)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE note (body TEXT NOT NULL)`)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/ok", HandleTx(discardLogger(), db, func(ctx *gin.Context, q dbx.DBTX) (Response, error) {
		_, err := q.ExecContext(ctx.Request.Context(), `INSERT INTO note (body) VALUES ($1)`, "kept")
		return Text("saved"), err
	}))
	r.GET("/fail", HandleTx(discardLogger(), db, func(ctx *gin.Context, q dbx.DBTX) (Response, error) {
		_, err := q.ExecContext(ctx.Request.Context(), `INSERT INTO note (body) VALUES ($1)`, "discarded")
		require.NoError(t, err)

		return nil, errors.New("handler rejects")
	}))

	w := doGet(t, r, "/ok")
	require.Equal(t, http.StatusOK, w.Code)

	w = doGet(t, r, "/fail")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var bodies []string

	rows, err := db.Query(`SELECT body FROM note ORDER BY body`)
	require.NoError(t, err)

	defer rows.Close()

	for rows.Next() {
		var b string
		require.NoError(t, rows.Scan(&b))
		bodies = append(bodies, b)
	}

	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"kept"}, bodies, "only the committed row survives")
}

func TestRenderErrorBecomes500(t *testing.T) {
	r := gin.New()
	r.GET("/", Handle(discardLogger(), func(ctx *gin.Context) (Response, error) {
		return HTML(failingDoc{}), nil
	}))

	w := doGet(t, r, "/")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
