// Package ui holds the server-rendered pages: an application layout rendered
// through html/template, plus the embedded template set and static assets the
// router serves.
package ui

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Templates exposes the parsed set for the router's template engine.
func Templates() *template.Template {
	return pages
}

// Assets returns the embedded static files, rooted at the assets directory.
func Assets() http.FileSystem {
	sub, err := fs.Sub(assetFS, "assets")

	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

// Page is a document in the application layout. Body is pre-escaped HTML
// produced by the constructors below.
type Page struct {
	Title string
	Body  template.HTML
}

func (p Page) Render(w io.Writer) error {
	return pages.ExecuteTemplate(w, "page.html", p)
}

func HomePage() Page {
	return Page{
		Title: "Welcome",
		Body: template.HTML(`<h1>AccountHub</h1>
<p><a href="/login">Log in</a> or <a href="/signup">sign up</a>.</p>`),
	}
}

func SecretPage(email string) Page {
	safe := template.HTMLEscapeString(email)

	return Page{
		Title: "Welcome, " + email,
		Body: template.HTML(`<h1>Hello there, ` + safe + `</h1>
<p>You're logged in.</p>
<p><a href="/logout">Log out</a></p>`),
	}
}

// Fragment is a partial document for in-place swaps; it renders a named
// template without the layout.
type Fragment struct {
	Name  string
	Model map[string]any
}

func (f Fragment) Render(w io.Writer) error {
	return pages.ExecuteTemplate(w, f.Name, f.Model)
}
