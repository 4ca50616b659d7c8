// Package web holds the transport-agnostic response model and its gin
// boundary. Handlers build a Response value; the dispatcher in dispatch.go is
// the only place that touches the live transport.
package web

import (
	"io"
	"strings"
)

// Renderer is a server-rendered HTML document or fragment.
type Renderer interface {
	Render(w io.Writer) error
}

// Response is the closed set of reply variants a handler can produce:
// TextResponse, JSONResponse, HTMLResponse and TemplateResponse. The
// dispatcher's type switch covers exactly these four.
type Response interface {
	StatusCode() int
	Headers() map[string][]string
	sealedResponse()
}

type headerEntry struct {
	name  string
	value string
}

// envelope carries the state shared by all variants. It is embedded by value,
// so variant methods that "modify" it copy the whole response.
type envelope struct {
	status  int
	headers []headerEntry
}

func (e envelope) StatusCode() int {
	if e.status == 0 {
		return 200
	}

	return e.status
}

// Headers returns the merged view: keys lower-cased, values in insertion
// order per key.
func (e envelope) Headers() map[string][]string {
	merged := make(map[string][]string, len(e.headers))

	for _, h := range e.headers {
		key := strings.ToLower(h.name)
		merged[key] = append(merged[key], h.value)
	}

	return merged
}

func (e envelope) add(name, value string) envelope {
	headers := make([]headerEntry, len(e.headers), len(e.headers)+1)
	copy(headers, e.headers)

	return envelope{
		status:  e.status,
		headers: append(headers, headerEntry{name: name, value: value}),
	}
}

func (e envelope) withStatus(status int) envelope {
	headers := make([]headerEntry, len(e.headers))
	copy(headers, e.headers)

	return envelope{status: status, headers: headers}
}

func (envelope) sealedResponse() {}

// TextResponse replies with text/plain; charset=utf-8.
type TextResponse struct {
	Body string
	envelope
}

func Text(body string) TextResponse {
	return TextResponse{Body: body}
}

func (r TextResponse) Header(name, value string) TextResponse {
	r.envelope = r.envelope.add(name, value)
	return r
}

func (r TextResponse) Status(status int) TextResponse {
	r.envelope = r.envelope.withStatus(status)
	return r
}

// JSONResponse serializes Body as application/json; charset=utf-8.
type JSONResponse struct {
	Body any
	envelope
}

func JSON(body any) JSONResponse {
	return JSONResponse{Body: body}
}

func (r JSONResponse) Header(name, value string) JSONResponse {
	r.envelope = r.envelope.add(name, value)
	return r
}

func (r JSONResponse) Status(status int) JSONResponse {
	r.envelope = r.envelope.withStatus(status)
	return r
}

// HTMLResponse renders Body as a text/html document.
type HTMLResponse struct {
	Body Renderer
	envelope
}

func HTML(body Renderer) HTMLResponse {
	return HTMLResponse{Body: body}
}

func (r HTMLResponse) Header(name, value string) HTMLResponse {
	r.envelope = r.envelope.add(name, value)
	return r
}

func (r HTMLResponse) Status(status int) HTMLResponse {
	r.envelope = r.envelope.withStatus(status)
	return r
}

// TemplateResponse hands Name and Model to the server's template engine.
type TemplateResponse struct {
	Name  string
	Model map[string]any
	envelope
}

func Template(name string, model map[string]any) TemplateResponse {
	return TemplateResponse{Name: name, Model: model}
}

func (r TemplateResponse) Header(name, value string) TemplateResponse {
	r.envelope = r.envelope.add(name, value)
	return r
}

func (r TemplateResponse) Status(status int) TemplateResponse {
	r.envelope = r.envelope.withStatus(status)
	return r
}
