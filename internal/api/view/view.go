// Package view renders the server-side HTML pages from embedded templates.
// Presentation only: handlers hand it a Data value, nothing here touches
// services or storage.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"userhub/internal/domain/model"
)

//go:embed templates/*.html
var files embed.FS

// Data is the view-model handed to every page template.
type Data struct {
	Title     string
	Username  string            // current user, empty when unauthenticated
	FormError string            // one-line flash message above the form
	Fields    map[string]string // per-field validation messages
	FormData  map[string]string // submitted values to re-fill the form
	Countries []model.Country   // nationality choices for the register form
	Users     []model.View      // admin listing rows
	Query     map[string]string // admin listing filter state
}

// Field returns the previously submitted value for a form field.
func (d *Data) Field(name string) string {
	return d.FormData[name]
}

// FieldError returns the validation message for a form field.
func (d *Data) FieldError(name string) string {
	return d.Fields[name]
}

type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// pageFiles lists the page templates; each is parsed with the base layout.
var pageFiles = []string{"index", "login", "register", "dashboard", "admin_users", "error"}

func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		ts, err := template.ParseFS(files,
			"templates/base.layout.html",
			"templates/"+name+".page.html",
		)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		pages[name] = ts
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes the page with the given status code. Execution goes through
// a buffer so a template failure can still turn into a clean 500.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data *Data) {
	if data == nil {
		data = &Data{}
	}

	ts, ok := r.pages[page]
	if !ok {
		r.logger.Error("unknown page template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		r.logger.Error("render page", slog.String("page", page), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// ServerError renders the generic 500 page without internal detail.
func (r *Renderer) ServerError(w http.ResponseWriter) {
	r.Render(w, http.StatusInternalServerError, "error", &Data{
		Title:     "Something went wrong",
		FormError: "Something went wrong. Please try again later.",
	})
}

// Forbidden renders the 403 page.
func (r *Renderer) Forbidden(w http.ResponseWriter) {
	r.Render(w, http.StatusForbidden, "error", &Data{
		Title:     "Forbidden",
		FormError: "You do not have access to this page.",
	})
}
