// Package views renders the server-side HTML pages.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/anonto42/food-roulette/backend/internal/middleware"
	"github.com/anonto42/food-roulette/backend/internal/models"
	"github.com/anonto42/food-roulette/backend/internal/session"
	"github.com/labstack/echo/v4"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the stylesheet and default images, rooted so that
// "css/style.css" is served at /static/css/style.css.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	root       = "templates"
	layoutGlob = "templates/layout/*.html"
	partsGlob  = "templates/partials/*.html"
)

// Page is what every template executes against.
type Page struct {
	User    *models.User
	Flashes []session.Flash
	Path    string
	Data    any
}

// Renderer implements echo.Renderer with one template set per page.
type Renderer struct {
	pages    map[string]*template.Template
	sessions *session.Manager
}

// New parses every page under templates/ together with the shared layout
// and partials. Page names are paths relative to templates/, e.g.
// "users/show.html".
func New(sessions *session.Manager) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template), sessions: sessions}

	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == path.Dir(layoutGlob) || p == path.Dir(partsGlob) {
				return fs.SkipDir
			}
			return nil
		}
		if path.Ext(p) != ".html" {
			return nil
		}
		name := strings.TrimPrefix(p, root+"/")
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutGlob, partsGlob, p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Render wraps data in a Page carrying the current user and pending flashes.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	page := Page{
		User: middleware.CurrentUser(c),
		Path: c.Request().URL.Path,
		Data: data,
	}
	if r.sessions != nil {
		page.Flashes = r.sessions.Flashes(c.Response(), c.Request())
	}
	return t.ExecuteTemplate(w, "base", page)
}

var funcs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Format("02 January 2006")
	},
	"pathEscape": url.PathEscape,
	"join":       strings.Join,
	"dict": func(pairs ...any) (map[string]any, error) {
		if len(pairs)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
}
