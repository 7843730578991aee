package handler

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightbooking/internal/models"
	"github.com/dharmasatrya/flightbooking/pkg/currency"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = []string{
	"index.html",
	"login.html",
	"register.html",
	"forgot.html",
	"reset.html",
	"reset_invalid.html",
	"reset_retry.html",
	"contact.html",
	"oauth_callback.html",
}

// TemplateRenderer renders one embedded page inside the shared layout.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	r := &TemplateRenderer{templates: make(map[string]*template.Template, len(pageTemplates))}
	for _, name := range pageTemplates {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

var templateFuncs = template.FuncMap{
	"money": func(amount float64, code string) string {
		return currency.Format(amount, code)
	},
	"clock": func(t time.Time) string {
		return t.Format("15:04")
	},
	"day": func(t time.Time) string {
		return t.Format("Mon 02 Jan")
	},
	"isoDay": func(s string) string {
		t, err := time.Parse(models.DateLayout, s)
		if err != nil {
			return s
		}
		return t.Format("Mon 02 Jan")
	},
	"duration": func(iso string) string {
		minutes, err := models.ParseDurationMinutes(iso)
		if err != nil {
			return iso
		}
		return models.FormatDuration(minutes)
	},
	"stops": func(n int) string {
		switch n {
		case 0:
			return "Direct"
		case 1:
			return "1 stop"
		default:
			return strconv.Itoa(n) + " stops"
		}
	},
	"inc": func(i int) int {
		return i + 1
	},
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
}
