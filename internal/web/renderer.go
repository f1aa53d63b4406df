package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"escapedia/internal/guard"
	"escapedia/internal/session"
	apperrors "escapedia/pkg/errors"
	"escapedia/pkg/logger"
	"escapedia/pkg/middleware"
	"escapedia/pkg/model"
	"escapedia/pkg/validation"
)

//go:embed templates
var templateFS embed.FS

const flashCookie = "flash"

// View is what a handler hands to a page template.
type View struct {
	Title   string
	Error   string
	Warning string
	Notice  string
	Data    any
}

// Page is the root value every template receives.
type Page struct {
	View
	State session.State
	CSRF  string
	Path  string
	Query url.Values
}

type Renderer struct {
	pages    map[string]*template.Template
	location *time.Location
	log      *logger.Logger
}

// New parses the layout with every page under templates/pages.
func New(location *time.Location, log *logger.Logger) (*Renderer, error) {
	if location == nil {
		location = time.Local
	}
	r := &Renderer{
		pages:    make(map[string]*template.Template),
		location: location,
		log:      log,
	}

	base, err := template.New("layout").Funcs(r.funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		r.pages[strings.TrimSuffix(path.Base(p), ".html")] = t
	}

	return r, nil
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"can": func(s session.State, c string) bool {
			return guard.Can(s, guard.Capability(c))
		},
		"stars": func(v any) string {
			switch n := v.(type) {
			case int:
				return model.Stars(float64(n))
			case float64:
				return model.Stars(n)
			default:
				return model.Stars(0)
			}
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(r.location).Format("02/01/2006 15:04")
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(r.location).Format("02/01/2006")
		},
		"euros": func(f float64) string {
			if f == float64(int64(f)) {
				return fmt.Sprintf("%d €", int64(f))
			}
			return strings.Replace(fmt.Sprintf("%.2f €", f), ".", ",", 1)
		},
		"rating": func(f float64) string {
			return strings.Replace(fmt.Sprintf("%.1f", f), ".", ",", 1)
		},
		"join": strings.Join,
		"add":  func(a, b int) int { return a + b },
		"sub":  func(a, b int) int { return a - b },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, errors.New("dict: odd number of arguments")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				k, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[k] = kv[i+1]
			}
			return m, nil
		},
		"errFor": func(errs validation.ValidationErrors, field string) string {
			return errs.For(field)
		},
		"statuses":     func() []model.BookingStatus { return model.AllBookingStatuses },
		"difficulties": func() []model.Difficulty { return []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard} },
	}
}

// Render executes page name inside the layout. Output is buffered so a template
// failure never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, view View) {
	t, ok := r.pages[name]
	if !ok {
		r.log.Error("Unknown template", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if view.Notice == "" && view.Error == "" {
		if kind, msg := readFlash(w, req); msg != "" {
			if kind == "warning" {
				view.Warning = msg
			} else {
				view.Notice = msg
			}
		}
	}

	page := Page{
		View:  view,
		State: session.FromContext(req.Context()),
		CSRF:  middleware.CSRFToken(req.Context()),
		Path:  req.URL.Path,
		Query: req.URL.Query(),
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		r.log.Error("Template execution failed",
			"template", name,
			"request_id", middleware.RequestID(req.Context()),
			"error", err,
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders err as the generic error page with its mapped status.
func (r *Renderer) Error(w http.ResponseWriter, req *http.Request, err error) {
	appErr := apperrors.AsAppError(err)
	title := "Algo ha ido mal"
	if appErr.Code == apperrors.CodeNotFound {
		title = "No encontrado"
	}
	r.Render(w, req, appErr.StatusCode(), "error", View{Title: title, Error: appErr.Message})
}

// NotFound renders the not-found panel with message.
func (r *Renderer) NotFound(w http.ResponseWriter, req *http.Request, message string) {
	r.Render(w, req, http.StatusNotFound, "error", View{Title: "No encontrado", Error: message})
}

// Placeholder is the neutral page shown while a session is unresolved.
func (r *Renderer) Placeholder() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Retry-After", "1")
		r.Render(w, req, http.StatusServiceUnavailable, "placeholder", View{Title: "Cargando"})
	})
}

// SetFlash stores a one-shot message shown by the next rendered page.
func SetFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func readFlash(w http.ResponseWriter, req *http.Request) (kind, message string) {
	c, err := req.Cookie(flashCookie)
	if err != nil {
		return "", ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return "", ""
	}
	kind, message, _ = strings.Cut(raw, "|")
	return kind, message
}
