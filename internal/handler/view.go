package handler

import (
	"log/slog"
	"net/http"

	gsessions "github.com/gorilla/sessions"

	"storyshelf/internal/session"
	"storyshelf/internal/templates"
)

// dateLayout matches the original site's YYYY-MM-DD story dates.
const dateLayout = "2006-01-02"

// PageContext is the slice of session state every view receives.
type PageContext struct {
	CurrentUser *session.CurrentUser
	IsAdmin     bool
}

func newPageContext(sm *session.Manager, sess *gsessions.Session) PageContext {
	user, ok := sm.Current(sess)
	if !ok {
		return PageContext{}
	}
	return PageContext{CurrentUser: &user, IsAdmin: user.IsAdmin()}
}

// ErrorPages renders the terminal error views. Infrastructure failures are
// logged here and never leak detail to the client.
type ErrorPages struct {
	log *slog.Logger
}

func NewErrorPages(log *slog.Logger) *ErrorPages {
	return &ErrorPages{log: log}
}

func (e *ErrorPages) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := templates.Lookup("error404.html").Execute(w, nil); err != nil {
		e.log.Error("render 404", "error", err)
	}
}

func (e *ErrorPages) Forbidden(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusForbidden)
	if err := templates.Lookup("error403.html").Execute(w, nil); err != nil {
		e.log.Error("render 403", "error", err)
	}
}

// ServerError logs the cause and renders the generic failure page.
func (e *ErrorPages) ServerError(w http.ResponseWriter, r *http.Request, cause error) {
	e.log.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", cause)
	w.WriteHeader(http.StatusInternalServerError)
	if err := templates.Lookup("error500.html").Execute(w, nil); err != nil {
		e.log.Error("render 500", "error", err)
	}
}
