package handler

import (
	"html/template"
	"net/http"

	"storyshelf/internal/session"
	"storyshelf/internal/templates"
)

type AboutHandler struct {
	sessions *session.Manager
	errs     *ErrorPages
	tmpl     *template.Template
}

func NewAboutHandler(sm *session.Manager, errs *ErrorPages) *AboutHandler {
	return &AboutHandler{
		sessions: sm,
		errs:     errs,
		tmpl:     templates.Lookup("about.html"),
	}
}

func (h *AboutHandler) AboutPage(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Attach(r)
	if err := h.tmpl.Execute(w, newPageContext(h.sessions, sess)); err != nil {
		h.errs.log.Error("render about", "error", err)
	}
}
