package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storyshelf/internal/content"
	"storyshelf/internal/entity"
	"storyshelf/internal/session"
	"storyshelf/internal/templates"
)

type StoryHandler struct {
	stories  *content.Service
	sessions *session.Manager
	errs     *ErrorPages
	tmpl     *template.Template
}

func NewStoryHandler(stories *content.Service, sm *session.Manager, errs *ErrorPages) *StoryHandler {
	return &StoryHandler{
		stories:  stories,
		sessions: sm,
		errs:     errs,
		tmpl:     templates.Lookup("story.html"),
	}
}

func (h *StoryHandler) StoryPage(w http.ResponseWriter, r *http.Request) {
	// A non-numeric id is a bad link, not a server fault.
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.errs.NotFound(w, r)
		return
	}

	sess := h.sessions.Attach(r)

	story, err := h.stories.Get(r.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		h.errs.NotFound(w, r)
		return
	}
	if err != nil {
		h.errs.ServerError(w, r, err)
		return
	}

	prev, next, err := h.stories.Adjacent(r.Context(), id)
	if err != nil {
		h.errs.ServerError(w, r, err)
		return
	}

	data := struct {
		PageContext
		Story     entity.Story
		CreatedAt string
		Prev      *entity.StoryRef
		Next      *entity.StoryRef
	}{
		PageContext: newPageContext(h.sessions, sess),
		Story:       story,
		CreatedAt:   story.CreatedAt.Format(dateLayout),
		Prev:        prev,
		Next:        next,
	}

	if err := h.tmpl.Execute(w, data); err != nil {
		h.errs.log.Error("render story", "error", err)
	}
}
