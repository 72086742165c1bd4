package handler

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"storyshelf/internal/content"
	"storyshelf/internal/entity"
	"storyshelf/internal/session"
	"storyshelf/internal/templates"
)

// StoryFormHandler is the admin authoring flow. Both routes sit behind the
// admin guard.
type StoryFormHandler struct {
	stories  *content.Service
	sessions *session.Manager
	errs     *ErrorPages
	tmpl     *template.Template
}

func NewStoryFormHandler(stories *content.Service, sm *session.Manager, errs *ErrorPages) *StoryFormHandler {
	return &StoryFormHandler{
		stories:  stories,
		sessions: sm,
		errs:     errs,
		tmpl:     templates.Lookup("story_new.html"),
	}
}

type storyFormData struct {
	PageContext
	Error  string
	Values content.StoryInput
	Levels []entity.Level
}

func (h *StoryFormHandler) NewStoryPage(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Attach(r)
	h.render(w, http.StatusOK, storyFormData{
		PageContext: newPageContext(h.sessions, sess),
		Values:      content.StoryInput{Level: string(entity.LevelA1)},
	})
}

func (h *StoryFormHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	sess := h.sessions.Attach(r)
	user, ok := h.sessions.Current(sess)
	if !ok {
		// Guarded route; only reachable with a session that expired
		// mid-request.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	input := content.StoryInput{
		Title:   r.FormValue("title"),
		Level:   r.FormValue("level"),
		Summary: r.FormValue("summary"),
		Body:    r.FormValue("body"),
	}

	id, err := h.stories.Create(r.Context(), input, user.ID)
	var verr *content.ValidationError
	if errors.As(err, &verr) {
		h.render(w, http.StatusBadRequest, storyFormData{
			PageContext: newPageContext(h.sessions, sess),
			Error:       verr.Message,
			Values:      verr.Values,
		})
		return
	}
	if err != nil {
		h.errs.ServerError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/story/%d", id), http.StatusSeeOther)
}

func (h *StoryFormHandler) render(w http.ResponseWriter, status int, data storyFormData) {
	if data.Levels == nil {
		data.Levels = entity.Levels
	}
	w.WriteHeader(status)
	if err := h.tmpl.Execute(w, data); err != nil {
		h.errs.log.Error("render story form", "error", err)
	}
}
