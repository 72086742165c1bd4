package handler

import (
	"html/template"
	"net/http"

	"storyshelf/internal/content"
	"storyshelf/internal/entity"
	"storyshelf/internal/session"
	"storyshelf/internal/templates"
)

type HomeHandler struct {
	stories  *content.Service
	sessions *session.Manager
	errs     *ErrorPages
	tmpl     *template.Template
}

func NewHomeHandler(stories *content.Service, sm *session.Manager, errs *ErrorPages) *HomeHandler {
	return &HomeHandler{
		stories:  stories,
		sessions: sm,
		errs:     errs,
		tmpl:     templates.Lookup("home.html"),
	}
}

type storyCard struct {
	ID        int
	Title     string
	Level     entity.Level
	Summary   string
	CreatedAt string
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Attach(r)

	stories, err := h.stories.List(r.Context())
	if err != nil {
		h.errs.ServerError(w, r, err)
		return
	}

	cards := make([]storyCard, 0, len(stories))
	for _, s := range stories {
		cards = append(cards, storyCard{
			ID:        s.ID,
			Title:     s.Title,
			Level:     s.Level,
			Summary:   s.Summary,
			CreatedAt: s.CreatedAt.Format(dateLayout),
		})
	}

	data := struct {
		PageContext
		Stories []storyCard
		Levels  []entity.Level
	}{
		PageContext: newPageContext(h.sessions, sess),
		Stories:     cards,
		Levels:      entity.Levels,
	}

	if err := h.tmpl.Execute(w, data); err != nil {
		h.errs.log.Error("render home", "error", err)
	}
}
