package handler

import (
	"net/http"

	"storyshelf/internal/session"
)

type LogoutHandler struct {
	sessions *session.Manager
}

func NewLogoutHandler(sm *session.Manager) *LogoutHandler {
	return &LogoutHandler{sessions: sm}
}

// Logout destroys the session and lands on the home page. Destroy never
// fails from the user's point of view.
func (h *LogoutHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Attach(r)
	h.sessions.Destroy(r, w, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
