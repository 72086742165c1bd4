package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"storyshelf/internal/session"
)

// Guard gates route entry on session state. Handlers behind a guard never
// re-check authorization.
type Guard struct {
	sessions  *session.Manager
	forbidden http.HandlerFunc
	log       *slog.Logger
}

func NewGuard(sm *session.Manager, forbidden http.HandlerFunc, log *slog.Logger) *Guard {
	return &Guard{sessions: sm, forbidden: forbidden, log: log}
}

// RequireAuth lets authenticated requests through; anonymous ones are sent
// to the login page with the original path remembered for after login.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := g.sessions.Attach(r)
		if _, ok := g.sessions.Current(sess); !ok {
			g.redirectToLogin(w, r, sess)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin behaves like RequireAuth for anonymous requests. An
// authenticated non-admin gets a plain 403: re-authenticating would not fix
// authorization, so there is no redirect and no return target.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := g.sessions.Attach(r)
		user, ok := g.sessions.Current(sess)
		if !ok {
			g.redirectToLogin(w, r, sess)
			return
		}
		if !user.IsAdmin() {
			g.forbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Guard) redirectToLogin(w http.ResponseWriter, r *http.Request, sess *sessions.Session) {
	g.sessions.MarkReturnTarget(sess, r.URL.RequestURI())
	if err := g.sessions.Save(r, w, sess); err != nil {
		g.log.Error("save session", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
