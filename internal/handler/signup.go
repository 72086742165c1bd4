package handler

import (
	"errors"
	"html/template"
	"net/http"

	"storyshelf/internal/auth"
	"storyshelf/internal/session"
	"storyshelf/internal/templates"
)

type SignupHandler struct {
	auth     *auth.Service
	sessions *session.Manager
	errs     *ErrorPages
	tmpl     *template.Template
}

func NewSignupHandler(authSvc *auth.Service, sm *session.Manager, errs *ErrorPages) *SignupHandler {
	return &SignupHandler{
		auth:     authSvc,
		sessions: sm,
		errs:     errs,
		tmpl:     templates.Lookup("signup.html"),
	}
}

func (h *SignupHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Attach(r)
	if _, ok := h.sessions.Current(sess); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, http.StatusOK, authFormData{Values: map[string]string{"email": ""}})
}

func (h *SignupHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	sess := h.sessions.Attach(r)

	user, err := h.auth.SignUp(
		r.Context(),
		r.FormValue("email"),
		r.FormValue("password"),
		r.FormValue("confirm_password"),
	)
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		h.render(w, http.StatusBadRequest, authFormData{Error: verr.Message, Values: verr.Values})
		return
	}
	if err != nil {
		h.errs.ServerError(w, r, err)
		return
	}

	h.sessions.SetAuthenticated(sess, user)
	target := h.sessions.ConsumeReturnTarget(sess)
	if err := h.sessions.Save(r, w, sess); err != nil {
		h.errs.ServerError(w, r, err)
		return
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *SignupHandler) render(w http.ResponseWriter, status int, data authFormData) {
	w.WriteHeader(status)
	if err := h.tmpl.Execute(w, data); err != nil {
		h.errs.log.Error("render signup", "error", err)
	}
}
