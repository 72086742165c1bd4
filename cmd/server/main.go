package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"

	"storyshelf/internal/auth"
	"storyshelf/internal/config"
	"storyshelf/internal/content"
	"storyshelf/internal/database"
	"storyshelf/internal/handler"
	"storyshelf/internal/middleware"
	"storyshelf/internal/repository"
	"storyshelf/internal/session"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Error("migrate database", "error", err)
		os.Exit(1)
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		log.Warn("SESSION_SECRET not set, sessions will not survive a restart")
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			log.Error("generate session key failed")
			os.Exit(1)
		}
	}
	sessions := session.NewManager(session.NewCookieStore(secret))

	authSvc := auth.NewService(repository.NewUserRepository(db), auth.NormalizeEmail(cfg.AdminEmail))
	stories := content.NewService(repository.NewStoryRepository(db))

	errs := handler.NewErrorPages(log)
	guard := middleware.NewGuard(sessions, errs.Forbidden, log)

	home := handler.NewHomeHandler(stories, sessions, errs)
	story := handler.NewStoryHandler(stories, sessions, errs)
	storyForm := handler.NewStoryFormHandler(stories, sessions, errs)
	login := handler.NewLoginHandler(authSvc, sessions, errs)
	signup := handler.NewSignupHandler(authSvc, sessions, errs)
	logout := handler.NewLogoutHandler(sessions)
	about := handler.NewAboutHandler(sessions, errs)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth)
		r.Get("/", home.HomePage)
		r.Get("/story/{id}", story.StoryPage)
	})

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAdmin)
		r.Get("/stories/new", storyForm.NewStoryPage)
		r.Post("/stories", storyForm.Create)
	})

	r.Get("/about", about.AboutPage)
	r.Get("/signup", signup.SignupPage)
	r.Post("/signup", signup.Signup)
	r.Get("/login", login.LoginPage)
	r.Post("/login", login.Login)
	r.Post("/logout", logout.Logout)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.NotFound(errs.NotFound)

	log.Info("server listening", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
