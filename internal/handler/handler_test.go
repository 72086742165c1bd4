package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyshelf/internal/auth"
	"storyshelf/internal/content"
	"storyshelf/internal/entity"
	"storyshelf/internal/password"
	"storyshelf/internal/session"
)

type fakeUserStore struct {
	users  map[string]entity.User
	nextID int
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (entity.User, error) {
	u, ok := f.users[email]
	if !ok {
		return entity.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Create(_ context.Context, email, passwordHash, role string) (entity.User, error) {
	if _, ok := f.users[email]; ok {
		return entity.User{}, auth.ErrEmailTaken
	}
	f.nextID++
	u := entity.User{ID: f.nextID, Email: email, PasswordHash: passwordHash, Role: role}
	f.users[email] = u
	return u, nil
}

type fakeStoryStore struct {
	stories map[int]entity.Story
	nextID  int
}

func (f *fakeStoryStore) All(context.Context) ([]entity.Story, error) {
	all := make([]entity.Story, 0, len(f.stories))
	for _, s := range f.stories {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return all, nil
}

func (f *fakeStoryStore) ByID(_ context.Context, id int) (entity.Story, error) {
	s, ok := f.stories[id]
	if !ok {
		return entity.Story{}, content.ErrNotFound
	}
	return s, nil
}

func (f *fakeStoryStore) Neighbors(_ context.Context, id int) (prev, next *entity.StoryRef, err error) {
	for _, s := range f.stories {
		if s.ID < id && (prev == nil || s.ID > prev.ID) {
			prev = &entity.StoryRef{ID: s.ID, Title: s.Title}
		}
		if s.ID > id && (next == nil || s.ID < next.ID) {
			next = &entity.StoryRef{ID: s.ID, Title: s.Title}
		}
	}
	return prev, next, nil
}

func (f *fakeStoryStore) Insert(_ context.Context, s entity.Story) (int, error) {
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt = time.Now()
	f.stories[s.ID] = s
	return s.ID, nil
}

type fixture struct {
	users    *fakeUserStore
	stories  *fakeStoryStore
	sessions *session.Manager
	auth     *auth.Service
	content  *content.Service
	errs     *ErrorPages
}

func newFixture() *fixture {
	users := &fakeUserStore{users: map[string]entity.User{}}
	stories := &fakeStoryStore{stories: map[int]entity.Story{}}
	sm := session.NewManager(session.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		users:    users,
		stories:  stories,
		sessions: sm,
		auth:     auth.NewService(users, "admin@example.com"),
		content:  content.NewService(stories),
		errs:     NewErrorPages(log),
	}
}

func (f *fixture) addUser(t *testing.T, email, pass, role string) entity.User {
	t.Helper()
	hash, err := password.Hash(pass)
	require.NoError(t, err)
	u, err := f.users.Create(context.Background(), email, hash, role)
	require.NoError(t, err)
	return u
}

func (f *fixture) loginCookies(t *testing.T, u entity.User) []*http.Cookie {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	sess := f.sessions.Attach(r)
	f.sessions.SetAuthenticated(sess, u)
	require.NoError(t, f.sessions.Save(r, w, sess))
	return w.Result().Cookies()
}

func postForm(target string, form url.Values, cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestLoginBadCredentials(t *testing.T) {
	f := newFixture()
	f.addUser(t, "reader@example.com", "longenough", entity.RoleMember)
	h := NewLoginHandler(f.auth, f.sessions, f.errs)

	w := httptest.NewRecorder()
	h.Login(w, postForm("/login", url.Values{
		"email":    {"reader@example.com"},
		"password": {"wrong password"},
	}, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email or password is incorrect.")
	assert.Contains(t, w.Body.String(), "reader@example.com", "form redisplays the entered email")
}

func TestLoginRedirectsToConsumedReturnTarget(t *testing.T) {
	f := newFixture()
	f.addUser(t, "reader@example.com", "longenough", entity.RoleMember)
	h := NewLoginHandler(f.auth, f.sessions, f.errs)

	// A guard already marked where the reader was headed.
	markReq := httptest.NewRequest(http.MethodGet, "/", nil)
	markRec := httptest.NewRecorder()
	sess := f.sessions.Attach(markReq)
	f.sessions.MarkReturnTarget(sess, "/story/9")
	require.NoError(t, f.sessions.Save(markReq, markRec, sess))

	w := httptest.NewRecorder()
	h.Login(w, postForm("/login", url.Values{
		"email":    {"reader@example.com"},
		"password": {"longenough"},
	}, markRec.Result().Cookies()))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/story/9", w.Header().Get("Location"))

	// The target was consumed; a fresh login goes home.
	follow := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		follow.AddCookie(c)
	}
	assert.Equal(t, "/", f.sessions.ConsumeReturnTarget(f.sessions.Attach(follow)))
}

func TestLoginPageRedirectsWhenAuthenticated(t *testing.T) {
	f := newFixture()
	u := f.addUser(t, "reader@example.com", "longenough", entity.RoleMember)
	h := NewLoginHandler(f.auth, f.sessions, f.errs)

	r := httptest.NewRequest(http.MethodGet, "/login", nil)
	for _, c := range f.loginCookies(t, u) {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.LoginPage(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestSignupCreatesAccountAndAuthenticates(t *testing.T) {
	f := newFixture()
	h := NewSignupHandler(f.auth, f.sessions, f.errs)

	w := httptest.NewRecorder()
	h.Signup(w, postForm("/signup", url.Values{
		"email":            {"New.Reader@Example.com"},
		"password":         {"longenough"},
		"confirm_password": {"longenough"},
	}, nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.Contains(t, f.users.users, "new.reader@example.com")

	follow := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		follow.AddCookie(c)
	}
	user, ok := f.sessions.Current(f.sessions.Attach(follow))
	require.True(t, ok, "signup logs the user in")
	assert.Equal(t, "new.reader@example.com", user.Email)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newFixture()
	f.addUser(t, "reader@example.com", "longenough", entity.RoleMember)
	h := NewSignupHandler(f.auth, f.sessions, f.errs)

	w := httptest.NewRecorder()
	h.Signup(w, postForm("/signup", url.Values{
		"email":            {" READER@example.com "},
		"password":         {"longenough"},
		"confirm_password": {"longenough"},
	}, nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "An account already exists for that email.")
}

func TestStoryPage(t *testing.T) {
	f := newFixture()
	for id, title := range map[int]string{1: "first", 3: "middle", 7: "last"} {
		f.stories.stories[id] = entity.Story{
			ID: id, Title: title, Level: entity.LevelB1,
			Summary: "s", Body: "b", CreatedAt: time.Now(),
		}
	}
	h := NewStoryHandler(f.content, f.sessions, f.errs)

	router := chi.NewRouter()
	router.Get("/story/{id}", h.StoryPage)

	t.Run("renders story with neighbors", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/story/3", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "middle")
		assert.Contains(t, body, `/story/1`)
		assert.Contains(t, body, `/story/7`)
	})

	t.Run("non-numeric id is not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/story/abc", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/story/99", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHomePage(t *testing.T) {
	f := newFixture()
	f.stories.stories[1] = entity.Story{
		ID: 1, Title: "The Fox", Level: entity.LevelA2,
		Summary: "a fox", Body: "...", CreatedAt: time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC),
	}
	h := NewHomeHandler(f.content, f.sessions, f.errs)

	w := httptest.NewRecorder()
	h.HomePage(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "The Fox")
	assert.Contains(t, body, `data-level="A2"`)
	assert.Contains(t, body, "2026-02-14")
}

func TestCreateStory(t *testing.T) {
	f := newFixture()
	admin := f.addUser(t, "admin@example.com", "longenough", entity.RoleAdmin)
	h := NewStoryFormHandler(f.content, f.sessions, f.errs)
	cookies := f.loginCookies(t, admin)

	t.Run("validation failure redisplays the form", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Create(w, postForm("/stories", url.Values{
			"title":   {"No level"},
			"level":   {"D1"},
			"summary": {"s"},
			"body":    {"b"},
		}, cookies))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Please choose a valid level (A1–C2).")
		assert.Contains(t, w.Body.String(), "No level")
		assert.Empty(t, f.stories.stories, "nothing inserted on validation failure")
	})

	t.Run("success redirects to the new story", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Create(w, postForm("/stories", url.Values{
			"title":   {"  The Owl  "},
			"level":   {" c2 "},
			"summary": {"an owl"},
			"body":    {"hoot"},
		}, cookies))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/story/1", w.Header().Get("Location"))

		stored := f.stories.stories[1]
		assert.Equal(t, "The Owl", stored.Title)
		assert.Equal(t, entity.LevelC2, stored.Level)
		assert.Equal(t, admin.ID, stored.AuthorID)
	})
}

func TestLogout(t *testing.T) {
	f := newFixture()
	u := f.addUser(t, "reader@example.com", "longenough", entity.RoleMember)
	h := NewLogoutHandler(f.sessions)

	r := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range f.loginCookies(t, u) {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.Logout(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}
