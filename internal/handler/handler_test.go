package handler

import (
	"context"
	"html/template"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"mingle/internal/config"
	"mingle/internal/domain"
	"mingle/internal/middleware"
	"mingle/internal/session"
)

type mockAuthService struct {
	RegisterFunc func(ctx context.Context, creds domain.Credentials) (domain.User, error)
	LoginFunc    func(ctx context.Context, username domain.Username, password domain.Password) (domain.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	return m.RegisterFunc(ctx, creds)
}

func (m *mockAuthService) Login(ctx context.Context, username domain.Username, password domain.Password) (domain.User, error) {
	return m.LoginFunc(ctx, username, password)
}

type mockFeedService struct {
	FeedFunc       func(ctx context.Context, viewerId domain.UserId, page int) (*domain.Feed, error)
	CreatePostFunc func(ctx context.Context, authorId domain.UserId, text string) (domain.PostId, error)
}

func (m *mockFeedService) Feed(ctx context.Context, viewerId domain.UserId, page int) (*domain.Feed, error) {
	return m.FeedFunc(ctx, viewerId, page)
}

func (m *mockFeedService) CreatePost(ctx context.Context, authorId domain.UserId, text string) (domain.PostId, error) {
	return m.CreatePostFunc(ctx, authorId, text)
}

type mockCommentService struct {
	CreateCommentFunc func(ctx context.Context, authorId domain.UserId, postId domain.PostId, text string) (domain.CommentId, error)
}

func (m *mockCommentService) CreateComment(ctx context.Context, authorId domain.UserId, postId domain.PostId, text string) (domain.CommentId, error) {
	return m.CreateCommentFunc(ctx, authorId, postId, text)
}

type mockChatService struct {
	ConversationFunc func(ctx context.Context, viewerId, peerId domain.UserId) (*domain.Conversation, error)
	SendMessageFunc  func(ctx context.Context, senderId, peerId domain.UserId, text string) (domain.MessageId, error)
}

func (m *mockChatService) Conversation(ctx context.Context, viewerId, peerId domain.UserId) (*domain.Conversation, error) {
	return m.ConversationFunc(ctx, viewerId, peerId)
}

func (m *mockChatService) SendMessage(ctx context.Context, senderId, peerId domain.UserId, text string) (domain.MessageId, error) {
	return m.SendMessageFunc(ctx, senderId, peerId, text)
}

type mockPinger struct {
	PingFunc func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

// testTemplates builds a minimal template set so tests don't depend on the
// real files on disk.
func testTemplates(t *testing.T) map[string]*template.Template {
	t.Helper()

	const base = `{{define "base"}}{{template "content" .}}{{end}}`
	pages := map[string]string{
		"login.html":    `{{define "content"}}login page error={{.Error}} username={{.Username}}{{end}}`,
		"register.html": `{{define "content"}}register page error={{.Error}}{{end}}`,
		"feed.html":     `{{define "content"}}feed viewer={{.Viewer.Username}} posts={{len .Posts}}{{end}}`,
		"chat.html":     `{{define "content"}}chat peer={{.Peer.Username}} messages={{len .Messages}}{{end}}`,
		"error.html":    `{{define "content"}}error {{.Status}}{{end}}`,
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, content := range pages {
		tmpl, err := template.Must(template.New(name).Parse(base)).Parse(content)
		require.NoError(t, err)
		templates[name] = tmpl
	}
	return templates
}

type testDeps struct {
	auth     *mockAuthService
	feed     *mockFeedService
	comments *mockCommentService
	chat     *mockChatService
	sessions *session.Memory
}

func newTestHandler(t *testing.T, cfg config.Public) (*Handler, *testDeps) {
	t.Helper()

	if cfg.Session.TTLHours == 0 {
		cfg.Session.TTLHours = 1
	}
	deps := &testDeps{
		auth:     &mockAuthService{},
		feed:     &mockFeedService{},
		comments: &mockCommentService{},
		chat:     &mockChatService{},
		sessions: session.NewMemory(time.Hour),
	}
	h := New(
		deps.auth,
		deps.feed,
		deps.comments,
		deps.chat,
		deps.sessions,
		&mockPinger{PingFunc: func(context.Context) error { return nil }},
		testTemplates(t),
		cfg,
	)
	return h, deps
}

// testRouter mounts the handler the way the real route table does, so chi
// URL params and the auth context are populated.
func testRouter(h *Handler, sessions session.Store) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/login", h.LoginGet)
	r.Post("/login", h.LoginPost)
	r.Get("/register", h.RegisterGet)
	r.Post("/register", h.RegisterPost)
	r.Get("/logout", h.Logout)
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuth(sessions, false).RequireAuth())
		r.Get("/", h.FeedGet)
		r.Post("/posts", h.PostCreate)
		r.Post("/posts/{postId}/comments", h.CommentCreate)
		r.Get("/chat/{userId}", h.ChatGet)
		r.Post("/chat/{userId}", h.ChatPost)
	})
	return r
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}
