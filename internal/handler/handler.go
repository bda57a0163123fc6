package handler

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"mingle/internal/config"
	"mingle/internal/markdown"
	"mingle/internal/service"
	"mingle/internal/session"
)

// Pinger is the slice of the storage layer the readiness probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth     service.AuthService
	feed     service.FeedService
	comments service.CommentService
	chat     service.ChatService

	sessions  session.Store
	db        Pinger
	text      *markdown.TextProcessor
	templates map[string]*template.Template
	validate  *validator.Validate
	cfg       config.Public
}

func New(
	auth service.AuthService,
	feed service.FeedService,
	comments service.CommentService,
	chat service.ChatService,
	sessions session.Store,
	db Pinger,
	templates map[string]*template.Template,
	cfg config.Public,
) *Handler {
	return &Handler{
		auth:      auth,
		feed:      feed,
		comments:  comments,
		chat:      chat,
		sessions:  sessions,
		db:        db,
		text:      markdown.New(),
		templates: templates,
		validate:  validator.New(),
		cfg:       cfg,
	}
}

func parseIntParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
