// Package setup wires configuration into concrete dependencies.
package setup

import (
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/redis/go-redis/v9"

	"mingle/internal/config"
	"mingle/internal/handler"
	"mingle/internal/middleware"
	"mingle/internal/service"
	"mingle/internal/session"
	"mingle/internal/storage/pg"
)

type Dependencies struct {
	Storage *pg.Storage
	Handler *handler.Handler
	Auth    *middleware.Auth
}

func Setup(cfg *config.Config, templatesDir string) (*Dependencies, error) {
	storage, err := pg.New(cfg.Public.Pg)
	if err != nil {
		return nil, fmt.Errorf("storage setup failed: %w", err)
	}

	sessions, err := newSessionStore(cfg)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	templates, err := loadTemplates(templatesDir)
	if err != nil {
		storage.Cleanup()
		return nil, err
	}

	h := handler.New(
		service.NewAuth(storage, cfg.Public.Auth),
		service.NewFeed(storage, cfg.Public.Feed.PageSize),
		service.NewComment(storage),
		service.NewChat(storage),
		sessions,
		storage,
		templates,
		cfg.Public,
	)

	return &Dependencies{
		Storage: storage,
		Handler: h,
		Auth:    middleware.NewAuth(sessions, cfg.Public.SecureCookies),
	}, nil
}

func newSessionStore(cfg *config.Config) (session.Store, error) {
	ttl := cfg.Public.Session.TTL()

	switch cfg.Public.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Public.Redis.Addr,
			Password: cfg.Public.Redis.Password,
			DB:       cfg.Public.Redis.DB,
		})
		return session.NewRedis(client, ttl), nil
	case "memory":
		return session.NewMemory(ttl), nil
	case "jwt":
		if cfg.Private.SessionSecret == "" {
			return nil, fmt.Errorf("session backend jwt requires session_secret")
		}
		return session.NewJWT(cfg.Private.SessionSecret, ttl), nil
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.Public.Session.Backend)
}

// loadTemplates parses every page against the shared base layout, keyed by
// file name.
func loadTemplates(dir string) (map[string]*template.Template, error) {
	base := filepath.Join(dir, "base.html")
	pages, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to list templates in %s: %w", dir, err)
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		name := filepath.Base(page)
		if name == "base.html" {
			continue
		}
		tmpl, err := template.ParseFiles(base, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("no templates found in %s", dir)
	}
	return templates, nil
}
