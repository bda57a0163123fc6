package handler

import (
	stderrors "errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"mingle/internal/domain"
	"mingle/internal/errors"
	"mingle/internal/logger"
	"mingle/internal/middleware"
)

type feedView struct {
	Viewer   domain.User
	Others   []domain.User
	Posts    []postView
	Page     int
	HasMore  bool
	NextPage int
	PrevPage int
}

type postView struct {
	Id       domain.PostId
	Author   string
	Created  time.Time
	Body     template.HTML
	Comments []commentView
}

type commentView struct {
	Author  string
	Created time.Time
	Body    template.HTML
}

func (h *Handler) FeedGet(w http.ResponseWriter, r *http.Request) {
	userId, ok := middleware.UserIdFromContext(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	feed, err := h.feed.Feed(r.Context(), userId, page)
	if err != nil {
		if errors.IsNotFound(err) {
			// session points at a user that no longer exists
			middleware.ClearSessionCookie(w, h.cfg.SecureCookies)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		logger.Log.Error("feed load failed", "userId", userId, "error", err)
		h.renderError(w, errors.StatusCode(err))
		return
	}

	h.render(w, http.StatusOK, "feed.html", h.feedToView(feed))
}

func (h *Handler) PostCreate(w http.ResponseWriter, r *http.Request) {
	userId, ok := middleware.UserIdFromContext(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err == nil {
		_, err := h.feed.CreatePost(r.Context(), userId, r.PostFormValue("text"))
		if err != nil && !stderrors.Is(err, errors.ErrEmptyContent) {
			logger.Log.Error("post create failed", "userId", userId, "error", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) feedToView(feed *domain.Feed) feedView {
	view := feedView{
		Viewer:   feed.Viewer,
		Others:   feed.Others,
		Posts:    make([]postView, 0, len(feed.Posts)),
		Page:     feed.Page,
		HasMore:  feed.HasMore,
		NextPage: feed.Page + 1,
		PrevPage: feed.Page - 1,
	}
	for _, post := range feed.Posts {
		pv := postView{
			Id:       post.Id,
			Author:   post.Author.Username,
			Created:  post.CreatedAt,
			Body:     h.text.Render(post.Text),
			Comments: make([]commentView, 0, len(post.Comments)),
		}
		for _, comment := range post.Comments {
			pv.Comments = append(pv.Comments, commentView{
				Author:  comment.Author.Username,
				Created: comment.CreatedAt,
				Body:    h.text.Render(comment.Text),
			})
		}
		view.Posts = append(view.Posts, pv)
	}
	return view
}
