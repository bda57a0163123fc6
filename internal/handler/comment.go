package handler

import (
	stderrors "errors"
	"net/http"

	"mingle/internal/errors"
	"mingle/internal/logger"
	"mingle/internal/middleware"
)

// CommentCreate appends a comment and sends the browser back to the feed.
// An unresolved post id and empty content both degrade to a plain redirect.
func (h *Handler) CommentCreate(w http.ResponseWriter, r *http.Request) {
	userId, ok := middleware.UserIdFromContext(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	postId, err := parseIntParam(r, "postId")
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err == nil {
		_, err := h.comments.CreateComment(r.Context(), userId, postId, r.PostFormValue("text"))
		if err != nil && !stderrors.Is(err, errors.ErrEmptyContent) && !errors.IsNotFound(err) {
			logger.Log.Error("comment create failed", "userId", userId, "postId", postId, "error", err)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
