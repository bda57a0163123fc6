package handler

import (
	stderrors "errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"mingle/internal/domain"
	"mingle/internal/errors"
	"mingle/internal/logger"
	"mingle/internal/middleware"
)

type chatView struct {
	Viewer   domain.User
	Peer     domain.User
	Messages []messageView
}

type messageView struct {
	Mine    bool
	Author  string
	Created time.Time
	Body    template.HTML
}

func (h *Handler) ChatGet(w http.ResponseWriter, r *http.Request) {
	userId, ok := middleware.UserIdFromContext(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	peerId, err := parseIntParam(r, "userId")
	if err != nil || peerId == userId {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	conversation, err := h.chat.Conversation(r.Context(), userId, peerId)
	if err != nil {
		if errors.IsNotFound(err) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		logger.Log.Error("conversation load failed", "userId", userId, "peerId", peerId, "error", err)
		h.renderError(w, errors.StatusCode(err))
		return
	}

	h.render(w, http.StatusOK, "chat.html", h.conversationToView(conversation))
}

func (h *Handler) ChatPost(w http.ResponseWriter, r *http.Request) {
	userId, ok := middleware.UserIdFromContext(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	peerId, err := parseIntParam(r, "userId")
	if err != nil || peerId == userId {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err == nil {
		_, err := h.chat.SendMessage(r.Context(), userId, peerId, r.PostFormValue("text"))
		if err != nil {
			if errors.IsNotFound(err) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			if !stderrors.Is(err, errors.ErrEmptyContent) {
				logger.Log.Error("message send failed", "userId", userId, "peerId", peerId, "error", err)
			}
		}
	}
	http.Redirect(w, r, fmt.Sprintf("/chat/%d", peerId), http.StatusSeeOther)
}

func (h *Handler) conversationToView(conversation *domain.Conversation) chatView {
	view := chatView{
		Viewer:   conversation.Viewer,
		Peer:     conversation.Peer,
		Messages: make([]messageView, 0, len(conversation.Messages)),
	}
	for _, message := range conversation.Messages {
		view.Messages = append(view.Messages, messageView{
			Mine:    message.Sender.Id == conversation.Viewer.Id,
			Author:  message.Sender.Username,
			Created: message.CreatedAt,
			Body:    h.text.Render(message.Text),
		})
	}
	return view
}
