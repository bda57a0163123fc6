package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"mingle/internal/config"
	"mingle/internal/domain"
	"mingle/internal/errors"
)

func TestChatGetRendersConversation(t *testing.T) {
	h, deps := newTestHandler(t, config.Public{})
	deps.chat.ConversationFunc = func(_ context.Context, viewerId, peerId domain.UserId) (*domain.Conversation, error) {
		assert.Equal(t, domain.UserId(1), viewerId)
		assert.Equal(t, domain.UserId(2), peerId)
		return &domain.Conversation{
			Viewer: domain.User{Id: 1, Username: "alice"},
			Peer:   domain.User{Id: 2, Username: "bob"},
			Messages: []*domain.Message{
				{Id: 1, Sender: domain.User{Id: 1, Username: "alice"}, Text: "hi"},
				{Id: 2, Sender: domain.User{Id: 2, Username: "bob"}, Text: "hello"},
			},
		}, nil
	}
	router := testRouter(h, deps.sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, deps, http.MethodGet, "/chat/2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "peer=bob")
	assert.Contains(t, rec.Body.String(), "messages=2")
}

func TestChatGetUnknownPeerRedirects(t *testing.T) {
	h, deps := newTestHandler(t, config.Public{})
	deps.chat.ConversationFunc = func(context.Context, domain.UserId, domain.UserId) (*domain.Conversation, error) {
		return nil, &errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	}
	router := testRouter(h, deps.sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, deps, http.MethodGet, "/chat/999", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestChatGetSelfRedirects(t *testing.T) {
	h, deps := newTestHandler(t, config.Public{})
	deps.chat.ConversationFunc = func(context.Context, domain.UserId, domain.UserId) (*domain.Conversation, error) {
		t.Fatal("service must not be called for a self conversation")
		return nil, nil
	}
	router := testRouter(h, deps.sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, deps, http.MethodGet, "/chat/1", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestChatPostRedirectsBack(t *testing.T) {
	h, deps := newTestHandler(t, config.Public{})
	deps.chat.SendMessageFunc = func(_ context.Context, senderId, peerId domain.UserId, text string) (domain.MessageId, error) {
		assert.Equal(t, domain.UserId(1), senderId)
		assert.Equal(t, domain.UserId(2), peerId)
		assert.Equal(t, "hey", text)
		return 1, nil
	}
	router := testRouter(h, deps.sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, deps, http.MethodPost, "/chat/2", url.Values{"text": {"hey"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/chat/2", rec.Header().Get("Location"))
}

func TestChatPostEmptyRedirectsBack(t *testing.T) {
	h, deps := newTestHandler(t, config.Public{})
	deps.chat.SendMessageFunc = func(context.Context, domain.UserId, domain.UserId, string) (domain.MessageId, error) {
		return 0, errors.ErrEmptyContent
	}
	router := testRouter(h, deps.sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, deps, http.MethodPost, "/chat/2", url.Values{"text": {"  "}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/chat/2", rec.Header().Get("Location"))
}

func TestChatPostUnknownRecipientRedirectsHome(t *testing.T) {
	h, deps := newTestHandler(t, config.Public{})
	deps.chat.SendMessageFunc = func(context.Context, domain.UserId, domain.UserId, string) (domain.MessageId, error) {
		return 0, &errors.ErrorWithStatusCode{Message: "Recipient not found", StatusCode: http.StatusNotFound}
	}
	router := testRouter(h, deps.sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, deps, http.MethodPost, "/chat/999", url.Values{"text": {"hello?"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	h, deps := newTestHandler(t, config.Public{})
	router := testRouter(h, deps.sessions)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
