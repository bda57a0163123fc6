package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"mingle/internal/domain"
	"mingle/internal/errors"
	"mingle/internal/logger"
	"mingle/internal/middleware"
)

type loginForm struct {
	Username string `validate:"required,max=32"`
	Password string `validate:"required,max=72"`
}

type registerForm struct {
	Username string `validate:"required,max=32"`
	Email    string `validate:"omitempty,email,max=254"`
	Password string `validate:"required,max=72"`
}

// authView feeds the login and register templates. Entered values are echoed
// back so a failed submit doesn't wipe the form.
type authView struct {
	Username     string
	Email        string
	RequireEmail bool
	Error        string
}

func (h *Handler) LoginGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login.html", authView{Error: h.popFlash(w, r)})
}

func (h *Handler) LoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "login.html", authView{Error: "Bad request"})
		return
	}
	form := loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validate.Struct(form); err != nil {
		h.render(w, http.StatusBadRequest, "login.html", authView{
			Username: form.Username,
			Error:    "Username and password are required",
		})
		return
	}

	user, err := h.auth.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		status := errors.StatusCode(err)
		message := err.Error()
		if status >= http.StatusInternalServerError {
			logger.Log.Error("login failed", "username", form.Username, "error", err)
			message = "Something went wrong, please try again"
		}
		h.render(w, status, "login.html", authView{Username: form.Username, Error: message})
		return
	}

	h.establishSession(w, r, user.Id)
}

func (h *Handler) RegisterGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "register.html", authView{
		RequireEmail: h.cfg.Auth.RequireEmail,
		Error:        h.popFlash(w, r),
	})
}

func (h *Handler) RegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "register.html", authView{
			RequireEmail: h.cfg.Auth.RequireEmail,
			Error:        "Bad request",
		})
		return
	}
	form := registerForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if message, ok := h.validateRegistration(form); !ok {
		h.render(w, http.StatusBadRequest, "register.html", authView{
			Username:     form.Username,
			Email:        form.Email,
			RequireEmail: h.cfg.Auth.RequireEmail,
			Error:        message,
		})
		return
	}

	user, err := h.auth.Register(r.Context(), domain.Credentials{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		status := errors.StatusCode(err)
		message := err.Error()
		if status >= http.StatusInternalServerError {
			logger.Log.Error("registration failed", "username", form.Username, "error", err)
			message = "Something went wrong, please try again"
		}
		h.render(w, status, "register.html", authView{
			Username:     form.Username,
			Email:        form.Email,
			RequireEmail: h.cfg.Auth.RequireEmail,
			Error:        message,
		})
		return
	}

	h.establishSession(w, r, user.Id)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			logger.Log.Error("session destroy failed", "error", err)
		}
	}
	middleware.ClearSessionCookie(w, h.cfg.SecureCookies)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// establishSession binds a session to the user, sets the cookie and sends
// the browser to the feed.
func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, userId domain.UserId) {
	token, err := h.sessions.Create(r.Context(), userId)
	if err != nil {
		logger.Log.Error("session create failed", "userId", userId, "error", err)
		h.renderError(w, http.StatusInternalServerError)
		return
	}
	middleware.SetSessionCookie(w, token, h.cfg.Session.TTL(), h.cfg.SecureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) validateRegistration(form registerForm) (string, bool) {
	if err := h.validate.Struct(form); err != nil {
		var fieldErrors validator.ValidationErrors
		if stderrors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			return registrationMessage(fieldErrors[0]), false
		}
		return "Invalid input", false
	}
	if h.cfg.Auth.RequireEmail {
		if err := h.validate.Var(form.Email, "required,email"); err != nil {
			return "A valid email is required", false
		}
	}
	return "", true
}

func registrationMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Username":
		return "Username is required"
	case "Password":
		return "Password is required"
	case "Email":
		return "A valid email is required"
	}
	return "Invalid input"
}
