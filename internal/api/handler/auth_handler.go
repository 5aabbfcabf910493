package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"userhub/internal/api/middleware"
	"userhub/internal/api/view"
	"userhub/internal/app/service"
	"userhub/internal/common"
	"userhub/internal/domain/model"
)

type AuthHandler struct {
	auth       *service.AuthService
	renderer   *view.Renderer
	logger     *slog.Logger
	sessionTTL time.Duration
}

func NewAuthHandler(auth *service.AuthService, renderer *view.Renderer, logger *slog.Logger, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, renderer: renderer, logger: logger, sessionTTL: sessionTTL}
}

// RegisterRoutes mounts the public routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.index)
	r.Get("/login", h.loginForm)
	r.Post("/login", h.login)
	r.Get("/register", h.registerForm)
	r.Post("/register", h.register)
}

// RegisterProtectedRoutes mounts the session-gated routes.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/logout", h.logout)
}

func (h *AuthHandler) index(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "index", &view.Data{Title: "Welcome"})
}

func (h *AuthHandler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login", &view.Data{Title: "Login"})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, http.StatusBadRequest, "login", &view.Data{
			Title:     "Login",
			FormError: "Invalid form submission",
		})
		return
	}

	req := service.LoginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	user, token, err := h.auth.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrUnauthenticated) {
			// Deliberately does not say which of the two was wrong.
			h.renderer.Render(w, http.StatusUnauthorized, "login", &view.Data{
				Title:     "Login",
				FormError: "Invalid username or password",
				FormData:  map[string]string{"username": req.Username},
			})
			return
		}
		h.logger.ErrorContext(r.Context(), "login failed", slog.Any("error", err))
		h.renderer.ServerError(w)
		return
	}

	setSessionCookie(w, token, h.sessionTTL)

	if user.IsAdmin() {
		http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) registerForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "register", &view.Data{
		Title:     "Register",
		Countries: model.Countries,
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, http.StatusBadRequest, "register", &view.Data{
			Title:     "Register",
			FormError: "Invalid form submission",
			Countries: model.Countries,
		})
		return
	}

	req := service.RegisterRequest{
		Username:    r.PostFormValue("username"),
		Email:       r.PostFormValue("email"),
		Password:    r.PostFormValue("password"),
		Nationality: r.PostFormValue("nationality"),
	}
	// Submitted values minus the password, to re-fill the form on failure.
	formData := map[string]string{
		"username":    req.Username,
		"email":       req.Email,
		"nationality": req.Nationality,
	}

	if _, err := h.auth.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, common.ErrValidation):
			h.renderer.Render(w, http.StatusBadRequest, "register", &view.Data{
				Title:     "Register",
				Fields:    common.FieldErrors(err),
				FormData:  formData,
				Countries: model.Countries,
			})
		case errors.Is(err, common.ErrConflict):
			h.renderer.Render(w, http.StatusConflict, "register", &view.Data{
				Title:     "Register",
				FormError: "Username or email already taken",
				FormData:  formData,
				Countries: model.Countries,
			})
		default:
			h.logger.ErrorContext(r.Context(), "registration failed", slog.Any("error", err))
			h.renderer.ServerError(w)
		}
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, http.StatusOK, "dashboard", &view.Data{
		Title:    "Dashboard",
		Username: user.Username,
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), middleware.SessionToken(r)); err != nil {
		// The cookie is cleared regardless; the stored session will expire.
		h.logger.ErrorContext(r.Context(), "logout failed", slog.Any("error", err))
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
