package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"userhub/internal/api/middleware"
	"userhub/internal/api/view"
	"userhub/internal/app/service"
	"userhub/internal/common"
	"userhub/internal/domain/repository"
)

type AdminHandler struct {
	admin    *service.AdminService
	renderer *view.Renderer
	logger   *slog.Logger
}

func NewAdminHandler(admin *service.AdminService, renderer *view.Renderer, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, renderer: renderer, logger: logger}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.listUsers)
	r.Get("/users/export", h.exportUsers)
}

// listFilterFromQuery maps the listing query parameters onto a filter:
// search is the case-insensitive substring match, the rest are exact.
func listFilterFromQuery(r *http.Request) repository.ListFilter {
	q := r.URL.Query()
	return repository.ListFilter{
		Username:    q.Get("username"),
		Email:       q.Get("email"),
		Nationality: q.Get("nationality"),
		Search:      q.Get("search"),
	}
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)

	users, err := h.admin.ListUsers(r.Context(), middleware.SessionToken(r), filter)
	if err != nil {
		h.denyOrFail(w, r, err)
		return
	}

	username := ""
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		username = user.Username
	}

	h.renderer.Render(w, http.StatusOK, "admin_users", &view.Data{
		Title:    "Users",
		Username: username,
		Users:    users,
		Query: map[string]string{
			"search":      filter.Search,
			"username":    filter.Username,
			"email":       filter.Email,
			"nationality": filter.Nationality,
		},
	})
}

// exportUsers serves the same listing as JSON. The payload rows are the
// admin view-model, so password fields cannot appear.
func (h *AdminHandler) exportUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context(), middleware.SessionToken(r), listFilterFromQuery(r))
	if err != nil {
		if errors.Is(err, common.ErrUnauthenticated) || errors.Is(err, common.ErrForbidden) {
			common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "export users failed", slog.Any("error", err))
		common.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) denyOrFail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, common.ErrForbidden):
		h.renderer.Forbidden(w)
	default:
		h.logger.ErrorContext(r.Context(), "admin listing failed", slog.Any("error", err))
		h.renderer.ServerError(w)
	}
}
