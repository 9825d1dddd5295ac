package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jayjaytrn/grocemate/models"
)

type roleRequest struct {
	Role models.Role `json:"role"`
}

func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Database.ListUsers(r.Context())
	if err != nil {
		h.respondError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials
	if !decodeJSON(w, r, &credentials) {
		return
	}

	role := credentials.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		writeMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, ok := h.createUser(w, r, credentials, role)
	if !ok {
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) AdminUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Role == "" {
		writeMessage(w, http.StatusBadRequest, "Role is required")
		return
	}
	if !req.Role.Valid() {
		writeMessage(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.Database.UpdateUserRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		h.respondError(w, err, "User not found")
		return
	}

	h.Logger.Infow("user role changed", "uuid", user.UUID, "role", user.Role, "by", currentUser(r))
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Database.DeleteUser(r.Context(), id); err != nil {
		h.respondError(w, err, "User not found")
		return
	}

	h.Logger.Infow("user deleted", "uuid", id, "by", currentUser(r))
	writeMessage(w, http.StatusOK, "User deleted successfully")
}
