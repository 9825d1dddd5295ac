package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jayjaytrn/grocemate/internal/auth"
	"github.com/jayjaytrn/grocemate/internal/db"
)

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Database.GetUserByID(r.Context(), currentUser(r))
	if err != nil {
		h.respondError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err, map[string]string{"Email": "Valid email is required"}))
		return
	}

	user, err := h.Database.UpdateUserProfile(r.Context(), currentUser(r), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			writeMessage(w, http.StatusConflict, "Email is already in use")
			return
		}
		h.respondError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch {
	case req.CurrentPassword == "" || req.NewPassword == "":
		writeMessage(w, http.StatusBadRequest, "Current password and new password are required")
		return
	case len(req.NewPassword) < 6:
		writeMessage(w, http.StatusBadRequest, "New password must be at least 6 characters")
		return
	case req.NewPassword == req.CurrentPassword:
		writeMessage(w, http.StatusBadRequest, "New password must be different from the current password")
		return
	}

	user, err := h.Database.GetUserByID(r.Context(), currentUser(r))
	if err != nil {
		h.respondError(w, err, "User not found")
		return
	}

	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		writeMessage(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.Logger.Errorw("password encryption error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err = h.Database.UpdateUserPassword(r.Context(), user.UUID, hash); err != nil {
		h.respondError(w, err, "User not found")
		return
	}

	writeMessage(w, http.StatusOK, "Password changed successfully")
}

// UpdateAvatar stores the path of an already uploaded image.
func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	var req avatarRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	avatar := strings.TrimSpace(req.Avatar)
	if avatar == "" {
		writeMessage(w, http.StatusBadRequest, "Avatar is required")
		return
	}

	user, err := h.Database.UpdateUserAvatar(r.Context(), currentUser(r), avatar)
	if err != nil {
		h.respondError(w, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

