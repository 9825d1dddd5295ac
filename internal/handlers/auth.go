package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jayjaytrn/grocemate/internal/auth"
	"github.com/jayjaytrn/grocemate/internal/db"
	"github.com/jayjaytrn/grocemate/models"
)

type newUserRequest struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

var newUserMessages = map[string]string{
	"Name":     "Name is required",
	"Email":    "Valid email is required",
	"Password": "Password must be at least 6 characters",
}

type registerResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

// Register creates a shopper account. The role in the body is ignored.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials
	if !decodeJSON(w, r, &credentials) {
		return
	}

	user, ok := h.createUser(w, r, credentials, models.RoleUser)
	if !ok {
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User:    user,
	})
}

// createUser validates and stores a new account and writes the error
// response itself when it fails.
func (h *Handler) createUser(w http.ResponseWriter, r *http.Request, credentials models.Credentials, role models.Role) (models.User, bool) {
	req := newUserRequest{
		Name:     strings.TrimSpace(credentials.Name),
		Email:    strings.ToLower(strings.TrimSpace(credentials.Email)),
		Password: credentials.Password,
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err, newUserMessages))
		return models.User{}, false
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.Logger.Errorw("password encryption error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return models.User{}, false
	}

	now := time.Now().UTC()
	user := models.User{
		UUID:      uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  hash,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err = h.Database.PutUniqueUserData(r.Context(), user); err != nil {
		if errors.Is(err, db.ErrConflict) {
			writeMessage(w, http.StatusConflict, "User already exists")
			return models.User{}, false
		}
		h.respondError(w, err, "User not found")
		return models.User{}, false
	}

	h.Logger.Infow("user registered", "uuid", user.UUID, "role", user.Role)
	return user, true
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var credentials models.Credentials
	if !decodeJSON(w, r, &credentials) {
		return
	}

	user, err := h.Database.GetUserData(r.Context(), strings.ToLower(strings.TrimSpace(credentials.Email)))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.respondError(w, err, "User not found")
		return
	}

	if !auth.CheckPassword(user.Password, credentials.Password) {
		h.Logger.Debugw("invalid password", "uuid", user.UUID)
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if credentials.Role != "" && credentials.Role != user.Role {
		writeMessage(w, http.StatusForbidden, "Access denied for this role")
		return
	}

	token, err := auth.BuildJWT(h.Config.JWTSecret, h.Config.TokenTTL, user.UUID, user.Role)
	if err != nil {
		h.Logger.Errorw("error building JWT", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: user})
}
