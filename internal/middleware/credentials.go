package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/jayjaytrn/grocemate/models"
	"go.uber.org/zap"
)

// ValidateCredentials rejects auth bodies without email and password and
// hands the handler a body with the email trimmed and lower-cased.
func ValidateCredentials(h http.Handler, sugar *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if contentType != "application/json" {
			sugar.Debugw("wrong content type", "content_type", r.Header.Get("Content-Type"))
			writeMessage(w, http.StatusBadRequest, "Content-Type must be application/json")
			return
		}

		var credentials models.Credentials
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			sugar.Debugw("error decoding credentials", "error", err)
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		credentials.Email = strings.ToLower(strings.TrimSpace(credentials.Email))
		if credentials.Email == "" || credentials.Password == "" {
			writeMessage(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		bodyBytes, err := json.Marshal(credentials)
		if err != nil {
			sugar.Errorw("error serializing credentials", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Server error")
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		r.ContentLength = int64(len(bodyBytes))

		h.ServeHTTP(w, r)
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
