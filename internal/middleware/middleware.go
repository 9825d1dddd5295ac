package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// Conveyor applies middlewares in order, so the last one listed is the
// outermost and sees the request first.
func Conveyor(h http.Handler, sugar *zap.SugaredLogger, middlewares ...Middleware) http.Handler {
	wrapped := h
	for _, mw := range middlewares {
		wrapped = mw(wrapped, sugar)
	}
	return wrapped
}
