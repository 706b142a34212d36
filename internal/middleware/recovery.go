package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"orgflow-backend/pkg/utils"
)

// PanicRecovery turns a handler panic into a 500 response instead of
// tearing down the whole server
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[HTTP] panic on %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
