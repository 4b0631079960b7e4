package httpx

import (
	"log"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware turns a panic into a 500 JSON error. It must sit inside
// AccessLogMiddleware so it can tell whether a response was already started.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered: request_id=%s error=%v stack=%s", RequestIDFrom(r), err, string(debug.Stack()))

				if rw, ok := w.(*statusRecorder); ok && rw.headerWritten {
					return
				}
				JSONError(w, http.StatusInternalServerError, "An internal error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
