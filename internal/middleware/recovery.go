package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"fintrack-backend/pkg/utils"
)

func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC RECOVERED: %v\n%s", err, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "Something went wrong!")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
