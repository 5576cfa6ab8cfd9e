// Package recoverer provides a middleware that turns handler panics into
// problem details responses.
package recoverer

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/vadimbarashkov/shortlinks/pkg/problem"
)

// New returns a middleware that recovers from panics, logs them with logger
// and replies with a generic 500 problem.
func New(logger *slog.Logger) func(http.Handler) http.Handler {
	const op = "middleware.recoverer.New"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error(
					"something went wrong, panic occurred",
					slog.Group(op,
						slog.Any("err", rec),
						slog.String("stack", string(debug.Stack())),
					),
				)

				_ = problem.Write(w, problem.New(
					http.StatusInternalServerError,
					"InfrastructureError",
					"an internal error occurred",
				))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
