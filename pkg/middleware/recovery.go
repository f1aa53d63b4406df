package middleware

import (
	"net/http"
	"runtime/debug"

	"escapedia/pkg/logger"
)

const internalErrorPage = `<!doctype html><html lang="es"><head><meta charset="utf-8"><title>Escapedia</title></head>` +
	`<body><h1>Algo ha ido mal</h1><p>Inténtalo de nuevo en unos minutos.</p><p><a href="/">Volver al inicio</a></p></body></html>`

func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					log.Error("Panic recovered",
						"request_id", RequestID(r.Context()),
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(internalErrorPage))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
