package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

const maxBodyBytes = 1 << 20

// NewRouter serves the handler over plain HTTP for local runs.
func NewRouter(h *Handler, opts httplog.Options) http.Handler {
	accessLog := httplog.NewLogger("task-agent", opts)

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(accessLog))
	r.Use(middleware.Recoverer)

	r.Post("/agent", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodyBytes))
		if err != nil {
			writeReply(w, reply(http.StatusBadRequest, msgInvalidBody))
			return
		}
		writeReply(w, h.Handle(req.Context(), string(body)))
	})
	r.Get("/tasks", func(w http.ResponseWriter, req *http.Request) {
		writeReply(w, h.ListTasks(req.Context()))
	})
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeReply(w, reply(http.StatusOK, "ok"))
	})
	r.Options("/*", func(w http.ResponseWriter, req *http.Request) {
		writeReply(w, Reply{StatusCode: http.StatusNoContent})
	})

	return r
}

func writeReply(w http.ResponseWriter, r Reply) {
	for k, v := range Headers() {
		w.Header().Set(k, v)
	}
	w.WriteHeader(r.StatusCode)
	if r.Body != "" {
		_, _ = io.WriteString(w, r.Body)
	}
}
