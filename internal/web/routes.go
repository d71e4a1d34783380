package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router returns the HTTP handler for every page.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Get("/log", s.handleLogForm)
	r.Post("/log", s.handleLogMemory)
	r.Get("/search", s.handleSearch)
	r.Post("/search", s.handleSearch)
	r.Get("/random_memory", s.handleRandomMemory)

	r.Get("/todo", s.handleTodos)
	r.Post("/todo", s.handleCreateTodo)
	r.Get("/todo/done/{id}", s.handleMarkDone)
	r.Post("/todo/delete/{id}", s.handleDeleteTodo)

	r.Get("/ideas", s.handleIdeas)
	r.Post("/ideas", s.handleCreateIdea)
	r.Post("/delete/{id}", s.handleDeleteIdea)

	r.Post("/ai-query", s.handleAIQuery)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, http.StatusNotFound, "That page does not exist.")
	})

	return r
}

// logRequests logs method, path, status and duration for each request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Printf("http: %s %s %d %s id=%s",
			r.Method, r.URL.Path, status, time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context()))
	})
}
