package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/pathakanu/memoryjournal/internal/model"
	"github.com/pathakanu/memoryjournal/internal/store"
)

const minDetailsLength = 10

type memoryForm struct {
	Person  string
	Date    string
	Event   string
	Details string
	Tags    string
}

func (f memoryForm) validate() []string {
	var problems []string
	if f.Date == "" {
		problems = append(problems, "Date is required.")
	}
	if f.Event == "" {
		problems = append(problems, "Event is required.")
	}
	if utf8.RuneCountInString(f.Details) < minDetailsLength {
		problems = append(problems, "Please write at least 10 characters in details.")
	}
	return problems
}

type logPage struct {
	Form   memoryForm
	Errors []string
}

type searchPage struct {
	Query    string
	Searched bool
	Results  []model.Memory
}

type todoForm struct {
	Task     string
	DueDate  string
	Priority string
}

type todoPage struct {
	Todos      []model.Todo
	Priorities []model.Priority
	Form       todoForm
	Error      string
}

type ideaForm struct {
	Title       string
	Description string
	Tags        string
}

type ideasPage struct {
	Ideas []model.Idea
	Form  ideaForm
	Error string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index", nil)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.Ping(r.Context()); err != nil {
		s.logger.Printf("health: %v", err)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLogForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "log", logPage{})
}

func (s *Server) handleLogMemory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Sorry, that form could not be read.")
		return
	}

	form := memoryForm{
		Person:  strings.TrimSpace(r.PostFormValue("person")),
		Date:    strings.TrimSpace(r.PostFormValue("date")),
		Event:   strings.TrimSpace(r.PostFormValue("event")),
		Details: strings.TrimSpace(r.PostFormValue("details")),
		Tags:    strings.TrimSpace(r.PostFormValue("tags")),
	}
	if problems := form.validate(); len(problems) > 0 {
		s.render(w, http.StatusUnprocessableEntity, "log", logPage{Form: form, Errors: problems})
		return
	}

	memory := &model.Memory{
		Person:  form.Person,
		Date:    form.Date,
		Event:   form.Event,
		Details: form.Details,
		Tags:    form.Tags,
	}
	if err := s.journal.CreateMemory(r.Context(), memory); err != nil {
		s.storeFailure(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Sorry, that search could not be read.")
		return
	}

	query := strings.TrimSpace(r.FormValue("query"))
	page := searchPage{Query: query, Searched: query != ""}
	if page.Searched {
		results, err := s.journal.SearchMemories(r.Context(), query)
		if err != nil {
			s.storeFailure(w, err)
			return
		}
		page.Results = results
	}
	s.render(w, http.StatusOK, "search", page)
}

func (s *Server) handleRandomMemory(w http.ResponseWriter, r *http.Request) {
	memory, err := s.journal.RandomMemory(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		s.writeJSON(w, http.StatusOK, map[string]string{"memory": "No memories logged yet."})
		return
	}
	if err != nil {
		s.logger.Printf("random memory: %v", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load a memory"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"memory": memory.Line()})
}

func (s *Server) handleTodos(w http.ResponseWriter, r *http.Request) {
	s.renderTodos(w, r, http.StatusOK, todoForm{Priority: string(model.PriorityLow)}, "")
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Sorry, that form could not be read.")
		return
	}

	form := todoForm{
		Task:     strings.TrimSpace(r.PostFormValue("task")),
		DueDate:  strings.TrimSpace(r.PostFormValue("due_date")),
		Priority: r.PostFormValue("priority"),
	}
	if form.Task == "" {
		s.renderTodos(w, r, http.StatusUnprocessableEntity, form, "Task is required.")
		return
	}
	priority, err := model.ParsePriority(form.Priority)
	if err != nil {
		s.renderTodos(w, r, http.StatusUnprocessableEntity, form, "Priority must be Low, Medium or High.")
		return
	}

	todo := &model.Todo{Task: form.Task, DueDate: form.DueDate, Priority: priority}
	if err := s.journal.CreateTodo(r.Context(), todo); err != nil {
		s.storeFailure(w, err)
		return
	}
	http.Redirect(w, r, "/todo", http.StatusSeeOther)
}

func (s *Server) renderTodos(w http.ResponseWriter, r *http.Request, status int, form todoForm, message string) {
	todos, err := s.journal.ListTodos(r.Context())
	if err != nil {
		s.storeFailure(w, err)
		return
	}
	s.render(w, status, "todo", todoPage{
		Todos:      todos,
		Priorities: model.Priorities,
		Form:       form,
		Error:      message,
	})
}

func (s *Server) handleMarkDone(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.journal.MarkTodoDone(r.Context(), id); err != nil {
		s.storeFailure(w, err)
		return
	}
	http.Redirect(w, r, "/todo", http.StatusSeeOther)
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.journal.DeleteTodo(r.Context(), id); err != nil {
		s.storeFailure(w, err)
		return
	}
	http.Redirect(w, r, "/todo", http.StatusSeeOther)
}

func (s *Server) handleIdeas(w http.ResponseWriter, r *http.Request) {
	s.renderIdeas(w, r, http.StatusOK, ideaForm{}, "")
}

func (s *Server) handleCreateIdea(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Sorry, that form could not be read.")
		return
	}

	form := ideaForm{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Tags:        strings.TrimSpace(r.PostFormValue("tags")),
	}
	if form.Title == "" {
		s.renderIdeas(w, r, http.StatusUnprocessableEntity, form, "Title is required.")
		return
	}

	idea := &model.Idea{Title: form.Title, Description: form.Description, Tags: form.Tags}
	if err := s.journal.CreateIdea(r.Context(), idea); err != nil {
		s.storeFailure(w, err)
		return
	}
	http.Redirect(w, r, "/ideas", http.StatusSeeOther)
}

func (s *Server) renderIdeas(w http.ResponseWriter, r *http.Request, status int, form ideaForm, message string) {
	ideas, err := s.journal.ListIdeas(r.Context())
	if err != nil {
		s.storeFailure(w, err)
		return
	}
	s.render(w, status, "ideas", ideasPage{Ideas: ideas, Form: form, Error: message})
}

func (s *Server) handleDeleteIdea(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.journal.DeleteIdea(r.Context(), id); err != nil {
		s.storeFailure(w, err)
		return
	}
	http.Redirect(w, r, "/ideas", http.StatusSeeOther)
}

func (s *Server) handleAIQuery(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, http.StatusBadRequest, "Sorry, that question could not be read.")
		return
	}

	result, err := s.assistant.Ask(r.Context(), r.PostFormValue("question"))
	if err != nil {
		s.storeFailure(w, err)
		return
	}
	s.render(w, http.StatusOK, "results", result)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		s.renderError(w, http.StatusBadRequest, "That id is not valid.")
		return 0, false
	}
	return uint(id), true
}

// storeFailure renders a 404 for missing rows and a logged 500 otherwise.
func (s *Server) storeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.renderError(w, http.StatusNotFound, "That item no longer exists.")
		return
	}
	s.logger.Printf("store: %v", err)
	s.renderError(w, http.StatusInternalServerError, "We could not reach your journal right now. Please try again.")
}
