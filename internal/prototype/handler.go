package prototype

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// Handler serves the prototype HTTP API
type Handler struct {
	store  *Store
	logger *logrus.Logger
}

// NewHandler creates a Handler
func NewHandler(store *Store, logger *logrus.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Routes returns the prototype mux
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	for _, prefix := range []string{"/projects", "/projects/{$}"} {
		mux.HandleFunc("GET "+prefix, h.listProjects)
		mux.HandleFunc("POST "+prefix, h.createProject)
	}
	for _, prefix := range []string{"/tasks", "/tasks/{$}"} {
		mux.HandleFunc("GET "+prefix, h.listTasks)
		mux.HandleFunc("POST "+prefix, h.createTask)
	}
	return h.logRequests(mux)
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	project, err := h.store.CreateProject(r.Context(), Project{Name: *in.Name})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListTasks(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title     *string `json:"title"`
		ProjectID *int64  `json:"project_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid JSON body")
		return
	}
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "title is required")
		return
	}
	if in.ProjectID == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "project_id is required")
		return
	}
	task, err := h.store.CreateTask(r.Context(), Task{Title: *in.Title, ProjectID: *in.ProjectID})
	if errors.Is(err, ErrProjectNotFound) {
		writeDetail(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.WithError(err).Error("prototype request failed")
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}

// statusRecorder captures the status written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.WithFields(logrus.Fields{
			"status": rec.status,
			"method": r.Method,
			"path":   r.URL.Path,
		}).Info("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes an error body shaped {"detail": "..."}
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
