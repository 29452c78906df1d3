package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/PaulBabatuyi/security-app-api/internal/apperrors"
	"github.com/PaulBabatuyi/security-app-api/internal/data"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Duration    int     `json:"duration"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, r, apperrors.Validation("title is required"))
		return
	}
	if req.Status == "" {
		req.Status = data.TaskPending
	}
	if !data.ValidTaskStatus(req.Status) {
		writeError(w, r, apperrors.Validation("status must be one of pending, in_progress, completed"))
		return
	}
	if req.Duration < 0 {
		writeError(w, r, apperrors.Validation("duration must not be negative"))
		return
	}

	task := &data.Task{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Duration:    req.Duration,
	}
	if err := s.tasks.CreateTask(r.Context(), task); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())
	tasks, err := s.tasks.ListTasks(r.Context(), user.ID, data.DefaultListLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	var update data.TaskUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, err)
		return
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		writeError(w, r, apperrors.Validation("title must not be empty"))
		return
	}
	if update.Status != nil && !data.ValidTaskStatus(*update.Status) {
		writeError(w, r, apperrors.Validation("status must be one of pending, in_progress, completed"))
		return
	}
	if update.Duration != nil && *update.Duration < 0 {
		writeError(w, r, apperrors.Validation("duration must not be negative"))
		return
	}

	task, err := s.tasks.UpdateTask(r.Context(), user.ID, mux.Vars(r)["id"], update)
	if errors.Is(err, data.ErrNotFound) {
		writeError(w, r, apperrors.NotFound("task not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
