package main

import (
	"net/http"

	"github.com/gorilla/mux"
)

// routes builds the HTTP handler. Routes stay on the root router with full
// paths; under a subrouter a method mismatch is reported as 404, not 405.
func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedHandler)
	r.Use(tracingMiddleware)

	// Public routes
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/files/{id}", s.handleGetFile).Methods(http.MethodGet)

	// Routes that require a bearer token
	protected := func(method, path string, h http.HandlerFunc) {
		r.Handle(path, s.requireAuth(h)).Methods(method)
	}

	protected(http.MethodGet, "/api/auth/me", s.handleMe)
	protected(http.MethodPatch, "/api/auth/me", s.handleUpdateMe)
	protected(http.MethodPost, "/api/auth/logout", s.handleLogout)
	protected(http.MethodGet, "/api/users/search/{code}", s.handleSearchUser)

	protected(http.MethodPost, "/api/upload", s.handleUpload)

	protected(http.MethodPost, "/api/chats", s.handleCreateChat)
	protected(http.MethodGet, "/api/chats", s.handleListChats)
	protected(http.MethodPost, "/api/chats/with-user/{user_id}", s.handleChatWithUser)
	protected(http.MethodPatch, "/api/chats/{id}", s.handleUpdateChat)

	protected(http.MethodPost, "/api/messages", s.handleCreateMessage)
	protected(http.MethodGet, "/api/messages", s.handleListMessages)

	protected(http.MethodPost, "/api/tasks", s.handleCreateTask)
	protected(http.MethodGet, "/api/tasks", s.handleListTasks)
	protected(http.MethodPatch, "/api/tasks/{id}", s.handleUpdateTask)

	protected(http.MethodPost, "/api/orders", s.handleCreateOrder)
	protected(http.MethodGet, "/api/orders", s.handleListOrders)

	protected(http.MethodPost, "/api/sos", s.handleCreateSOS)
	protected(http.MethodGet, "/api/sos", s.handleListSOS)

	return corsMiddleware(loggingMiddleware(r))
}
