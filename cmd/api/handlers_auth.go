package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/PaulBabatuyi/security-app-api/internal/apperrors"
	"github.com/PaulBabatuyi/security-app-api/internal/auth"
	"github.com/PaulBabatuyi/security-app-api/internal/data"
	"github.com/PaulBabatuyi/security-app-api/internal/normalize"
)

// maxUserCodeAttempts bounds regeneration when a user code collides.
const maxUserCodeAttempts = 5

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Email = normalize.Email(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		writeError(w, r, apperrors.Validation("email, password and full_name are required"))
		return
	}
	if len(req.Password) > maxPasswordBytes {
		writeError(w, r, apperrors.Validation("password must be at most 72 bytes"))
		return
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user := &data.User{Email: req.Email, PasswordHash: hash, FullName: req.FullName}
	for attempt := 1; ; attempt++ {
		code, err := auth.GenerateUserCode()
		if err != nil {
			writeError(w, r, err)
			return
		}
		user.ID = ""
		user.UserCode = code

		err = s.users.CreateUser(r.Context(), user)
		if errors.Is(err, data.ErrUserCodeTaken) && attempt < maxUserCodeAttempts {
			continue
		}
		switch {
		case errors.Is(err, data.ErrEmailTaken):
			writeError(w, r, apperrors.New(apperrors.CodeEmailTaken, "email already registered"))
			return
		case err != nil:
			writeError(w, r, err)
			return
		}
		break
	}

	s.writeToken(w, r, user.ID)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	// Unknown email and wrong password produce the same reply.
	invalid := apperrors.New(apperrors.CodeInvalidCredentials, "invalid email or password")

	user, err := s.users.GetUserByEmail(r.Context(), req.Email)
	if errors.Is(err, data.ErrNotFound) {
		_ = s.passwords.Check(s.dummyHash, req.Password)
		writeError(w, r, invalid)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.passwords.Check(user.PasswordHash, req.Password); err != nil {
		writeError(w, r, invalid)
		return
	}

	s.writeToken(w, r, user.ID)
}

func (s *Server) writeToken(w http.ResponseWriter, r *http.Request, userID string) {
	token, _, err := s.tokens.GenerateToken(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	var update data.UserUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, err)
		return
	}
	if update.FullName != nil && strings.TrimSpace(*update.FullName) == "" {
		writeError(w, r, apperrors.Validation("full_name must not be empty"))
		return
	}

	updated, err := s.users.UpdateUser(r.Context(), user.ID, update)
	if errors.Is(err, data.ErrNotFound) {
		writeError(w, r, apperrors.New(apperrors.CodeUserNotFound, "user not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleLogout revokes the presented token until it would have expired.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := currentClaims(r.Context())
	ttl := time.Until(claims.ExpiresAtTime())
	if err := s.denylist.Revoke(r.Context(), claims.TokenID(), ttl); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearchUser(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	user, err := s.users.GetUserByCode(r.Context(), code)
	if errors.Is(err, data.ErrNotFound) {
		writeError(w, r, apperrors.NotFound("user not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}
