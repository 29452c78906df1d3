package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/PaulBabatuyi/security-app-api/internal/apperrors"
	"github.com/PaulBabatuyi/security-app-api/internal/data"
)

type createChatRequest struct {
	ContactName string `json:"contact_name"`
	IsOnline    bool   `json:"is_online"`
	LastMessage string `json:"last_message"`
	Time        string `json:"time"`
	UnreadCount int    `json:"unread_count"`
}

type createMessageRequest struct {
	ChatID     string  `json:"chat_id"`
	SenderName string  `json:"sender_name"`
	Text       *string `json:"text"`
	IsOutgoing *bool   `json:"is_outgoing"`
	ImageURL   *string `json:"image_url"`
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	var req createChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.ContactName) == "" {
		writeError(w, r, apperrors.Validation("contact_name is required"))
		return
	}
	if req.UnreadCount < 0 {
		writeError(w, r, apperrors.Validation("unread_count must not be negative"))
		return
	}

	chat := &data.Chat{
		UserID:      user.ID,
		ContactName: req.ContactName,
		IsOnline:    req.IsOnline,
		LastMessage: req.LastMessage,
		Time:        req.Time,
		UnreadCount: req.UnreadCount,
	}
	if err := s.chats.CreateChat(r.Context(), chat); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, chat)
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())
	chats, err := s.chats.ListChats(r.Context(), user.ID, data.DefaultListLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (s *Server) handleUpdateChat(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())

	var update data.ChatUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, err)
		return
	}
	if update.ContactName != nil && strings.TrimSpace(*update.ContactName) == "" {
		writeError(w, r, apperrors.Validation("contact_name must not be empty"))
		return
	}
	if update.UnreadCount != nil && *update.UnreadCount < 0 {
		writeError(w, r, apperrors.Validation("unread_count must not be negative"))
		return
	}

	chat, err := s.chats.UpdateChat(r.Context(), user.ID, mux.Vars(r)["id"], update)
	if errors.Is(err, data.ErrNotFound) {
		writeError(w, r, apperrors.NotFound("chat not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// handleChatWithUser returns the caller's chat with another user, creating it
// on first use.
func (s *Server) handleChatWithUser(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(r.Context())
	peerID := mux.Vars(r)["user_id"]
	if peerID == user.ID {
		writeError(w, r, apperrors.Validation("cannot start a chat with yourself"))
		return
	}

	peer, err := s.users.GetUserByID(r.Context(), peerID)
	if errors.Is(err, data.ErrNotFound) {
		writeError(w, r, apperrors.NotFound("user not found"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	existing, err := s.chats.FindChatWithPeer(r.Context(), user.ID, peer.ID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, existing)
		return
	case !errors.Is(err, data.ErrNotFound):
		writeError(w, r, err)
		return
	}

	chat := &data.Chat{UserID: user.ID, ContactName: peer.FullName, PeerUserID: peer.ID}
	err = s.chats.CreateChat(r.Context(), chat)
	if errors.Is(err, data.ErrDuplicateKey) {
		// A concurrent request created the pair first.
		existing, err = s.chats.FindChatWithPeer(r.Context(), user.ID, peer.ID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, existing)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, chat)
}

func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	var req createMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	switch {
	case strings.TrimSpace(req.ChatID) == "":
		writeError(w, r, apperrors.Validation("chat_id is required"))
		return
	case strings.TrimSpace(req.SenderName) == "":
		writeError(w, r, apperrors.Validation("sender_name is required"))
		return
	case req.Text == nil:
		writeError(w, r, apperrors.Validation("text is required"))
		return
	case req.IsOutgoing == nil:
		writeError(w, r, apperrors.Validation("is_outgoing is required"))
		return
	}

	msg := &data.Message{
		ChatID:     req.ChatID,
		SenderName: req.SenderName,
		Text:       *req.Text,
		IsOutgoing: *req.IsOutgoing,
		ImageURL:   req.ImageURL,
	}
	if err := s.messages.SaveMessage(r.Context(), msg); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// handleListMessages lists messages oldest first, optionally for one chat.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chat_id")
	msgs, err := s.messages.ListMessages(r.Context(), chatID, data.MessagesListLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
