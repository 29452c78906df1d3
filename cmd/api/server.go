package main

import (
	"context"
	"log"

	"github.com/PaulBabatuyi/security-app-api/internal/auth"
	"github.com/PaulBabatuyi/security-app-api/internal/data"
)

// Store interfaces the handlers depend on. The *data stores satisfy them;
// tests use in-memory fakes.
type (
	userStore interface {
		CreateUser(ctx context.Context, user *data.User) error
		GetUserByEmail(ctx context.Context, email string) (*data.User, error)
		GetUserByID(ctx context.Context, id string) (*data.User, error)
		GetUserByCode(ctx context.Context, code string) (*data.User, error)
		UpdateUser(ctx context.Context, id string, update data.UserUpdate) (*data.User, error)
	}

	chatStore interface {
		CreateChat(ctx context.Context, chat *data.Chat) error
		ListChats(ctx context.Context, userID string, limit int64) ([]data.Chat, error)
		UpdateChat(ctx context.Context, userID, chatID string, update data.ChatUpdate) (*data.Chat, error)
		FindChatWithPeer(ctx context.Context, userID, peerUserID string) (*data.Chat, error)
	}

	messageStore interface {
		SaveMessage(ctx context.Context, msg *data.Message) error
		ListMessages(ctx context.Context, chatID string, limit int64) ([]data.Message, error)
	}

	taskStore interface {
		CreateTask(ctx context.Context, task *data.Task) error
		ListTasks(ctx context.Context, userID string, limit int64) ([]data.Task, error)
		UpdateTask(ctx context.Context, userID, taskID string, update data.TaskUpdate) (*data.Task, error)
	}

	orderStore interface {
		CreateOrder(ctx context.Context, order *data.Order) error
		ListOrders(ctx context.Context, userID string, limit int64) ([]data.Order, error)
	}

	sosStore interface {
		CreateAlert(ctx context.Context, alert *data.SOSAlert) error
		ListAlerts(ctx context.Context, userID string, limit int64) ([]data.SOSAlert, error)
	}

	fileStore interface {
		SaveFile(ctx context.Context, file *data.StoredFile) error
		GetFile(ctx context.Context, id string) (*data.StoredFile, error)
	}
)

// stores groups the persistence dependencies of the Server.
type stores struct {
	users    userStore
	chats    chatStore
	messages messageStore
	tasks    taskStore
	orders   orderStore
	sos      sosStore
	files    fileStore
}

// Server holds the stores and auth services used by the HTTP handlers.
type Server struct {
	stores

	tokens    *auth.JWTManager
	passwords *auth.PasswordHasher
	denylist  auth.Denylist

	maxUploadBytes int64

	// dummyHash is compared against on logins for unknown emails so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// newServer returns a ready-to-use Server wired with stores and auth services.
func newServer(st stores, tokens *auth.JWTManager, passwords *auth.PasswordHasher, denylist auth.Denylist, maxUploadBytes int64) *Server {
	s := &Server{
		stores:         st,
		tokens:         tokens,
		passwords:      passwords,
		denylist:       denylist,
		maxUploadBytes: maxUploadBytes,
	}
	hash, err := passwords.Hash("timing-equalizer")
	if err != nil {
		log.Printf("dummy hash: %v", err)
	}
	s.dummyHash = hash
	return s
}
