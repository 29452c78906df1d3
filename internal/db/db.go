// Package db manages the MongoDB connection, collections and indexes.
package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"golang.org/x/time/rate"
)

// Collection names.
const (
	UsersCollection     = "users"
	ChatsCollection     = "chats"
	MessagesCollection  = "messages"
	TasksCollection     = "tasks"
	OrdersCollection    = "orders"
	SOSAlertsCollection = "sos_alerts"
	FilesCollection     = "files"
)

// Index names that callers match against duplicate-key errors.
const (
	UsersEmailIndex     = "users_email_unique"
	UsersUserCodeIndex  = "users_user_code_unique"
	ChatsOwnerPeerIndex = "chats_owner_peer_unique"
)

// pingInterval paces connection attempts at startup.
const pingInterval = 2 * time.Second

// Client wraps mongo.Client and exposes collections.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB, pings the primary (up to attempts times), and
// returns a Client bound to database.
func New(ctx context.Context, mongoURI, database string, attempts int) (*Client, error) {
	opts := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ping := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(ctx, readpref.Primary())
	}
	if err := pingWithRetry(ctx, attempts, pingInterval, ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(database),
	}, nil
}

// pingWithRetry calls ping until it succeeds, attempts run out, or ctx ends.
// Attempts after the first are spaced by interval.
func pingWithRetry(ctx context.Context, attempts int, interval time.Duration, ping func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	var err error
	for i := 1; i <= attempts; i++ {
		if werr := limiter.Wait(ctx); werr != nil {
			if err == nil {
				err = werr
			}
			return err
		}
		if err = ping(ctx); err == nil {
			return nil
		}
		if i < attempts {
			log.Printf("mongo ping attempt %d/%d failed: %v", i, attempts, err)
		}
	}
	return err
}

// Collection returns the named collection.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// indexSpecs lists the indexes each collection needs.
func indexSpecs() map[string][]mongo.IndexModel {
	ownerNewestFirst := func(name string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_date", Value: -1}},
			Options: options.Index().SetName(name),
		}
	}

	return map[string][]mongo.IndexModel{
		UsersCollection: {
			{
				// Uniqueness lives in the store so concurrent registrations
				// cannot both succeed.
				// Used by: GetUserByEmail() lookups at login and register
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(UsersEmailIndex),
			},
			{
				// Sparse: accounts created before codes existed have none.
				// Used by: GetUserByCode() search, CreateUser() code collisions
				Keys:    bson.D{{Key: "user_code", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true).SetName(UsersUserCodeIndex),
			},
		},
		// Owner lists are newest first: (user_id, created_date desc)
		// Used by: ListChats(), ListTasks(), ListOrders(), ListAlerts()
		ChatsCollection: {
			ownerNewestFirst("chats_owner_created"),
			{
				// One chat per (owner, peer) pair. Chats created without a
				// peer have no peer_user_id and are left out of the index.
				// Used by: FindChatWithPeer(), and CreateChat() rejects a
				// second chat for the same pair
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "peer_user_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"peer_user_id": bson.M{"$exists": true}}).
					SetName(ChatsOwnerPeerIndex),
			},
		},
		MessagesCollection: {
			{
				// Used by: ListMessages() filtered by chat, oldest first
				Keys:    bson.D{{Key: "chat_id", Value: 1}, {Key: "created_date", Value: 1}},
				Options: options.Index().SetName("messages_chat_created"),
			},
		},
		TasksCollection:     {ownerNewestFirst("tasks_owner_created")},
		OrdersCollection:    {ownerNewestFirst("orders_owner_created")},
		SOSAlertsCollection: {ownerNewestFirst("sos_alerts_owner_created")},
		FilesCollection: {
			{
				// Uploads are fetched by _id; user_id serves per-owner queries
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("files_owner"),
			},
		},
	}
}

// CreateIndexes creates the indexes for every collection.
func (c *Client) CreateIndexes(ctx context.Context) error {
	for name, models := range indexSpecs() {
		if _, err := c.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}
