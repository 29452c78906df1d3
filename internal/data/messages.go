package data

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MessagesStore provides message database operations.
type MessagesStore struct {
	coll *Collection[Message]
}

// NewMessagesStore returns a MessagesStore using given collection.
func NewMessagesStore(coll *mongo.Collection) *MessagesStore {
	return &MessagesStore{coll: NewCollection[Message](coll)}
}

// SaveMessage inserts msg after assigning its id, timestamp and creation
// date.
func (m *MessagesStore) SaveMessage(ctx context.Context, msg *Message) error {
	msg.ID = newID()
	msg.CreatedDate = now()
	msg.Timestamp = msg.CreatedDate
	return m.coll.Insert(ctx, msg)
}

// ListMessages returns messages oldest first. An empty chatID lists across
// all chats.
func (m *MessagesStore) ListMessages(ctx context.Context, chatID string, limit int64) ([]Message, error) {
	filter := bson.M{}
	if chatID != "" {
		filter["chat_id"] = chatID
	}
	return m.coll.FindMany(ctx, filter, createdDateField, Ascending, limit)
}
