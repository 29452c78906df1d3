package data

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ChatUpdate holds the optional fields of a chat update.
type ChatUpdate struct {
	ContactName *string `json:"contact_name"`
	LastMessage *string `json:"last_message"`
	Time        *string `json:"time"`
	UnreadCount *int    `json:"unread_count"`
	IsOnline    *bool   `json:"is_online"`
}

// Fields returns the $set document for the supplied fields. user_id is not
// updatable.
func (u ChatUpdate) Fields() bson.M {
	fields := bson.M{}
	if u.ContactName != nil {
		fields["contact_name"] = *u.ContactName
	}
	if u.LastMessage != nil {
		fields["last_message"] = *u.LastMessage
	}
	if u.Time != nil {
		fields["time"] = *u.Time
	}
	if u.UnreadCount != nil {
		fields["unread_count"] = *u.UnreadCount
	}
	if u.IsOnline != nil {
		fields["is_online"] = *u.IsOnline
	}
	return fields
}

// ChatsStore performs chat DB operations.
type ChatsStore struct {
	coll *Collection[Chat]
}

// NewChatsStore returns a ChatsStore using the provided collection.
func NewChatsStore(coll *mongo.Collection) *ChatsStore {
	return &ChatsStore{coll: NewCollection[Chat](coll)}
}

// CreateChat inserts chat after assigning its id and creation date.
func (s *ChatsStore) CreateChat(ctx context.Context, chat *Chat) error {
	chat.ID = newID()
	chat.CreatedDate = now()
	return s.coll.Insert(ctx, chat)
}

// ListChats returns the owner's chats, newest first.
func (s *ChatsStore) ListChats(ctx context.Context, userID string, limit int64) ([]Chat, error) {
	return s.coll.ListByOwner(ctx, userID, limit)
}

// UpdateChat applies update to the owner's chat. ErrNotFound if the chat is
// absent or owned by another user.
func (s *ChatsStore) UpdateChat(ctx context.Context, userID, chatID string, update ChatUpdate) (*Chat, error) {
	return s.coll.UpdateOwned(ctx, userID, chatID, update.Fields())
}

// FindChatWithPeer returns the owner's chat linked to peerUserID.
func (s *ChatsStore) FindChatWithPeer(ctx context.Context, userID, peerUserID string) (*Chat, error) {
	return s.coll.FindOne(ctx, bson.M{ownerField: userID, "peer_user_id": peerUserID})
}
