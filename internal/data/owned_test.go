package data

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PaulBabatuyi/security-app-api/internal/db"
)

func TestChatsScopedToOwner(t *testing.T) {
	c := setupDB(t)
	chats := NewChatsStore(c.Collection(db.ChatsCollection))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := chats.CreateChat(ctx, &Chat{UserID: "user-a", ContactName: "for a"}); err != nil {
			t.Fatalf("CreateChat a failed: %v", err)
		}
		if err := chats.CreateChat(ctx, &Chat{UserID: "user-b", ContactName: "for b"}); err != nil {
			t.Fatalf("CreateChat b failed: %v", err)
		}
	}

	list, err := chats.ListChats(ctx, "user-a", DefaultListLimit)
	if err != nil {
		t.Fatalf("ListChats failed: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("expected 5 chats, got %d", len(list))
	}
	for _, ch := range list {
		if ch.UserID != "user-a" {
			t.Fatalf("chat %s belongs to %s", ch.ID, ch.UserID)
		}
	}
}

func TestChatPartialUpdateAndOwnership(t *testing.T) {
	c := setupDB(t)
	chats := NewChatsStore(c.Collection(db.ChatsCollection))
	ctx := context.Background()

	chat := &Chat{UserID: "user-a", ContactName: "Mom", IsOnline: true, LastMessage: "hi", Time: "10:00"}
	if err := chats.CreateChat(ctx, chat); err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}

	five := 5
	got, err := chats.UpdateChat(ctx, "user-a", chat.ID, ChatUpdate{UnreadCount: &five})
	if err != nil {
		t.Fatalf("UpdateChat failed: %v", err)
	}
	if got.UnreadCount != 5 || got.ContactName != "Mom" || !got.IsOnline || got.LastMessage != "hi" || got.Time != "10:00" {
		t.Fatalf("unexpected chat after partial update %+v", got)
	}

	name := "Stranger"
	if _, err := chats.UpdateChat(ctx, "user-b", chat.ID, ChatUpdate{ContactName: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's chat, got %v", err)
	}
	again, _ := chats.UpdateChat(ctx, "user-a", chat.ID, ChatUpdate{})
	if again.ContactName != "Mom" {
		t.Fatalf("another user modified the chat: %+v", again)
	}
}

func TestChatFindWithPeer(t *testing.T) {
	c := setupDB(t)
	chats := NewChatsStore(c.Collection(db.ChatsCollection))
	ctx := context.Background()

	if _, err := chats.FindChatWithPeer(ctx, "user-a", "user-b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	chat := &Chat{UserID: "user-a", ContactName: "Bob", PeerUserID: "user-b"}
	if err := chats.CreateChat(ctx, chat); err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}
	found, err := chats.FindChatWithPeer(ctx, "user-a", "user-b")
	if err != nil || found.ID != chat.ID {
		t.Fatalf("FindChatWithPeer: %v", err)
	}
}

func TestChatPeerPairIsUnique(t *testing.T) {
	c := setupDB(t)
	chats := NewChatsStore(c.Collection(db.ChatsCollection))
	ctx := context.Background()

	if err := chats.CreateChat(ctx, &Chat{UserID: "user-a", ContactName: "Bob", PeerUserID: "user-b"}); err != nil {
		t.Fatalf("CreateChat failed: %v", err)
	}
	err := chats.CreateChat(ctx, &Chat{UserID: "user-a", ContactName: "Bob again", PeerUserID: "user-b"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey for a second chat with the same peer, got %v", err)
	}
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) || dup.Index != db.ChatsOwnerPeerIndex {
		t.Fatalf("expected violation of %s, got %v", db.ChatsOwnerPeerIndex, err)
	}

	// The reverse direction belongs to the other owner.
	if err := chats.CreateChat(ctx, &Chat{UserID: "user-b", ContactName: "Alice", PeerUserID: "user-a"}); err != nil {
		t.Fatalf("CreateChat for the other owner failed: %v", err)
	}
	// Chats without a peer are not constrained.
	for i := 0; i < 2; i++ {
		if err := chats.CreateChat(ctx, &Chat{UserID: "user-a", ContactName: "Mom"}); err != nil {
			t.Fatalf("CreateChat without peer failed: %v", err)
		}
	}

	list, err := chats.ListChats(ctx, "user-a", DefaultListLimit)
	if err != nil {
		t.Fatalf("ListChats failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 chats for user-a, got %d", len(list))
	}
}

func TestTaskUpdate(t *testing.T) {
	c := setupDB(t)
	tasks := NewTasksStore(c.Collection(db.TasksCollection))
	ctx := context.Background()

	task := &Task{UserID: "user-a", Title: "Walk", Status: TaskPending}
	if err := tasks.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	status := TaskCompleted
	duration := 30
	got, err := tasks.UpdateTask(ctx, "user-a", task.ID, TaskUpdate{Status: &status, Duration: &duration})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if got.Status != TaskCompleted || got.Duration != 30 || got.Title != "Walk" {
		t.Fatalf("unexpected task %+v", got)
	}
}

func TestOrderRoundTrip(t *testing.T) {
	c := setupDB(t)
	orders := NewOrdersStore(c.Collection(db.OrdersCollection))
	ctx := context.Background()

	order := &Order{UserID: "user-a", OrderNumber: "A-1", Status: OrderProcessing, Items: []OrderItem{{ProductName: "Widget", Quantity: 2}}, TotalItems: 2}
	if err := orders.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	list, err := orders.ListOrders(ctx, "user-a", DefaultListLimit)
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 order, got %d", len(list))
	}
	got := list[0]
	if got.ID == "" || got.ID != order.ID {
		t.Fatalf("unexpected id %q", got.ID)
	}
	if len(got.Items) != 1 || got.Items[0] != (OrderItem{ProductName: "Widget", Quantity: 2}) || got.TotalItems != 2 {
		t.Fatalf("order did not round-trip: %+v", got)
	}
}

func TestSOSAlertsNewestFirst(t *testing.T) {
	c := setupDB(t)
	alerts := NewSOSStore(c.Collection(db.SOSAlertsCollection))
	ctx := context.Background()

	loc := "51.5,-0.12"
	if err := alerts.CreateAlert(ctx, &SOSAlert{UserID: "user-a", Status: SOSSent}); err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := alerts.CreateAlert(ctx, &SOSAlert{UserID: "user-a", Location: &loc, Status: SOSSent}); err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}

	list, err := alerts.ListAlerts(ctx, "user-a", DefaultListLimit)
	if err != nil {
		t.Fatalf("ListAlerts failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(list))
	}
	if list[0].Location == nil || *list[0].Location != loc {
		t.Fatal("expected newest alert first")
	}
}

func TestFilesSaveAndGet(t *testing.T) {
	c := setupDB(t)
	files := NewFilesStore(c.Collection(db.FilesCollection))
	ctx := context.Background()

	payload := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}
	f := &StoredFile{Filename: "a.png", ContentType: "image/png", Data: payload, UserID: "user-a"}
	if err := files.SaveFile(ctx, f); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	got, err := files.GetFile(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if !bytes.Equal(got.Data, payload) || got.ContentType != "image/png" || got.Size != int64(len(payload)) {
		t.Fatalf("file did not round-trip: %+v", got)
	}
	if _, err := files.GetFile(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
