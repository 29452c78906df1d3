package data

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIndexFromMessage(t *testing.T) {
	cases := map[string]string{
		"E11000 duplicate key error collection: app.users index: users_email_unique dup key: { email: \"a@b.c\" }": "users_email_unique",
		"E11000 duplicate key error collection: app.users index: users_user_code_unique dup key: { user_code: \"AB12CD\" }": "users_user_code_unique",
		"E11000 duplicate key error": "",
		"index: trailing":            "trailing",
	}
	for msg, want := range cases {
		if got := indexFromMessage(msg); got != want {
			t.Fatalf("indexFromMessage(%q) = %q, want %q", msg, got, want)
		}
	}
}

func TestDuplicateKeyErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("create: %w", &DuplicateKeyError{Index: "users_email_unique"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatal("expected errors.Is(err, ErrDuplicateKey)")
	}
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) || dup.Index != "users_email_unique" {
		t.Fatalf("errors.As failed: %+v", dup)
	}
}

func TestNowHasMillisecondPrecision(t *testing.T) {
	ts := now()
	if ts.Location() != time.UTC {
		t.Fatalf("expected UTC, got %s", ts.Location())
	}
	if ts.Nanosecond()%int(time.Millisecond) != 0 {
		t.Fatalf("expected millisecond truncation, got %d ns", ts.Nanosecond())
	}
}

func TestNewIDIsUnique(t *testing.T) {
	a, b := newID(), newID()
	if a == "" || a == b {
		t.Fatalf("expected distinct ids, got %q and %q", a, b)
	}
}

func TestChatUpdateFieldsOnlySupplied(t *testing.T) {
	five := 5
	fields := ChatUpdate{UnreadCount: &five}.Fields()
	if len(fields) != 1 || fields["unread_count"] != 5 {
		t.Fatalf("unexpected fields %v", fields)
	}

	zero := 0
	offline := false
	empty := ""
	fields = ChatUpdate{UnreadCount: &zero, IsOnline: &offline, LastMessage: &empty}.Fields()
	if len(fields) != 3 {
		t.Fatalf("explicit zero values must still be set, got %v", fields)
	}
	if _, ok := fields["user_id"]; ok {
		t.Fatal("user_id must never be updatable")
	}
}

func TestTaskUpdateFields(t *testing.T) {
	status := TaskInProgress
	start := "09:00"
	fields := TaskUpdate{Status: &status, StartTime: &start}.Fields()
	if len(fields) != 2 || fields["status"] != TaskInProgress || fields["start_time"] != "09:00" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if len(TaskUpdate{}.Fields()) != 0 {
		t.Fatal("empty update should produce no fields")
	}
}

func TestUserUpdateFields(t *testing.T) {
	name := "Ada"
	fields := UserUpdate{FullName: &name}.Fields()
	if len(fields) != 1 || fields["full_name"] != "Ada" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestStatusValidators(t *testing.T) {
	if !ValidTaskStatus(TaskCompleted) || ValidTaskStatus("done") {
		t.Fatal("task status validation wrong")
	}
	if !ValidOrderStatus(OrderReady) || ValidOrderStatus("shipped") {
		t.Fatal("order status validation wrong")
	}
	if !ValidSOSStatus(SOSAcknowledged) || ValidSOSStatus("") {
		t.Fatal("sos status validation wrong")
	}
}

func TestUserPublicOmitsPrivateFields(t *testing.T) {
	u := &User{ID: "u1", Email: "a@b.c", PasswordHash: "hash", FullName: "Ada", UserCode: "AB12CD"}
	p := u.Public()
	if p.ID != "u1" || p.FullName != "Ada" || p.UserCode != "AB12CD" {
		t.Fatalf("unexpected public profile %+v", p)
	}
}
