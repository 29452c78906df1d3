package data

import "time"

// User maps to the users collection. The bcrypt hash is never serialized.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password" json:"-"`
	FullName     string    `bson:"full_name" json:"full_name"`
	AvatarURL    *string   `bson:"avatar_url" json:"avatar_url"`
	UserCode     string    `bson:"user_code,omitempty" json:"user_code,omitempty"`
	CreatedDate  time.Time `bson:"created_date" json:"created_date"`
}

// PublicUser is the subset of a User visible to other users.
type PublicUser struct {
	ID        string  `json:"id"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	UserCode  string  `json:"user_code"`
}

// Public returns the profile other users may see.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, FullName: u.FullName, AvatarURL: u.AvatarURL, UserCode: u.UserCode}
}

// Chat maps to the chats collection (one thread owned by a user).
type Chat struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	ContactName string    `bson:"contact_name" json:"contact_name"`
	IsOnline    bool      `bson:"is_online" json:"is_online"`
	LastMessage string    `bson:"last_message" json:"last_message"`
	Time        string    `bson:"time" json:"time"`
	UnreadCount int       `bson:"unread_count" json:"unread_count"`
	PeerUserID  string    `bson:"peer_user_id,omitempty" json:"peer_user_id,omitempty"`
	CreatedDate time.Time `bson:"created_date" json:"created_date"`
}

// Message maps to the messages collection.
type Message struct {
	ID          string    `bson:"_id" json:"id"`
	ChatID      string    `bson:"chat_id" json:"chat_id"`
	SenderName  string    `bson:"sender_name" json:"sender_name"`
	Text        string    `bson:"text" json:"text"`
	IsOutgoing  bool      `bson:"is_outgoing" json:"is_outgoing"`
	ImageURL    *string   `bson:"image_url" json:"image_url"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
	CreatedDate time.Time `bson:"created_date" json:"created_date"`
}

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
)

// Task maps to the tasks collection.
type Task struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Title       string    `bson:"title" json:"title"`
	Description *string   `bson:"description" json:"description"`
	Status      string    `bson:"status" json:"status"`
	StartTime   *string   `bson:"start_time" json:"start_time"`
	EndTime     *string   `bson:"end_time" json:"end_time"`
	Duration    int       `bson:"duration" json:"duration"`
	CreatedDate time.Time `bson:"created_date" json:"created_date"`
}

// Order statuses.
const (
	OrderProcessing = "processing"
	OrderReady      = "ready"
	OrderCompleted  = "completed"
)

// OrderItem is one line of an order.
type OrderItem struct {
	ProductName string `bson:"product_name" json:"product_name"`
	Quantity    int    `bson:"quantity" json:"quantity"`
}

// Order maps to the orders collection.
type Order struct {
	ID          string      `bson:"_id" json:"id"`
	UserID      string      `bson:"user_id" json:"user_id"`
	OrderNumber string      `bson:"order_number" json:"order_number"`
	Status      string      `bson:"status" json:"status"`
	Items       []OrderItem `bson:"items" json:"items"`
	TotalItems  int         `bson:"total_items" json:"total_items"`
	CreatedDate time.Time   `bson:"created_date" json:"created_date"`
}

// SOS alert statuses.
const (
	SOSSent         = "sent"
	SOSAcknowledged = "acknowledged"
	SOSResolved     = "resolved"
)

// SOSAlert maps to the sos_alerts collection.
type SOSAlert struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Location    *string   `bson:"location" json:"location"`
	Status      string    `bson:"status" json:"status"`
	CreatedDate time.Time `bson:"created_date" json:"created_date"`
}

// StoredFile maps to the files collection; Data holds the raw bytes.
type StoredFile struct {
	ID          string    `bson:"_id" json:"id"`
	Filename    string    `bson:"filename" json:"filename"`
	ContentType string    `bson:"content_type" json:"content_type"`
	Data        []byte    `bson:"data" json:"-"`
	Size        int64     `bson:"size" json:"size"`
	UserID      string    `bson:"user_id" json:"user_id"`
	CreatedDate time.Time `bson:"created_date" json:"created_date"`
}

// ValidTaskStatus reports whether s is a task status.
func ValidTaskStatus(s string) bool {
	return s == TaskPending || s == TaskInProgress || s == TaskCompleted
}

// ValidOrderStatus reports whether s is an order status.
func ValidOrderStatus(s string) bool {
	return s == OrderProcessing || s == OrderReady || s == OrderCompleted
}

// ValidSOSStatus reports whether s is an SOS alert status.
func ValidSOSStatus(s string) bool {
	return s == SOSSent || s == SOSAcknowledged || s == SOSResolved
}
