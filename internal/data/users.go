package data

import (
	"context"
	"errors"

	"github.com/PaulBabatuyi/security-app-api/internal/db"
	"github.com/PaulBabatuyi/security-app-api/internal/normalize"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserCodeTaken is returned when the generated user code collides.
	ErrUserCodeTaken = errors.New("user code already taken")
)

// UserUpdate holds the optional fields of a profile update; nil fields are
// left unchanged.
type UserUpdate struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// Fields returns the $set document for the supplied fields.
func (u UserUpdate) Fields() bson.M {
	fields := bson.M{}
	if u.FullName != nil {
		fields["full_name"] = *u.FullName
	}
	if u.AvatarURL != nil {
		fields["avatar_url"] = *u.AvatarURL
	}
	return fields
}

// UsersStore performs user DB operations.
type UsersStore struct {
	coll *Collection[User]
}

// NewUsersStore returns a UsersStore using the provided collection.
func NewUsersStore(coll *mongo.Collection) *UsersStore {
	return &UsersStore{coll: NewCollection[User](coll)}
}

// CreateUser inserts a new user. The email and user code are normalized, and
// an id and creation date are assigned when missing.
func (u *UsersStore) CreateUser(ctx context.Context, user *User) error {
	user.Email = normalize.Email(user.Email)
	user.UserCode = normalize.UserCode(user.UserCode)
	if user.ID == "" {
		user.ID = newID()
	}
	if user.CreatedDate.IsZero() {
		user.CreatedDate = now()
	}

	err := u.coll.Insert(ctx, user)
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		// The unique indexes are the source of truth for uniqueness.
		switch dup.Index {
		case db.UsersUserCodeIndex:
			return ErrUserCodeTaken
		default:
			return ErrEmailTaken
		}
	}
	return err
}

// GetUserByEmail finds a user by (normalized) email.
func (u *UsersStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return u.coll.FindOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetUserByID finds a user by id.
func (u *UsersStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	return u.coll.FindOne(ctx, bson.M{"_id": id})
}

// GetUserByCode finds a user by user code, ignoring case.
func (u *UsersStore) GetUserByCode(ctx context.Context, code string) (*User, error) {
	code = normalize.UserCode(code)
	if code == "" {
		return nil, ErrNotFound
	}
	return u.coll.FindOne(ctx, bson.M{"user_code": code})
}

// UpdateUser applies update to the user and returns the stored result.
func (u *UsersStore) UpdateUser(ctx context.Context, id string, update UserUpdate) (*User, error) {
	filter := bson.M{"_id": id}
	if err := u.coll.UpdateOne(ctx, filter, update.Fields()); err != nil {
		return nil, err
	}
	return u.coll.FindOne(ctx, filter)
}
