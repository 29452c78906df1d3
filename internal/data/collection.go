// Package data provides DB models and stores.
package data

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	// ErrNotFound is returned when no document matches a lookup.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Default list caps.
const (
	DefaultListLimit  int64 = 100
	MessagesListLimit int64 = 1000
)

const (
	createdDateField = "created_date"
	ownerField       = "user_id"
)

// SortDirection orders FindMany results.
type SortDirection int

const (
	Ascending  SortDirection = 1
	Descending SortDirection = -1
)

// DuplicateKeyError reports the unique index an insert violated.
type DuplicateKeyError struct {
	Index string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	if e.Index == "" {
		return "duplicate key"
	}
	return "duplicate key on index " + e.Index
}

// Is matches ErrDuplicateKey.
func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// Unwrap returns the driver error.
func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// Collection is a typed accessor over one MongoDB collection. Documents carry
// a string _id assigned before insert.
type Collection[T any] struct {
	coll *mongo.Collection
}

// NewCollection returns a Collection using coll.
func NewCollection[T any](coll *mongo.Collection) *Collection[T] {
	return &Collection[T]{coll: coll}
}

// Insert stores doc. A unique index violation yields a *DuplicateKeyError.
func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &DuplicateKeyError{Index: duplicateIndexName(err), Err: err}
		}
		return fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

// FindOne returns the first document matching filter, or ErrNotFound.
func (c *Collection[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := c.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	return &doc, nil
}

// FindMany returns up to limit documents matching filter ordered by sortKey.
// The result is never nil.
func (c *Collection[T]) FindMany(ctx context.Context, filter bson.M, sortKey string, dir SortDirection, limit int64) ([]T, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: sortKey, Value: int(dir)}}).
		SetLimit(limit)

	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return docs, nil
}

// UpdateOne sets fields on the document matching filter. Matching nothing is
// not an error, and an empty field set is a no-op.
func (c *Collection[T]) UpdateOne(ctx context.Context, filter bson.M, fields bson.M) error {
	if len(fields) == 0 {
		return nil
	}
	delete(fields, "_id")
	if _, err := c.coll.UpdateOne(ctx, filter, bson.M{"$set": fields}); err != nil {
		return fmt.Errorf("update %s: %w", c.coll.Name(), err)
	}
	return nil
}

// ListByOwner returns the owner's documents, newest first.
func (c *Collection[T]) ListByOwner(ctx context.Context, ownerID string, limit int64) ([]T, error) {
	return c.FindMany(ctx, bson.M{ownerField: ownerID}, createdDateField, Descending, limit)
}

// UpdateOwned applies fields to the document id owned by ownerID and returns
// the document as stored afterwards. ErrNotFound means the document does not
// exist or belongs to someone else.
func (c *Collection[T]) UpdateOwned(ctx context.Context, ownerID, id string, fields bson.M) (*T, error) {
	filter := bson.M{"_id": id, ownerField: ownerID}
	if err := c.UpdateOne(ctx, filter, fields); err != nil {
		return nil, err
	}
	return c.FindOne(ctx, filter)
}

// newID returns a random document identifier.
func newID() string {
	return uuid.NewString()
}

// now returns the current time at the precision MongoDB stores dates.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// duplicateIndexName extracts the index name from a duplicate-key error
// message such as "E11000 duplicate key error collection: db.users index:
// users_email_unique dup key: { ... }".
func duplicateIndexName(err error) string {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if name := indexFromMessage(e.Message); name != "" {
				return name
			}
		}
	}
	return indexFromMessage(err.Error())
}

func indexFromMessage(msg string) string {
	const marker = "index: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexByte(rest, ' '); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
