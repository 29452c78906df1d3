package data

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// FilesStore stores uploaded file bytes and metadata.
type FilesStore struct {
	coll *Collection[StoredFile]
}

// NewFilesStore returns a FilesStore using the provided collection.
func NewFilesStore(coll *mongo.Collection) *FilesStore {
	return &FilesStore{coll: NewCollection[StoredFile](coll)}
}

// SaveFile inserts file after assigning its id, size and creation date.
func (s *FilesStore) SaveFile(ctx context.Context, file *StoredFile) error {
	file.ID = newID()
	file.Size = int64(len(file.Data))
	file.CreatedDate = now()
	return s.coll.Insert(ctx, file)
}

// GetFile returns the file with id regardless of owner; file URLs are
// shareable.
func (s *FilesStore) GetFile(ctx context.Context, id string) (*StoredFile, error) {
	return s.coll.FindOne(ctx, bson.M{"_id": id})
}
