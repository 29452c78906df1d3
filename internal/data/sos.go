package data

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// SOSStore performs SOS alert DB operations.
type SOSStore struct {
	coll *Collection[SOSAlert]
}

// NewSOSStore returns an SOSStore using the provided collection.
func NewSOSStore(coll *mongo.Collection) *SOSStore {
	return &SOSStore{coll: NewCollection[SOSAlert](coll)}
}

// CreateAlert inserts alert after assigning its id and creation date.
func (s *SOSStore) CreateAlert(ctx context.Context, alert *SOSAlert) error {
	alert.ID = newID()
	alert.CreatedDate = now()
	return s.coll.Insert(ctx, alert)
}

// ListAlerts returns the owner's alerts, newest first.
func (s *SOSStore) ListAlerts(ctx context.Context, userID string, limit int64) ([]SOSAlert, error) {
	return s.coll.ListByOwner(ctx, userID, limit)
}
