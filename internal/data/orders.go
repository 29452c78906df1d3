package data

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// OrdersStore performs order DB operations.
type OrdersStore struct {
	coll *Collection[Order]
}

// NewOrdersStore returns an OrdersStore using the provided collection.
func NewOrdersStore(coll *mongo.Collection) *OrdersStore {
	return &OrdersStore{coll: NewCollection[Order](coll)}
}

// CreateOrder inserts order after assigning its id and creation date.
func (s *OrdersStore) CreateOrder(ctx context.Context, order *Order) error {
	order.ID = newID()
	order.CreatedDate = now()
	if order.Items == nil {
		order.Items = []OrderItem{}
	}
	return s.coll.Insert(ctx, order)
}

// ListOrders returns the owner's orders, newest first.
func (s *OrdersStore) ListOrders(ctx context.Context, userID string, limit int64) ([]Order, error) {
	return s.coll.ListByOwner(ctx, userID, limit)
}
