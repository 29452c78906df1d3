package data

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// TaskUpdate holds the optional fields of a task update.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Duration    *int    `json:"duration"`
}

// Fields returns the $set document for the supplied fields.
func (u TaskUpdate) Fields() bson.M {
	fields := bson.M{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Status != nil {
		fields["status"] = *u.Status
	}
	if u.StartTime != nil {
		fields["start_time"] = *u.StartTime
	}
	if u.EndTime != nil {
		fields["end_time"] = *u.EndTime
	}
	if u.Duration != nil {
		fields["duration"] = *u.Duration
	}
	return fields
}

// TasksStore performs task DB operations.
type TasksStore struct {
	coll *Collection[Task]
}

// NewTasksStore returns a TasksStore using the provided collection.
func NewTasksStore(coll *mongo.Collection) *TasksStore {
	return &TasksStore{coll: NewCollection[Task](coll)}
}

// CreateTask inserts task after assigning its id and creation date.
func (s *TasksStore) CreateTask(ctx context.Context, task *Task) error {
	task.ID = newID()
	task.CreatedDate = now()
	return s.coll.Insert(ctx, task)
}

// ListTasks returns the owner's tasks, newest first.
func (s *TasksStore) ListTasks(ctx context.Context, userID string, limit int64) ([]Task, error) {
	return s.coll.ListByOwner(ctx, userID, limit)
}

// UpdateTask applies update to the owner's task.
func (s *TasksStore) UpdateTask(ctx context.Context, userID, taskID string, update TaskUpdate) (*Task, error) {
	return s.coll.UpdateOwned(ctx, userID, taskID, update.Fields())
}
